package services

import (
	"context"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	defaultPageSize = 100
)

type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// base carries what every record service needs.
type base struct {
	db     *gorm.DB
	policy *policy.Policy
	logger *zap.Logger
	now    Clock
}

// Services groups the record services over one store.
type Services struct {
	Auth           *AuthService
	Users          *UserService
	Departments    *DepartmentService
	Employees      *EmployeeService
	Contracts      *ContractService
	Educations     *EducationService
	Certifications *CertificationService
	Leaves         *LeaveService
	Attendances    *AttendanceService
	Dashboard      *DashboardService
	Reports        *ReportService
}

type Options struct {
	Logger  *zap.Logger
	Clock   Clock
	Tokens  *TokenManager
	Limiter LoginLimiter
}

func New(db *gorm.DB, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = utcNow
	}
	b := base{db: db, policy: policy.New(db), logger: opts.Logger, now: opts.Clock}

	s := &Services{
		Auth:           NewAuthService(db, opts.Tokens, opts.Limiter, opts.Logger),
		Users:          &UserService{base: b},
		Departments:    &DepartmentService{base: b},
		Employees:      &EmployeeService{base: b},
		Contracts:      &ContractService{base: b},
		Educations:     &EducationService{base: b},
		Certifications: &CertificationService{base: b},
		Leaves:         &LeaveService{base: b},
		Attendances:    &AttendanceService{base: b},
		Dashboard:      &DashboardService{base: b},
	}
	s.Reports = &ReportService{attendances: s.Attendances, leaves: s.Leaves, employees: s.Employees, logger: opts.Logger, now: opts.Clock}
	return s
}

// scoped starts a query on resource already narrowed to what identity may see.
func (b base) scoped(ctx context.Context, identity policy.Identity, resource policy.Resource, model interface{}) (*gorm.DB, error) {
	scope, err := b.policy.ScopeFilter(ctx, identity, resource)
	if err != nil {
		return nil, err
	}
	return scope.Apply(b.db.WithContext(ctx).Model(model), resource), nil
}

// findScoped loads the row with id into dest if identity may see it.
// Invisible and absent rows are Forbidden for non-admins and NotFound for admins,
// so a caller can't learn which rows exist outside its scope.
func (b base) findScoped(ctx context.Context, identity policy.Identity, resource policy.Resource, what string, id uint, dest interface{}) error {
	query, err := b.scoped(ctx, identity, resource, dest)
	if err != nil {
		return err
	}
	err = query.Where(string(resource)+".id = ?", id).First(dest).Error
	if err == nil {
		return nil
	}
	if store.IsNotFound(err) {
		if identity.IsAdmin() {
			return types.NotFound(what)
		}
		return types.Forbidden()
	}
	return store.TranslateError("load "+what, err)
}

// findByID loads any row by id for admin mutations.
func (b base) findByID(tx *gorm.DB, what string, id uint, dest interface{}) error {
	if err := tx.First(dest, id).Error; err != nil {
		if store.IsNotFound(err) {
			return types.NotFound(what)
		}
		return store.TranslateError("load "+what, err)
	}
	return nil
}

func (b base) ensureEmployee(tx *gorm.DB, id uint) error {
	if id == 0 {
		return types.Validation("employee_id is required")
	}
	var count int64
	if err := tx.Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return store.TranslateError("check employee", err)
	}
	if count == 0 {
		return types.NotFound("employee")
	}
	return nil
}

func (b base) logStoreError(op string, err error) {
	if types.KindOf(err) == types.KindStore {
		b.logger.Error("Store operation failed", zap.String("op", op), zap.Error(err))
	}
}

// each pages through build's query. The sequence is lazy and restartable:
// every iteration re-runs build, and no connection is held between pages.
// The query must have a total order.
func each[T any](build func() (*gorm.DB, error), pageSize int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for offset := 0; ; offset += pageSize {
			query, err := build()
			if err != nil {
				yield(zero, err)
				return
			}
			var page []T
			if err := query.Offset(offset).Limit(pageSize).Find(&page).Error; err != nil {
				yield(zero, store.TranslateError("list", err))
				return
			}
			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, types.Validation("%s is required", field)
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, types.Validation("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func parseClock(field, raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			s := t.Format(timeLayout)
			return &s, nil
		}
	}
	return nil, types.Validation("%s must be a time in HH:MM:SS format", field)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// required rejects blank values. The value is stored exactly as submitted.
func required(field, raw string, max int) (string, error) {
	if strings.TrimSpace(raw) == "" || utf8.RuneCountInString(raw) > max {
		return "", types.Validation("%s length must be in range 1..%d", field, max)
	}
	return raw, nil
}

func optional(field, raw string, max int) (string, error) {
	if utf8.RuneCountInString(raw) > max {
		return "", types.Validation("%s must be at most %d characters", field, max)
	}
	return raw, nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return types.Validation("%s must be one of: %s", field, strings.Join(allowed, ", "))
}

func validYear(field string, year *int) error {
	if year == nil {
		return nil
	}
	if *year < 1900 || *year > 2200 {
		return types.Validation("%s must be between 1900 and 2200", field)
	}
	return nil
}

// deleteByID removes one row of model for an admin caller.
func (b base) deleteByID(ctx context.Context, identity policy.Identity, what string, model interface{}, id uint) error {
	if err := policy.RequireAdmin(identity); err != nil {
		return err
	}
	err := store.Transaction(ctx, b.db, func(tx *gorm.DB) error {
		res := tx.Delete(model, id)
		if res.Error != nil {
			return store.TranslateError("delete "+what, res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NotFound(what)
		}
		return nil
	})
	if err != nil {
		b.logStoreError("delete "+what, err)
		return err
	}
	b.logger.Info("Record deleted", zap.String("resource", what), zap.Uint("id", id), zap.Uint("user_id", identity.UserID))
	return nil
}
