package services

import (
	"context"
	"strings"
	"sync"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/store"
	"hr_records/types"
	"hr_records/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("not-a-real-password")
	return h
})

type AuthService struct {
	db      *gorm.DB
	tokens  *TokenManager
	limiter LoginLimiter
	logger  *zap.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenManager, limiter LoginLimiter, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{db: db, tokens: tokens, limiter: limiter, logger: logger}
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in"`
	Identity  policy.Identity `json:"identity"`
}

// Authenticate verifies credentials against active users.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (policy.Identity, error) {
	username = strings.TrimSpace(username)

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, username)
		if err != nil {
			s.logger.Warn("Login limiter unavailable", zap.Error(err))
		} else if blocked {
			return policy.Identity{}, types.RateLimited()
		}
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND active = ?", username, true).
		First(&user).Error
	if err != nil && !store.IsNotFound(err) {
		s.logger.Error("Failed to load user", zap.Error(err))
		return policy.Identity{}, store.TranslateError("load user", err)
	}

	hash := user.PasswordHash
	if err != nil {
		hash = dummyHash()
	}
	if !utils.CheckPasswordHash(password, hash) || err != nil {
		s.recordFailure(ctx, username)
		return policy.Identity{}, types.InvalidCredentials()
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn("Failed to reset login attempts", zap.Error(err))
		}
	}

	return policy.Identity{
		UserID:     user.ID,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Fail(ctx, username); err != nil {
		s.logger.Warn("Failed to record login attempt", zap.Error(err))
	}
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, types.Store("sign token", err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresIn: int(s.tokens.TTL().Seconds()),
		Identity:  identity,
	}, nil
}

// Resolve turns a token into the current identity. The user row is re-read so
// deactivation and relinking take effect immediately.
func (s *AuthService) Resolve(ctx context.Context, token string) (policy.Identity, error) {
	userID, _, err := s.tokens.Parse(token)
	if err != nil {
		return policy.Identity{}, types.InvalidCredentials()
	}
	var user models.User
	err = s.db.WithContext(ctx).Where("id = ? AND active = ?", userID, true).First(&user).Error
	if err != nil {
		if store.IsNotFound(err) {
			return policy.Identity{}, types.InvalidCredentials()
		}
		return policy.Identity{}, store.TranslateError("load user", err)
	}
	return policy.Identity{UserID: user.ID, Role: user.Role, EmployeeID: user.EmployeeID}, nil
}
