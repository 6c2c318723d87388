package handlers

import (
	"strconv"

	"hr_records/middleware"
	"hr_records/policy"
	"hr_records/types"
	"hr_records/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var statusByKind = map[types.Kind]int{
	types.KindInvalidCredentials: fiber.StatusUnauthorized,
	types.KindForbidden:          fiber.StatusForbidden,
	types.KindNotFound:           fiber.StatusNotFound,
	types.KindValidation:         fiber.StatusBadRequest,
	types.KindInvalidState:       fiber.StatusConflict,
	types.KindRateLimited:        fiber.StatusTooManyRequests,
	types.KindStore:              fiber.StatusInternalServerError,
}

// fail writes err as an APIResponse. Store failures are logged and hidden.
func fail(c *fiber.Ctx, err error) error {
	kind := types.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		utils.Logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		message = types.ErrInternalError
	}

	return c.Status(status).JSON(types.APIResponse{
		Success: false,
		Error:   message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.APIResponse{
		Success: false,
		Error:   message,
	})
}

func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(types.APIResponse{
		Success: true,
		Data:    data,
	})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorHandler is the fiber fallback for errors no handler turned into a response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ferr, ok := err.(*fiber.Error); ok {
		return c.Status(ferr.Code).JSON(types.APIResponse{
			Success: false,
			Error:   ferr.Message,
		})
	}
	return fail(c, err)
}

func identity(c *fiber.Ctx) policy.Identity {
	id, _ := middleware.Identity(c)
	return id
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, types.Validation("invalid id")
	}
	return uint(id), nil
}

func queryUint(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.Validation("%s must be a positive integer", key)
	}
	return uint(v), nil
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(types.APIResponse{
		Success: true,
		Message: msg,
	})
}
