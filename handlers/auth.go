package handlers

import (
	"time"

	"hr_records/middleware"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	result, err := h.svc.Auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	c.Cookie(sessionCookie(c, result.Token, time.Now().Add(time.Duration(result.ExpiresIn)*time.Second)))
	return success(c, result)
}

// Logout drops the session cookie. Bearer tokens simply expire.
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(sessionCookie(c, "", time.Unix(0, 0)))
	return success(c, fiber.Map{"logged_out": true})
}

func sessionCookie(c *fiber.Ctx, token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/ui",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// Me returns the caller's identity and account.
func (h *Handler) Me(c *fiber.Ctx) error {
	id := identity(c)
	user, err := h.svc.Users.Get(c.UserContext(), id, id.UserID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.Map{
		"identity": id,
		"user":     user,
	})
}
