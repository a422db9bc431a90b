package server

import (
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// logIn starts a fresh session for user. The session ID is regenerated so a
// pre-login session cannot be fixated.
func (s *Server) logIn(c *fiber.Ctx, user *models.User) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.ID)
	return sess.Save()
}

func renderLogin(c *fiber.Ctx, status int, username, next, errMsg string) error {
	return renderPage(c, status, "auth/login", fiber.Map{
		"Title":    "Войти",
		"Username": username,
		"Next":     next,
		"Error":    errMsg,
	})
}

// ShowLogin handles GET /auth/login/
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return renderLogin(c, fiber.StatusOK, "", c.Query("next"), "")
}

// Login handles POST /auth/login/
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	next := c.FormValue("next")

	user, err := s.userService.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			observability.LoginAttempts.WithLabelValues("failure").Inc()
			return renderLogin(c, fiber.StatusOK, username, next, errorMessage(err))
		}
		return s.renderError(c, err)
	}

	if err := s.logIn(c, user); err != nil {
		return s.renderError(c, err)
	}
	observability.LoginAttempts.WithLabelValues("success").Inc()
	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)
	return c.Redirect(safeNext(next))
}

// Logout handles GET and POST /auth/logout/
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess, err := s.sessions.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session destroy failed", "error", err)
		}
	}
	c.Locals("viewer", service.Viewer{})
	return renderPage(c, fiber.StatusOK, "auth/logged_out", fiber.Map{
		"Title": "Вы вышли из системы",
	})
}

func renderSignup(c *fiber.Ctx, status int, in service.SignupInput, errs map[string][]string) error {
	if errs == nil {
		errs = map[string][]string{}
	}
	return renderPage(c, status, "auth/signup", fiber.Map{
		"Title":  "Регистрация",
		"Input":  in,
		"Errors": errs,
	})
}

// ShowSignup handles GET /auth/signup/
func (s *Server) ShowSignup(c *fiber.Ctx) error {
	return renderSignup(c, fiber.StatusOK, service.SignupInput{}, nil)
}

// Signup handles POST /auth/signup/. A new account is logged in straight away.
func (s *Server) Signup(c *fiber.Ctx) error {
	var in service.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return renderSignup(c, fiber.StatusOK, in, map[string][]string{
			models.NonFieldKey: {"Invalid form submission"},
		})
	}

	user, err := s.userService.Register(c.UserContext(), in)
	if err != nil {
		if errs := formErrors(err); errs != nil {
			in.Password = ""
			return renderSignup(c, fiber.StatusOK, in, errs)
		}
		return s.renderError(c, err)
	}

	if err := s.logIn(c, user); err != nil {
		return s.renderError(c, err)
	}
	middleware.Logger.InfoContext(c.UserContext(), "user signed up", "user_id", user.ID)
	return c.Redirect("/")
}
