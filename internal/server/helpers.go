package server

import (
	"errors"
	"net/url"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// sessionUserKey holds the logged-in account ID in the session.
const sessionUserKey = "user_id"

// errNotFoundParam marks a route parameter that cannot name an existing row.
var errNotFoundParam = errors.New("invalid id parameter")

// LoadViewer resolves the session's account into a service.Viewer stored in
// the "viewer" local. Every request gets one; anonymous requests get the zero
// Viewer. A session naming a deleted account is destroyed. API requests are
// identified by their bearer token alone, so the session is not consulted.
func (s *Server) LoadViewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("viewer", service.Viewer{})
		if isAPIPath(c.Path()) {
			return c.Next()
		}

		sess, err := s.sessions.Get(c)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session lookup failed", "error", err)
			return c.Next()
		}
		userID, ok := sess.Get(sessionUserKey).(uint)
		if !ok || userID == 0 {
			return c.Next()
		}

		user, err := s.userService.GetByID(c.UserContext(), userID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				_ = sess.Destroy()
			} else {
				middleware.Logger.ErrorContext(c.UserContext(), "viewer lookup failed", "error", err)
			}
			return c.Next()
		}

		viewer := service.ViewerFor(user)
		c.Locals("viewer", viewer)
		c.Locals("userID", viewer.ID)
		c.Locals("username", viewer.Username)
		return c.Next()
	}
}

// viewerFrom returns the Viewer for the request. API routes behind TokenAuth
// carry userID and username locals instead of a session.
func viewerFrom(c *fiber.Ctx) service.Viewer {
	if v, ok := c.Locals("viewer").(service.Viewer); ok && v.IsAuthenticated() && !isAPIPath(c.Path()) {
		return v
	}
	userID, _ := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	return service.Viewer{ID: userID, Username: username}
}

// LoginRequired redirects anonymous viewers to the login page, remembering
// where they were going.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !viewerFrom(c).IsAuthenticated() {
			return redirectToLogin(c)
		}
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect("/auth/login/?next=" + url.QueryEscape(c.OriginalURL()))
}

// safeNext accepts only local absolute paths so that login cannot be used
// as an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// parseID reads a positive numeric route parameter. Anything else cannot
// match a post, so callers answer 404.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, errNotFoundParam
	}
	return uint(id), nil
}

// errorMessage returns the user-facing message of err.
func errorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// renderPage renders a view inside the main layout.
func renderPage(c *fiber.Ctx, status int, view string, bind fiber.Map) error {
	return c.Status(status).Render(view, bind)
}

// renderError maps a service error onto an HTML response.
func (s *Server) renderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotFoundParam), models.HasCode(err, models.CodeNotFound):
		return s.NotFound(c)
	case models.HasCode(err, models.CodeUnauthorized):
		return redirectToLogin(c)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "request failed",
		"path", c.Path(),
		"error", err,
	)
	return renderPage(c, fiber.StatusInternalServerError, "errors/500", fiber.Map{
		"Title": "Ошибка сервера",
	})
}

// NotFound answers unknown routes and unresolvable entities.
func (s *Server) NotFound(c *fiber.Ctx) error {
	if isAPIPath(c.Path()) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Resource", c.Path()))
	}
	return renderPage(c, fiber.StatusNotFound, "errors/404", fiber.Map{
		"Title": "Страница не найдена",
		"Path":  c.Path(),
	})
}

// errorHandler handles errors returned by handlers and middleware, such as
// CSRF failures.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}

	if status == fiber.StatusNotFound {
		return s.NotFound(c)
	}
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	}

	if isAPIPath(c.Path()) {
		if status >= fiber.StatusInternalServerError {
			return models.RespondWithError(c, status, models.NewInternalError(err))
		}
		return c.Status(status).JSON(models.ErrorResponse{Error: err.Error()})
	}

	message := ""
	if status < fiber.StatusInternalServerError {
		message = err.Error()
	}
	if rerr := renderPage(c, status, "errors/500", fiber.Map{
		"Title":   "Ошибка",
		"Message": message,
	}); rerr != nil {
		return c.Status(status).SendString(err.Error())
	}
	return nil
}
