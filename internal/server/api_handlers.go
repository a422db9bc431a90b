package server

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

const surfaceAPI = "api"

// apiPost is the JSON shape of a post. Author is the username.
type apiPost struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Author  string    `json:"author"`
	Group   *uint     `json:"group"`
}

func toAPIPost(p models.Post) apiPost {
	return apiPost{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  p.Author.Username,
		Group:   p.GroupID,
	}
}

// pageEnvelope wraps one page of results with links to its neighbours.
type pageEnvelope struct {
	Count      int64     `json:"count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Next       *string   `json:"next"`
	Previous   *string   `json:"previous"`
	Results    []apiPost `json:"results"`
}

func pageLink(base string, n int) *string {
	link := base + "?page=" + strconv.Itoa(n)
	return &link
}

func newPageEnvelope(base string, pp service.PostPage) pageEnvelope {
	env := pageEnvelope{
		Count:      pp.Page.TotalCount,
		Page:       pp.Page.Number,
		PageSize:   pp.Page.Size,
		TotalPages: pp.Page.TotalPages,
		Results:    make([]apiPost, 0, len(pp.Posts)),
	}
	for _, p := range pp.Posts {
		env.Results = append(env.Results, toAPIPost(p))
	}
	if pp.Page.HasNext() {
		env.Next = pageLink(base, pp.Page.NextNumber())
	}
	if pp.Page.HasPrevious() {
		env.Previous = pageLink(base, pp.Page.PreviousNumber())
	}
	return env
}

func respondAPIError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "api request failed", "path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// ObtainToken handles POST /api/v1/auth/token/
// Body: {"username": "...", "password": "..."}; answers {"token": "..."}.
func (s *Server) ObtainToken(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			observability.LoginAttempts.WithLabelValues("failure").Inc()
		}
		return respondAPIError(c, err)
	}

	token, err := middleware.GenerateToken(s.config.JWTSecret, user.ID, user.Username)
	if err != nil {
		return respondAPIError(c, models.NewInternalError(err))
	}
	observability.LoginAttempts.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{"token": token})
}

// APIListPosts handles GET /api/v1/posts/?page=N
func (s *Server) APIListPosts(c *fiber.Ctx) error {
	feed, err := s.postService.Feed(c.UserContext(), c.Query("page"))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(newPageEnvelope("/api/v1/posts/", feed.PostPage))
}

// APIGetPost handles GET /api/v1/posts/:id/
func (s *Server) APIGetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}
	detail, err := s.postService.Detail(c.UserContext(), viewerFrom(c), id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(toAPIPost(detail.Post))
}

// apiPostInput is a create or update body. Group is kept raw so that an
// absent key can be told apart from an explicit null.
type apiPostInput struct {
	Text  *string         `json:"text"`
	Group json.RawMessage `json:"group"`
}

// groupChoice converts the raw group value into the form representation.
// present is false when the key was absent.
func (in apiPostInput) groupChoice() (choice string, present bool, err error) {
	raw := bytes.TrimSpace(in.Group)
	if len(raw) == 0 {
		return "", false, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return "", true, nil
	}
	var id uint
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 {
		return "", true, models.NewFieldErrors(map[string][]string{
			"group": {"Invalid pk - must be a positive integer."},
		})
	}
	return strconv.FormatUint(uint64(id), 10), true, nil
}

func parseAPIPostInput(c *fiber.Ctx) (apiPostInput, error) {
	var in apiPostInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return in, models.NewValidationError("Invalid request body")
	}
	return in, nil
}

// APICreatePost handles POST /api/v1/posts/ (bearer token required).
// Any author or pub_date in the body is ignored.
func (s *Server) APICreatePost(c *fiber.Ctx) error {
	body, err := parseAPIPostInput(c)
	if err != nil {
		return respondAPIError(c, err)
	}
	group, _, err := body.groupChoice()
	if err != nil {
		return respondAPIError(c, err)
	}
	in := service.PostInput{Group: group}
	if body.Text != nil {
		in.Text = *body.Text
	}

	post, err := s.postService.Create(c.UserContext(), viewerFrom(c), in)
	if err != nil {
		return respondAPIError(c, err)
	}
	observability.PostsCreated.WithLabelValues(surfaceAPI).Inc()

	detail, err := s.postService.Detail(c.UserContext(), viewerFrom(c), post.ID)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAPIPost(detail.Post))
}

// APIUpdatePost handles PUT and PATCH /api/v1/posts/:id/ (bearer token
// required). PATCH keeps fields that are absent from the body; PUT replaces
// both. Someone other than the author gets 403.
func (s *Server) APIUpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}
	viewer := viewerFrom(c)

	body, err := parseAPIPostInput(c)
	if err != nil {
		return respondAPIError(c, err)
	}
	group, groupPresent, err := body.groupChoice()
	if err != nil {
		return respondAPIError(c, err)
	}

	in := service.PostInput{Group: group}
	if body.Text != nil {
		in.Text = *body.Text
	}
	if c.Method() == fiber.MethodPatch {
		current, err := s.postService.Detail(c.UserContext(), viewer, id)
		if err != nil {
			return respondAPIError(c, err)
		}
		if body.Text == nil {
			in.Text = current.Post.Text
		}
		if !groupPresent && current.Post.GroupID != nil {
			in.Group = strconv.FormatUint(uint64(*current.Post.GroupID), 10)
		}
	}

	if _, err := s.postService.Edit(c.UserContext(), viewer, id, in); err != nil {
		if models.HasCode(err, models.CodeForbidden) {
			observability.EditsDenied.WithLabelValues(surfaceAPI).Inc()
		}
		return respondAPIError(c, err)
	}
	observability.PostsEdited.WithLabelValues(surfaceAPI).Inc()

	detail, err := s.postService.Detail(c.UserContext(), viewer, id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(toAPIPost(detail.Post))
}

// APIListGroups handles GET /api/v1/groups/
func (s *Server) APIListGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.List(c.UserContext())
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(groups)
}

// APIGetGroup handles GET /api/v1/groups/:slug/
func (s *Server) APIGetGroup(c *fiber.Ctx) error {
	group, err := s.groupService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(group)
}
