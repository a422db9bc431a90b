package server

import (
	"errors"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

const surfaceHTML = "html"

func listBind(title, basePath string, pp service.PostPage) fiber.Map {
	return fiber.Map{
		"Title":    title,
		"Posts":    pp.Posts,
		"Page":     pp.Page,
		"BasePath": basePath,
	}
}

// Index renders the global feed.
func (s *Server) Index(c *fiber.Ctx) error {
	feed, err := s.postService.Feed(c.UserContext(), c.Query("page"))
	if err != nil {
		return s.renderError(c, err)
	}
	return renderPage(c, fiber.StatusOK, "posts/index",
		listBind("Последние обновления на сайте", "/", feed.PostPage))
}

// GroupPosts renders one group's feed.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")
	feed, err := s.postService.GroupFeed(c.UserContext(), slug, c.Query("page"))
	if err != nil {
		return s.renderError(c, err)
	}
	bind := listBind("Записи сообщества "+feed.Group.Title, "/group/"+slug+"/", feed.PostPage)
	bind["Group"] = feed.Group
	return renderPage(c, fiber.StatusOK, "posts/group_list", bind)
}

// Profile renders an author's feed.
func (s *Server) Profile(c *fiber.Ctx) error {
	username := c.Params("username")
	feed, err := s.postService.Profile(c.UserContext(), username, c.Query("page"))
	if err != nil {
		return s.renderError(c, err)
	}
	bind := listBind("Профайл пользователя "+feed.Author.FullName(), "/profile/"+username+"/", feed.PostPage)
	bind["Author"] = feed.Author
	bind["PostCount"] = feed.PostCount
	return renderPage(c, fiber.StatusOK, "posts/profile", bind)
}

// PostDetail renders a single post.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}
	detail, err := s.postService.Detail(c.UserContext(), viewerFrom(c), id)
	if err != nil {
		return s.renderError(c, err)
	}
	return renderPage(c, fiber.StatusOK, "posts/post_detail", fiber.Map{
		"Title":           "Пост " + models.Truncate(detail.Post.Text, 30),
		"Post":            detail.Post,
		"AuthorPostCount": detail.AuthorPostCount,
		"CanEdit":         detail.CanEdit,
	})
}

func renderPostForm(c *fiber.Ctx, status int, form *service.PostForm) error {
	title := "Новый пост"
	if form.IsEdit() {
		title = "Редактировать пост"
	}
	return renderPage(c, status, "posts/create_post", fiber.Map{
		"Title": title,
		"Form":  form,
	})
}

// formErrors returns the field messages of a validation error, or nil.
func formErrors(err error) map[string][]string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		return nil
	}
	if len(appErr.Fields) > 0 {
		return appErr.Fields
	}
	return map[string][]string{models.NonFieldKey: {appErr.Message}}
}

// ShowCreatePost renders an empty new-post form.
func (s *Server) ShowCreatePost(c *fiber.Ctx) error {
	form, err := s.postService.NewPostForm(c.UserContext(), viewerFrom(c))
	if err != nil {
		return s.renderError(c, err)
	}
	return renderPostForm(c, fiber.StatusOK, form)
}

// CreatePost stores a new post and sends the author to their profile.
// Invalid input redisplays the form with its errors.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	viewer := viewerFrom(c)
	in := service.PostInput{Text: c.FormValue("text"), Group: c.FormValue("group")}

	post, err := s.postService.Create(c.UserContext(), viewer, in)
	if err != nil {
		if errs := formErrors(err); errs != nil {
			form, ferr := s.postService.Form(c.UserContext(), 0, in, errs)
			if ferr != nil {
				return s.renderError(c, ferr)
			}
			return renderPostForm(c, fiber.StatusOK, form)
		}
		return s.renderError(c, err)
	}

	observability.PostsCreated.WithLabelValues(surfaceHTML).Inc()
	middleware.Logger.InfoContext(c.UserContext(), "post created", "post_id", post.ID)
	return c.Redirect("/profile/" + viewer.Username + "/")
}

func postDetailURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// ShowEditPost renders the edit form for the post's author. Anyone else is
// sent back to the post without comment.
func (s *Server) ShowEditPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}
	form, err := s.postService.EditForm(c.UserContext(), viewerFrom(c), id)
	if err != nil {
		if models.HasCode(err, models.CodeForbidden) {
			observability.EditsDenied.WithLabelValues(surfaceHTML).Inc()
			return c.Redirect(postDetailURL(id))
		}
		return s.renderError(c, err)
	}
	return renderPostForm(c, fiber.StatusOK, form)
}

// EditPost applies a text/group change made by the post's author.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}
	in := service.PostInput{Text: c.FormValue("text"), Group: c.FormValue("group")}

	if _, err := s.postService.Edit(c.UserContext(), viewerFrom(c), id, in); err != nil {
		if models.HasCode(err, models.CodeForbidden) {
			observability.EditsDenied.WithLabelValues(surfaceHTML).Inc()
			return c.Redirect(postDetailURL(id))
		}
		if errs := formErrors(err); errs != nil {
			form, ferr := s.postService.Form(c.UserContext(), id, in, errs)
			if ferr != nil {
				return s.renderError(c, ferr)
			}
			return renderPostForm(c, fiber.StatusOK, form)
		}
		return s.renderError(c, err)
	}

	observability.PostsEdited.WithLabelValues(surfaceHTML).Inc()
	return c.Redirect(postDetailURL(id))
}
