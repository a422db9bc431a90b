package service

import (
	"context"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostService implements the feed, detail, create and edit use cases.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	pageSize  int
	now       func() time.Time
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	pageSize int,
) *PostService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

// PageSize is the number of posts per listing page.
func (s *PostService) PageSize() int {
	return s.pageSize
}

func (s *PostService) listPage(ctx context.Context, filter repository.PostFilter, rawPage string) (PostPage, error) {
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return PostPage{}, err
	}
	page := pagination.FromQuery(rawPage, s.pageSize, total)

	if total == 0 {
		return PostPage{Posts: []models.Post{}, Page: page}, nil
	}
	posts, err := s.postRepo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Posts: posts, Page: page}, nil
}

// Feed returns one page of every post, newest first.
func (s *PostService) Feed(ctx context.Context, rawPage string) (*FeedPage, error) {
	pp, err := s.listPage(ctx, repository.PostFilter{}, rawPage)
	if err != nil {
		return nil, err
	}
	return &FeedPage{PostPage: pp}, nil
}

// GroupFeed returns one page of a group's posts. Unknown slugs are NOT_FOUND.
func (s *PostService) GroupFeed(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	pp, err := s.listPage(ctx, repository.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{PostPage: pp, Group: *group}, nil
}

// Profile returns one page of an author's posts. Unknown usernames are NOT_FOUND.
func (s *PostService) Profile(ctx context.Context, username, rawPage string) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	pp, err := s.listPage(ctx, repository.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{PostPage: pp, Author: *author, PostCount: pp.Page.TotalCount}, nil
}

// Detail returns a single post with its author's post count.
func (s *PostService) Detail(ctx context.Context, viewer Viewer, id uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:            *post,
		AuthorPostCount: count,
		CanEdit:         viewer.Owns(post.AuthorID),
	}, nil
}

// Form builds a form view with the group choices, echoing in and errs.
func (s *PostService) Form(ctx context.Context, postID uint, in PostInput, errs map[string][]string) (*PostForm, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PostForm{PostID: postID, Input: in, Groups: groups, Errors: errs}, nil
}

// NewPostForm is the empty create form. Anonymous viewers are UNAUTHORIZED.
func (s *PostService) NewPostForm(ctx context.Context, viewer Viewer) (*PostForm, error) {
	if !viewer.IsAuthenticated() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.Form(ctx, 0, PostInput{}, nil)
}

func (s *PostService) validate(ctx context.Context, in PostInput) (string, *uint, error) {
	fe := fieldErrors{}
	validatePostText(fe, in.Text)

	groupID, ok := parseGroupChoice(in.Group)
	if !ok {
		fe.add("group", invalidGroupChoice)
	} else if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			if !models.HasCode(err, models.CodeNotFound) {
				return "", nil, err
			}
			fe.add("group", invalidGroupChoice)
		}
	}

	if err := fe.err(); err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(in.Text), groupID, nil
}

// Create validates in and stores a new post authored by the viewer and
// stamped with the current time. Neither comes from the input.
func (s *PostService) Create(ctx context.Context, viewer Viewer, in PostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Create")
	defer span.End()

	if !viewer.IsAuthenticated() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	text, groupID, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		GroupID:  groupID,
		AuthorID: viewer.ID,
		PubDate:  s.now().UTC(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, asFormError(ctx, err, "The post could not be saved. Please try again.")
	}

	span.SetAttributes(attribute.Int64("post.id", int64(post.ID)))
	return post, nil
}

// authorize loads the post and checks that the viewer wrote it.
// The order of checks is UNAUTHORIZED, NOT_FOUND, FORBIDDEN.
func (s *PostService) authorize(ctx context.Context, viewer Viewer, id uint) (*models.Post, error) {
	if !viewer.IsAuthenticated() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(post.AuthorID) {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}
	return post, nil
}

// EditForm is the edit form pre-filled with the post's current text and group.
func (s *PostService) EditForm(ctx context.Context, viewer Viewer, id uint) (*PostForm, error) {
	post, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	in := PostInput{Text: post.Text}
	if post.GroupID != nil {
		in.Group = uintString(*post.GroupID)
	}
	return s.Form(ctx, post.ID, in, nil)
}

// Edit replaces the post's text and group. Author and pub_date never change.
func (s *PostService) Edit(ctx context.Context, viewer Viewer, id uint, in PostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Edit", attribute.Int64("post.id", int64(id)))
	defer span.End()

	post, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	text, groupID, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.Group = nil
	if err := s.postRepo.UpdateContent(ctx, post); err != nil {
		return nil, asFormError(ctx, err, "The post could not be saved. Please try again.")
	}
	return post, nil
}
