package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type GroupService struct {
	groupRepo repository.GroupRepository
}

// GroupInput is what an administrator supplies to create a group.
type GroupInput struct {
	Title       string
	Slug        string
	Description string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// Create validates in and stores the group. A taken slug is reported as a
// field error on "slug".
func (s *GroupService) Create(ctx context.Context, in GroupInput) (*models.Group, error) {
	fe := fieldErrors{}
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateGroupTitle(title); err != nil {
		fe.add("title", err.Error())
	}

	group := &models.Group{Title: title, Description: strings.TrimSpace(in.Description)}
	if slug := strings.TrimSpace(in.Slug); slug != "" {
		if err := validation.ValidateGroupSlug(slug); err != nil {
			fe.add("slug", err.Error())
		}
		group.Slug = &slug
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, asFormError(ctx, err, "The group could not be saved.")
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}
