package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/validation"
)

// PostInput is the user-editable part of a post as submitted. Group holds
// the raw choice: "" means no group, otherwise a group ID.
type PostInput struct {
	Text  string `json:"text" form:"text"`
	Group string `json:"group" form:"group"`
}

const invalidGroupChoice = "Select a valid group. That choice is not one of the available choices."

// parseGroupChoice returns (nil, true) for "no group".
func parseGroupChoice(raw string) (*uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil, false
	}
	id := uint(n)
	return &id, true
}

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return models.NewFieldErrors(fe)
}

// asFormError turns a failed write into a validation error so that the form
// can be shown again. Field errors pass through untouched.
func asFormError(ctx context.Context, err error, msg string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return err
	}
	middleware.Logger.ErrorContext(ctx, "write failed", "error", err)
	return &models.AppError{
		Code:    models.CodeValidation,
		Message: msg,
		Fields:  map[string][]string{models.NonFieldKey: {msg}},
		Err:     err,
	}
}

func uintString(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func validatePostText(fe fieldErrors, text string) {
	if err := validation.ValidatePostText(text); err != nil {
		fe.add("text", "This field is required.")
	}
}
