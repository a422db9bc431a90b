package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db)).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.Register(ctx, SignupInput{
		Username:  "leo",
		Email:     "leo@example.com",
		Password:  "warandpeace1869",
		FirstName: "Лев",
		LastName:  "Толстой",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "warandpeace1869", u.Password)
	assert.Equal(t, "Лев Толстой", u.FullName())

	got, err := svc.Authenticate(ctx, "leo", "warandpeace1869")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, Viewer{ID: u.ID, Username: "leo"}, ViewerFor(got))

	_, err = svc.Authenticate(ctx, "leo", "wrong-password1")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	_, err = svc.Authenticate(ctx, "nobody", "warandpeace1869")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestUserService_RegisterValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db)).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"short username", SignupInput{Username: "ab", Password: "secret123"}, "username"},
		{"bad email", SignupInput{Username: "anna", Email: "nope", Password: "secret123"}, "email"},
		{"weak password", SignupInput{Username: "anna", Password: "short"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assertFieldError(t, err, tt.field)
		})
	}

	_, err := svc.Register(ctx, SignupInput{Username: "anna", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, SignupInput{Username: "anna", Password: "secret123"})
	assertFieldError(t, err, "username")
}

func TestViewer(t *testing.T) {
	assert.False(t, Viewer{}.IsAuthenticated())
	assert.False(t, Viewer{}.Owns(0))
	v := Viewer{ID: 3, Username: "leo"}
	assert.True(t, v.IsAuthenticated())
	assert.True(t, v.Owns(3))
	assert.False(t, v.Owns(4))
}
