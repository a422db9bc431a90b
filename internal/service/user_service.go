package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type UserService struct {
	userRepo repository.UserRepository
	cost     int
}

// SignupInput is the registration form.
type SignupInput struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *UserService) WithCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register validates in, hashes the password and stores the account.
func (s *UserService) Register(ctx context.Context, in SignupInput) (*models.User, error) {
	fe := fieldErrors{}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		fe.add("username", err.Error())
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			fe.add("email", err.Error())
		}
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fe.add("password", err.Error())
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, asFormError(ctx, err, "The account could not be created.")
	}
	return user, nil
}

// Authenticate checks a username/password pair. Every failure is the same
// UNAUTHORIZED error so callers cannot tell which part was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ViewerFor returns the Viewer for an account.
func ViewerFor(u *models.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{ID: u.ID, Username: u.Username}
}
