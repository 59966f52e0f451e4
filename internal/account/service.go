package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"givehub/internal/auth"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service owns registration and login.
type Service struct {
	users    Store
	signer   *auth.Signer
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(users Store, signer *auth.Signer, logger zerolog.Logger) *Service {
	v := validator.New()
	// The email tag alone accepts local@domain; registration requires the
	// full local@domain.tld shape.
	_ = v.RegisterValidation("tld", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		at := strings.LastIndex(s, "@")
		return at >= 0 && strings.Contains(s[at+1:], ".")
	})
	return &Service{
		users:    users,
		signer:   signer,
		validate: v,
		logger:   logger,
	}
}

type RegisterInput struct {
	FirstName string `validate:"required"`
	Email     string `validate:"required,email,tld"`
	Password  string `validate:"required,min=6"`
	Role      string `validate:"omitempty,oneof=user admin"`
}

// Register creates a user and returns a fresh token plus the stored record.
// The requested role is passed through as-is: nothing gates who may ask for
// admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validate.Struct(in); err != nil {
		return "", nil, validationError(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	role := in.Role
	if role == "" {
		role = auth.RoleUser
	}

	u := &User{
		FirstName: in.FirstName,
		Email:     in.Email,
		Password:  hash,
		Role:      role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, ErrDuplicateEmail) {
			s.logger.Error().Err(err).Str("email", u.Email).Msg("create user failed")
		}
		return "", nil, err
	}

	token, err := s.signer.Sign(u.ID.Hex(), u.FirstName, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Login verifies credentials and returns a fresh token. An unknown email and
// a wrong password fail with the same error so callers cannot enumerate
// accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("find user by email failed")
		return "", nil, err
	}
	if !auth.ComparePassword(u.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(u.ID.Hex(), u.FirstName, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Get returns the account behind an authenticated identity.
func (s *Service) Get(ctx context.Context, id *auth.Identity) (*User, error) {
	if id == nil {
		return nil, ErrNotFound
	}
	return s.users.FindByID(ctx, id.UserID)
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Email":
		return fmt.Errorf("%w: email must look like local@domain.tld", ErrValidation)
	case fe.Field() == "Password" && fe.Tag() == "min":
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	case fe.Tag() == "required":
		return fmt.Errorf("%w: %s is required", ErrValidation, strings.ToLower(fe.Field()))
	default:
		return fmt.Errorf("%w: %s is invalid", ErrValidation, strings.ToLower(fe.Field()))
	}
}
