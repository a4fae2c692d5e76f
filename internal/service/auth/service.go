package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"opticshop/internal/domain"
	userrepo "opticshop/internal/repository/user"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller carried by a bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

// Service handles registration, login and bearer token validation.
type Service struct {
	repo        userrepo.Repository
	secret      []byte
	ttl         time.Duration
	passwordMin int
	now         func() time.Time
}

func New(repo userrepo.Repository, secret string, ttl time.Duration) *Service {
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		ttl:         ttl,
		passwordMin: 8,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber"`
}

// Register creates a USER account. Every rejection is a *domain.RegistrationError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, &domain.RegistrationError{Msg: err.Error()}
	}
	if in.Password != in.RepeatPassword {
		return nil, &domain.RegistrationError{Msg: "passwords do not match"}
	}
	if err := ValidatePassword(in.Password, s.passwordMin); err != nil {
		return nil, &domain.RegistrationError{Msg: err.Error()}
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         domain.RoleUser,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, &domain.RegistrationError{Msg: fmt.Sprintf("user with email %s already exists", email)}
	}
	return u, err
}

// Login validates credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issue(u)
}

type claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) issue(u *domain.User) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return tok.SignedString(s.secret)
}

// Authenticate validates a bearer token without touching storage.
func (s *Service) Authenticate(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}, nil
}

// HashPassword returns the bcrypt hash of p.
func HashPassword(p string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ValidatePassword enforces length and character class rules.
func ValidatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
