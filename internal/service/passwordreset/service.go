// Package passwordreset lets users change their password, either while logged in or
// through a short-lived code sent by email.
package passwordreset

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"
	"time"

	"opticshop/internal/domain"
	"opticshop/internal/email"
	userrepo "opticshop/internal/repository/user"
	"opticshop/internal/repository/verification"
	"opticshop/internal/service/auth"

	"golang.org/x/crypto/bcrypt"
)

const (
	codeDigits = 6
	codeTTL    = 15 * time.Minute
)

type Service struct {
	users       userrepo.Repository
	codes       verification.Repository
	mail        email.Sender
	logger      *log.Logger
	passwordMin int
	now         func() time.Time
}

func New(users userrepo.Repository, codes verification.Repository, mail email.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:       users,
		codes:       codes,
		mail:        mail,
		logger:      logger,
		passwordMin: 8,
		now:         time.Now,
	}
}

// GenerateVerificationCode returns six random decimal digits.
func GenerateVerificationCode() (string, error) {
	upper := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// InitiatePasswordChange stores a fresh code for the user and emails it.
// A previous pending code is replaced.
func (s *Service) InitiatePasswordChange(ctx context.Context, address string) error {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(address)))
	if err != nil {
		return err
	}
	code, err := GenerateVerificationCode()
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.codes.Save(ctx, domain.VerificationCode{
		UserID:    u.ID,
		Code:      code,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}); err != nil {
		return err
	}
	if err := s.mail.SendVerificationCode(ctx, u.Email, code); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	s.logger.Printf("password reset: code issued user_id=%s", u.ID)
	return nil
}

// ConfirmPasswordChange sets a new password when code matches the pending one.
func (s *Service) ConfirmPasswordChange(ctx context.Context, address, code, newPassword string) error {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(address)))
	if err != nil {
		return err
	}
	pending, err := s.codes.Get(ctx, u.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("invalid or expired verification code")
		}
		return err
	}
	if pending.Code != strings.TrimSpace(code) || pending.Expired(s.now()) {
		return domain.Invalid("invalid or expired verification code")
	}
	if err := s.setPassword(ctx, u.ID, newPassword); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, u.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

type UpdatePasswordInput struct {
	OldPassword    string `json:"oldPassword"`
	NewPassword    string `json:"newPassword"`
	RepeatPassword string `json:"repeatPassword"`
}

// UpdatePassword changes the password of an authenticated user.
func (s *Service) UpdatePassword(ctx context.Context, userID string, in UpdatePasswordInput) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.OldPassword)); err != nil {
		return domain.Invalid("old password is incorrect")
	}
	if in.NewPassword != in.RepeatPassword {
		return domain.Invalid("passwords do not match")
	}
	return s.setPassword(ctx, u.ID, in.NewPassword)
}

func (s *Service) setPassword(ctx context.Context, userID, password string) error {
	if err := auth.ValidatePassword(password, s.passwordMin); err != nil {
		return domain.Invalid("%s", err.Error())
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hashed)
}
