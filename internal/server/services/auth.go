// Package services contains server-side business logic. This file implements
// AuthService, which orchestrates the two enrollment steps (signup with TOTP
// provisioning, setup verification) and the two login steps (password check,
// TOTP check with token issuance).
//
// Both protocols are stateless between HTTP calls: the only persisted state
// is the account row, the "step" is implicit in which endpoint the client
// calls next. There is no attempt counter or lockout on repeated failures.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/cryptox"
	"github.com/dberezin/securenotes/internal/server/auth"
	"github.com/dberezin/securenotes/internal/server/config"
	"github.com/dberezin/securenotes/internal/server/models"
	"github.com/dberezin/securenotes/internal/server/repositories/users"
	"github.com/dberezin/securenotes/internal/server/totp"
)

// AuthService provides the authentication operations behind the /signup,
// /verify-mfa-setup, /login and /verify-mfa-login endpoints.
type AuthService struct {
	users                       users.Repository
	totp                        *totp.Engine
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	// now is a seam for tests that need deterministic TOTP steps.
	now func() time.Time
}

// NewAuthService constructs an AuthService using the repositories and server config.
func NewAuthService(r users.Repository, e *totp.Engine, cfg *config.Config) *AuthService {
	return &AuthService{
		users:                       r,
		totp:                        e,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// SignUp creates an account with a freshly provisioned TOTP secret and
// returns the enrollment material for display. The secret is persisted
// before verification; the account is usable for login from this point on.
//
// Duplicate usernames yield common.ErrAlreadyExists, empty fields
// common.ErrValidation. Uniqueness is enforced by the store, so concurrent
// signups for the same name resolve to exactly one success.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*totp.Enrollment, error) {
	if username == "" || password == "" {
		return nil, common.ErrValidation
	}

	digest, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, common.ErrInternal
	}

	enrollment, err := s.totp.Enroll(username)
	if err != nil {
		if errors.Is(err, common.ErrProvisioningFailed) {
			return nil, err
		}
		return nil, common.ErrInternal
	}

	user := &models.User{
		UserName:       username,
		PasswordDigest: digest,
		TOTPSecret:     enrollment.Secret,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return enrollment, nil
}

// VerifySetup checks a submitted code against the account's stored secret to
// confirm the authenticator was imported correctly. On the first success the
// account's confirmation flag is persisted; the result itself is just the
// boolean, a wrong code is not an error.
func (s *AuthService) VerifySetup(ctx context.Context, username, code string) (bool, error) {
	user, err := s.users.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.ErrNotFound
		}
		return false, common.ErrInternal
	}

	verified := s.totp.Verify(user.TOTPSecret, code, s.now())

	if verified && !user.TOTPConfirmed {
		if err := s.users.ConfirmTOTP(ctx, user.ID); err != nil {
			return false, common.ErrInternal
		}
	}

	return verified, nil
}

// Login performs the first authentication step: the password check. Unknown
// usernames and wrong passwords are deliberately indistinguishable, both
// return common.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	user, err := s.users.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return common.ErrInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordDigest, []byte(password))
	if err != nil {
		return common.ErrInternal
	}
	if !ok {
		return common.ErrUnauthorized
	}
	return nil
}

// VerifyLogin performs the second authentication step: it checks the
// submitted TOTP code and, on success, mints a signed bearer token carrying
// the account identity. A wrong code returns common.ErrUnauthorized and no
// token; an unknown username returns common.ErrNotFound.
func (s *AuthService) VerifyLogin(ctx context.Context, username, code string) (string, error) {
	user, err := s.users.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", common.ErrInternal
	}

	if !s.totp.Verify(user.TOTPSecret, code, s.now()) {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.UserName, user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}
