// Package totp wraps time-based one-time-password enrollment and
// verification for the second authentication factor.
//
// Enrollment produces a fresh base32 secret plus the otpauth:// provisioning
// URI and a scannable QR image; verification checks a submitted 6-digit code
// against the stored secret for the current 30-second step with one step of
// clock-skew tolerance. Codes are not tracked as single-use, so a replay
// within the same time step is accepted (known limitation of this design).
package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// secretSize is the raw secret length in bytes (160 bits).
	secretSize = 20

	period = 30
	skew   = 1
)

// Engine generates and verifies TOTP credentials for one issuer label.
type Engine struct {
	issuer string
}

func NewEngine(issuer string) *Engine {
	return &Engine{issuer: issuer}
}

// Enrollment is the material handed to the client exactly once at signup.
type Enrollment struct {
	// Secret is the base32-encoded shared secret. Persisted server-side,
	// shown to the client only through the QR code.
	Secret string

	// URL is the otpauth:// provisioning URI embedding issuer, account
	// label and secret.
	URL string

	// QRCode is the provisioning URI rendered as a PNG data URL, suitable
	// for direct use in an <img> tag.
	QRCode string
}

// Enroll generates a new random secret for the given account label and
// renders the provisioning QR image. A render failure is reported as
// common.ErrProvisioningFailed; it must surface to the caller as a server
// error, never as a success with an empty image.
func (e *Engine) Enroll(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: account,
		SecretSize:  secretSize,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProvisioningFailed, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProvisioningFailed, err)
	}

	return &Enrollment{
		Secret: key.Secret(),
		URL:    key.String(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Verify reports whether code is the expected one-time code for secret at the
// given time, or for one adjacent 30-second step. The underlying comparison
// is constant-time. An invalid secret simply verifies as false.
func (e *Engine) Verify(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// GenerateCode computes the code for secret at the given time. Used by the
// test suite and by the CLI's enrollment self-check.
func GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}
