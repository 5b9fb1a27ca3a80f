package auth

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// issuer names the account in authenticator apps.
const issuer = "TulasiSilks"

// TOTPEnabled reports whether a TOTP secret is configured.
func (s *Service) TOTPEnabled() bool {
	return s.cfg.TOTPSecret != ""
}

func (s *Service) validTOTP(code string) bool {
	if !s.TOTPEnabled() {
		return false
	}
	ok, err := totp.ValidateCustom(code, s.cfg.TOTPSecret, s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// TOTPKey returns the provisioning key for the configured secret.
func (s *Service) TOTPKey() (*otp.Key, error) {
	if !s.TOTPEnabled() {
		return nil, fmt.Errorf("totp key: no secret configured")
	}
	u := url.URL{
		Scheme: "otpauth",
		Host:   "totp",
		Path:   "/" + issuer + ":" + s.cfg.AdminPhone,
	}
	q := url.Values{}
	q.Set("secret", s.cfg.TOTPSecret)
	q.Set("issuer", issuer)
	u.RawQuery = q.Encode()
	return otp.NewKeyFromURL(u.String())
}

// TOTPQRCode renders the provisioning key as a PNG QR code.
func (s *Service) TOTPQRCode() ([]byte, error) {
	key, err := s.TOTPKey()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("totp qr: %w", err)
	}
	return png, nil
}

// GenerateTOTPSecret creates a fresh secret for ADMIN_TOTP_SECRET.
func GenerateTOTPSecret(account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return "", fmt.Errorf("totp generate: %w", err)
	}
	return key.Secret(), nil
}

func newID() string {
	return uuid.NewString()
}
