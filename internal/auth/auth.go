// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth checks storefront credentials. There is one fixed admin
// account, a fixed table of one-time codes, and every other email/password
// pair is accepted as a customer. It is not meant to be secure.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tulasisilks/internal/models"
)

var (
	// ErrInvalidCredentials is returned for an empty email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOTP is returned when a one-time code is not accepted.
	ErrInvalidOTP = errors.New("invalid OTP")

	// ErrBlocked is returned when a blocked customer tries to log in.
	ErrBlocked = errors.New("account blocked")
)

// AdminID is the fixed id of the admin user.
const AdminID = "1"

// Config holds the fixed credentials.
type Config struct {
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	AdminPhone        string
	UniversalCode     string
	Codes             map[string]string // phone -> code
	TOTPSecret        string
}

// DefaultConfig returns the demo credentials the storefront ships with.
func DefaultConfig() Config {
	return Config{
		AdminEmail:    "tulasimp@gmail.com",
		AdminPassword: "Tul@si.mp",
		AdminPhone:    "+919848313261",
		UniversalCode: "123456",
		Codes:         map[string]string{"+919848313261": "123456"},
	}
}

// Customers records customer logins. Implemented by store.CustomerStore.
type Customers interface {
	FindByContact(ctx context.Context, email, phone string) (*models.Customer, error)
	RecordLogin(ctx context.Context, name, email, phone string, at time.Time) (*models.Customer, error)
}

// Service turns credentials into session users.
type Service struct {
	cfg       Config
	customers Customers
	now       func() time.Time
}

// New creates a Service. customers may be nil, in which case customer
// logins are not recorded and nobody can be blocked.
func New(cfg Config, customers Customers) *Service {
	return &Service{cfg: cfg, customers: customers, now: time.Now}
}

// Login checks an email/password pair. The admin pair yields the admin
// user; any other non-empty pair yields a customer named after the local
// part of the email.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if strings.EqualFold(email, s.cfg.AdminEmail) && s.adminPasswordMatches(password) {
		slog.Info("admin login", "method", "password")
		return s.admin(""), nil
	}

	name, _, _ := strings.Cut(email, "@")
	return s.customer(ctx, name, email, "")
}

// RequestOTP simulates sending a code to phone.
func (s *Service) RequestOTP(_ context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("request otp: %w", ErrInvalidCredentials)
	}
	slog.Info("otp sent", "phone", maskPhone(phone))
	return nil
}

// LoginWithOTP accepts the code registered for phone, the universal code,
// or for the admin phone a current TOTP when a secret is configured.
func (s *Service) LoginWithOTP(ctx context.Context, phone, code string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, ErrInvalidOTP
	}
	if !s.codeValid(phone, code) {
		return nil, ErrInvalidOTP
	}

	if phone == s.cfg.AdminPhone {
		slog.Info("admin login", "method", "otp")
		return s.admin(phone), nil
	}
	return s.customer(ctx, "User-"+lastN(phone, 4), "", phone)
}

// IsAdmin reports whether u may use the admin section.
func (s *Service) IsAdmin(u *models.User) bool {
	return u.IsAdmin()
}

func (s *Service) codeValid(phone, code string) bool {
	if want, ok := s.cfg.Codes[phone]; ok && want == code {
		return true
	}
	if s.cfg.UniversalCode != "" && code == s.cfg.UniversalCode {
		return true
	}
	return phone == s.cfg.AdminPhone && s.validTOTP(code)
}

func (s *Service) adminPasswordMatches(password string) bool {
	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	return password == s.cfg.AdminPassword
}

func (s *Service) admin(phone string) *models.User {
	return &models.User{
		ID:        AdminID,
		Name:      "Admin",
		Email:     s.cfg.AdminEmail,
		Phone:     phone,
		Role:      models.RoleAdmin,
		LastLogin: s.now(),
	}
}

func (s *Service) customer(ctx context.Context, name, email, phone string) (*models.User, error) {
	now := s.now()
	u := &models.User{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Role:      models.RoleCustomer,
		LastLogin: now,
	}
	if s.customers == nil {
		u.ID = newID()
		return u, nil
	}

	existing, err := s.customers.FindByContact(ctx, email, phone)
	if err != nil {
		return nil, fmt.Errorf("customer lookup: %w", err)
	}
	if existing != nil && existing.Status == models.CustomerBlocked {
		slog.Warn("blocked customer login refused", "customer_id", existing.ID)
		return nil, ErrBlocked
	}

	c, err := s.customers.RecordLogin(ctx, name, email, phone, now)
	if err != nil {
		return nil, fmt.Errorf("customer login: %w", err)
	}
	u.ID = c.ID
	u.Name = c.Name
	return u, nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + lastN(phone, 4)
}
