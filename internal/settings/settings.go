// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings resolves the storefront theme and store contact details:
// built-in defaults with whatever the admin saved laid on top.
package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tulasisilks/internal/models"
)

// DefaultTheme is the maroon-and-gold look the shop ships with.
func DefaultTheme() models.Theme {
	return models.Theme{
		PrimaryColor:   "#800000",
		SecondaryColor: "#d4af37",
		FontFamily:     "Playfair Display",
		FontSize:       16,
		SectionSpacing: 60,
		HeroHeight:     80,
	}
}

// DefaultStoreInfo is the shop's contact card.
func DefaultStoreInfo() models.StoreInfo {
	return models.StoreInfo{
		StoreName:        "Tulasi Silks",
		StoreAddress:     "Gandhi Street, Srikalahasti",
		StoreCity:        "Tirupati",
		StoreState:       "ANDHRA PRADESH",
		StoreZip:         "517644",
		StorePhone:       "+91 9848313261",
		StoreEmail:       "tulasimp@gmail.com",
		StoreDescription: "Premium collection of handcrafted sarees from across India",
		GoogleMapsURL:    "https://maps.app.goo.gl/wHa1KoqNK6ihE4JF8",
	}
}

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid settings")

// Store is the persistence the service needs. Implemented by
// store.SiteSettingStore.
type Store interface {
	Theme(ctx context.Context) (*models.ThemePatch, error)
	SetTheme(ctx context.Context, t models.Theme) error
	ResetTheme(ctx context.Context) error
	StoreInfo(ctx context.Context) (*models.StoreInfo, error)
	SetStoreInfo(ctx context.Context, info models.StoreInfo) error
}

// Service reads and writes settings.
type Service struct {
	store Store
}

// New creates a Service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Theme returns the defaults merged with saved overrides.
func (s *Service) Theme(ctx context.Context) (models.Theme, error) {
	saved, err := s.store.Theme(ctx)
	if err != nil {
		return models.Theme{}, fmt.Errorf("theme: %w", err)
	}
	t := DefaultTheme()
	if saved != nil {
		t = saved.Apply(t)
	}
	return t, nil
}

// UpdateTheme applies patch to the current theme and saves the result.
func (s *Service) UpdateTheme(ctx context.Context, patch models.ThemePatch) (models.Theme, error) {
	cur, err := s.Theme(ctx)
	if err != nil {
		return models.Theme{}, err
	}
	next := patch.Apply(cur)
	if err := ValidateTheme(next); err != nil {
		return models.Theme{}, err
	}
	if err := s.store.SetTheme(ctx, next); err != nil {
		return models.Theme{}, fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}

// ResetTheme forgets saved overrides and returns the defaults.
func (s *Service) ResetTheme(ctx context.Context) (models.Theme, error) {
	if err := s.store.ResetTheme(ctx); err != nil {
		return models.Theme{}, err
	}
	return DefaultTheme(), nil
}

// StoreInfo returns the defaults merged with saved overrides.
func (s *Service) StoreInfo(ctx context.Context) (models.StoreInfo, error) {
	saved, err := s.store.StoreInfo(ctx)
	if err != nil {
		return models.StoreInfo{}, fmt.Errorf("store info: %w", err)
	}
	if saved == nil {
		return DefaultStoreInfo(), nil
	}
	return saved.MergeOver(DefaultStoreInfo()), nil
}

// UpdateStoreInfo saves info over the defaults. Empty fields fall back to
// the default value.
func (s *Service) UpdateStoreInfo(ctx context.Context, info models.StoreInfo) (models.StoreInfo, error) {
	if info.StoreEmail != "" && !strings.Contains(info.StoreEmail, "@") {
		return models.StoreInfo{}, fmt.Errorf("%w: store email %q", ErrInvalid, info.StoreEmail)
	}
	merged := info.MergeOver(DefaultStoreInfo())
	if err := s.store.SetStoreInfo(ctx, merged); err != nil {
		return models.StoreInfo{}, fmt.Errorf("save store info: %w", err)
	}
	return merged, nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks colours and the numeric ranges of the admin form.
func ValidateTheme(t models.Theme) error {
	switch {
	case !hexColor.MatchString(t.PrimaryColor):
		return fmt.Errorf("%w: primary color %q", ErrInvalid, t.PrimaryColor)
	case !hexColor.MatchString(t.SecondaryColor):
		return fmt.Errorf("%w: secondary color %q", ErrInvalid, t.SecondaryColor)
	case strings.TrimSpace(t.FontFamily) == "":
		return fmt.Errorf("%w: font family is required", ErrInvalid)
	case t.FontSize < 12 || t.FontSize > 24:
		return fmt.Errorf("%w: font size %d outside 12-24", ErrInvalid, t.FontSize)
	case t.SectionSpacing < 20 || t.SectionSpacing > 120:
		return fmt.Errorf("%w: section spacing %d outside 20-120", ErrInvalid, t.SectionSpacing)
	case t.HeroHeight < 40 || t.HeroHeight > 100:
		return fmt.Errorf("%w: hero height %d outside 40-100", ErrInvalid, t.HeroHeight)
	}
	return nil
}
