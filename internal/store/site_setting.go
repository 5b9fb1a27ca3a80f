// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

// SiteSettingStore persists the theme and store contact overrides.
type SiteSettingStore struct {
	kv kvstore.Store
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given kv store.
func NewSiteSettingStore(kv kvstore.Store) *SiteSettingStore {
	return &SiteSettingStore{kv: kv}
}

// Theme returns the persisted theme overrides. Fields that were never saved
// are nil, so callers can lay them over defaults. Returns nil if nothing
// was saved.
func (s *SiteSettingStore) Theme(ctx context.Context) (*models.ThemePatch, error) {
	var p models.ThemePatch
	found, err := loadJSON(ctx, s.kv, KeyTheme, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SetTheme replaces the persisted theme.
func (s *SiteSettingStore) SetTheme(ctx context.Context, t models.Theme) error {
	return saveJSON(ctx, s.kv, KeyTheme, t)
}

// ResetTheme drops the persisted theme so defaults apply again.
func (s *SiteSettingStore) ResetTheme(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyTheme); err != nil {
		return fmt.Errorf("reset theme: %w", err)
	}
	return nil
}

// StoreInfo returns the persisted store contact overrides, or nil.
func (s *SiteSettingStore) StoreInfo(ctx context.Context) (*models.StoreInfo, error) {
	var info models.StoreInfo
	found, err := loadJSON(ctx, s.kv, KeyStoreInfo, &info)
	if err != nil || !found {
		return nil, err
	}
	return &info, nil
}

// SetStoreInfo replaces the persisted store contact details.
func (s *SiteSettingStore) SetStoreInfo(ctx context.Context, info models.StoreInfo) error {
	return saveJSON(ctx, s.kv, KeyStoreInfo, info)
}
