// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Theme holds the storefront's visual settings.
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	FontSize       int    `json:"fontSize"`
	SectionSpacing int    `json:"sectionSpacing"`
	HeroHeight     int    `json:"heroHeight"`
}

// ThemePatch is a partial theme update. Nil fields keep the current value.
type ThemePatch struct {
	PrimaryColor   *string `json:"primaryColor,omitempty"`
	SecondaryColor *string `json:"secondaryColor,omitempty"`
	FontFamily     *string `json:"fontFamily,omitempty"`
	FontSize       *int    `json:"fontSize,omitempty"`
	SectionSpacing *int    `json:"sectionSpacing,omitempty"`
	HeroHeight     *int    `json:"heroHeight,omitempty"`
}

// Apply merges the patch over t.
func (p ThemePatch) Apply(t Theme) Theme {
	if p.PrimaryColor != nil {
		t.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		t.SecondaryColor = *p.SecondaryColor
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.SectionSpacing != nil {
		t.SectionSpacing = *p.SectionSpacing
	}
	if p.HeroHeight != nil {
		t.HeroHeight = *p.HeroHeight
	}
	return t
}

// StoreInfo holds the shop's contact details shown on the contact page and
// footer.
type StoreInfo struct {
	StoreName        string `json:"storeName"`
	StoreAddress     string `json:"storeAddress"`
	StoreCity        string `json:"storeCity"`
	StoreState       string `json:"storeState"`
	StoreZip         string `json:"storeZip"`
	StorePhone       string `json:"storePhone"`
	StoreEmail       string `json:"storeEmail"`
	StoreDescription string `json:"storeDescription"`
	GoogleMapsURL    string `json:"googleMapsUrl"`
}

// MergeOver copies every non-empty field of s over base. Used to lay
// persisted overrides over the defaults.
func (s StoreInfo) MergeOver(base StoreInfo) StoreInfo {
	pick := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}
	return StoreInfo{
		StoreName:        pick(s.StoreName, base.StoreName),
		StoreAddress:     pick(s.StoreAddress, base.StoreAddress),
		StoreCity:        pick(s.StoreCity, base.StoreCity),
		StoreState:       pick(s.StoreState, base.StoreState),
		StoreZip:         pick(s.StoreZip, base.StoreZip),
		StorePhone:       pick(s.StorePhone, base.StorePhone),
		StoreEmail:       pick(s.StoreEmail, base.StoreEmail),
		StoreDescription: pick(s.StoreDescription, base.StoreDescription),
		GoogleMapsURL:    pick(s.GoogleMapsURL, base.GoogleMapsURL),
	}
}
