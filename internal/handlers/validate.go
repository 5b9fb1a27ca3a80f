// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"math"
	"strings"
	"unicode/utf8"

	"tulasisilks/internal/models"
)

// Validation limits for product fields.
const (
	maxNameLen        = 200
	maxCategoryLen    = 100
	maxDescriptionLen = 10_000
	maxImageURLLen    = 2_000
)

// validateDraft checks a new product and returns the first error found.
func validateDraft(d models.ProductDraft) string {
	if msg := validateName(d.Name); msg != "" {
		return msg
	}
	if msg := validateCategory(d.Category); msg != "" {
		return msg
	}
	if msg := validatePrice(d.Price); msg != "" {
		return msg
	}
	return validateOptional(d.Image, d.Description)
}

// validatePatch checks only the fields an edit sets.
func validatePatch(p models.ProductPatch) string {
	if p.Name != nil {
		if msg := validateName(*p.Name); msg != "" {
			return msg
		}
	}
	if p.Category != nil {
		if msg := validateCategory(*p.Category); msg != "" {
			return msg
		}
	}
	if p.Price != nil {
		if msg := validatePrice(*p.Price); msg != "" {
			return msg
		}
	}
	var image, description string
	if p.Image != nil {
		image = *p.Image
	}
	if p.Description != nil {
		description = *p.Description
	}
	return validateOptional(image, description)
}

func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Product name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Product name is too long (max 200 characters)."
	}
	return ""
}

func validateCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Category is required."
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category is too long (max 100 characters)."
	}
	return ""
}

func validatePrice(price float64) string {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "Price must be zero or more."
	}
	return ""
}

func validateOptional(image, description string) string {
	if len(image) > maxImageURLLen {
		return "Image URL is too long (max 2,000 characters)."
	}
	if image != "" && !strings.HasPrefix(image, "https://") && !strings.HasPrefix(image, "http://") {
		return "Image must be an http(s) URL."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	return ""
}
