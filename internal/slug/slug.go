// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL identifiers: category slugs for the storefront
// and file-safe slugs for uploaded image names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches one or more whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Category returns the slug of a category's display text: lower-cased, with
// leading and trailing whitespace dropped and every inner whitespace run
// replaced by a single hyphen. Other characters are kept as-is, so
// "Kanchi Pattu" and "kanchi   pattu " share the slug "kanchi-pattu".
func Category(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return whitespaceRun.ReplaceAllString(s, "-")
}

// Generate creates a URL-friendly slug from the given string, dropping
// everything except ASCII letters, digits and hyphens.
// Example: "Red Silk Saree (Front).JPG" → "red-silk-saree-frontjpg"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
