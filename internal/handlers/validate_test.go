package handlers

import (
	"math"
	"strings"
	"testing"

	"tulasisilks/internal/models"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name      string
		draft     models.ProductDraft
		wantError bool
	}{
		{"valid", models.ProductDraft{Name: "Uppada", Category: "Silk", Price: 4500}, false},
		{"free product allowed", models.ProductDraft{Name: "Sample", Category: "Silk"}, false},
		{"empty name", models.ProductDraft{Category: "Silk"}, true},
		{"whitespace name", models.ProductDraft{Name: "   ", Category: "Silk"}, true},
		{"empty category", models.ProductDraft{Name: "Uppada"}, true},
		{"negative price", models.ProductDraft{Name: "Uppada", Category: "Silk", Price: -1}, true},
		{"NaN price", models.ProductDraft{Name: "Uppada", Category: "Silk", Price: math.NaN()}, true},
		{"name too long", models.ProductDraft{Name: strings.Repeat("a", 201), Category: "Silk"}, true},
		{"image not a URL", models.ProductDraft{Name: "A", Category: "B", Image: "javascript:alert(1)"}, true},
		{"https image", models.ProductDraft{Name: "A", Category: "B", Image: "https://res.example.com/a.jpg"}, false},
		{"description too long", models.ProductDraft{Name: "A", Category: "B", Description: strings.Repeat("a", 10_001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateDraft(tt.draft)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	empty := ""
	neg := -5.0
	name := "Gadwal"
	tests := []struct {
		name      string
		patch     models.ProductPatch
		wantError bool
	}{
		{"empty patch", models.ProductPatch{}, false},
		{"rename", models.ProductPatch{Name: &name}, false},
		{"clear name", models.ProductPatch{Name: &empty}, true},
		{"clear category", models.ProductPatch{Category: &empty}, true},
		{"negative price", models.ProductPatch{Price: &neg}, true},
		{"clear image", models.ProductPatch{Image: &empty}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePatch(tt.patch)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
