// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tulasisilks/internal/catalog"
	"tulasisilks/internal/category"
	"tulasisilks/internal/i18n"
	"tulasisilks/internal/markdown"
	"tulasisilks/internal/models"
	"tulasisilks/internal/settings"
)

// relatedLimit caps the related products shown on a product page.
const relatedLimit = 4

// Public groups the read-only storefront handlers. Every response is
// computed from the current product list; nothing is cached.
type Public struct {
	catalog  *catalog.Manager
	settings *settings.Service
}

// NewPublic creates a new Public handler group.
func NewPublic(cat *catalog.Manager, svc *settings.Service) *Public {
	return &Public{catalog: cat, settings: svc}
}

// homeResponse is the payload of the home page. Each section is a derived
// view over the product list.
type homeResponse struct {
	Hero         []models.Product  `json:"hero"`
	Featured     []models.Product  `json:"featured"`
	Categories   []models.Category `json:"categories"`
	Deals        []models.Product  `json:"deals"`
	LimitedOffer []models.Product  `json:"limitedOffer"`
	Blog         []models.Product  `json:"blog"`
}

// Home returns the slot views for the landing page.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, homeResponse{
		Hero:         p.catalog.InSlot(models.SlotHero),
		Featured:     p.catalog.InSlot(models.SlotFeatured),
		Categories:   category.Aggregate(p.catalog.List()),
		Deals:        p.catalog.InSlot(models.SlotDeals),
		LimitedOffer: p.catalog.InSlot(models.SlotLimitedOffer),
		Blog:         p.catalog.InSlot(models.SlotBlog),
	})
}

// Categories lists every category card.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, category.Aggregate(p.catalog.List()))
}

// CategoryDetail returns one card and its products.
func (p *Public) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	card, products, ok := category.Find(p.catalog.List(), chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": card,
		"products": products,
	})
}

// Shop lists products filtered by search text, categories and price range.
// category may repeat or be comma separated.
func (p *Public) Shop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort := q.Get("sort")
	if !catalog.ValidSort(sort) {
		writeError(w, http.StatusBadRequest, "Unknown sort order.")
		return
	}

	var categories []string
	for _, v := range q["category"] {
		categories = append(categories, strings.Split(v, ",")...)
	}

	products := p.catalog.Shop(catalog.ShopOptions{
		Search:     q.Get("search"),
		Categories: categories,
		MinPrice:   floatQuery(r, "min"),
		MaxPrice:   floatQuery(r, "max"),
		Sort:       sort,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"total":      len(products),
		"categories": p.catalog.Categories(),
	})
}

// Product returns one product by id.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	product, ok := p.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	html, err := markdown.ToHTML(product.Description)
	if err != nil {
		slog.Warn("description render failed", "error", err, "id", id)
	}

	related := []models.Product{}
	for _, other := range p.catalog.Filter(catalog.Query{Category: product.Category}) {
		if other.ID == product.ID {
			continue
		}
		related = append(related, other)
		if len(related) == relatedLimit {
			break
		}
	}

	// Product has its own MarshalJSON, so it is nested rather than embedded.
	writeJSON(w, http.StatusOK, map[string]any{
		"product":         product,
		"descriptionHtml": html,
		"related":         related,
	})
}

// Store returns the store info and theme used to render every page.
func (p *Public) Store(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := p.settings.StoreInfo(ctx)
	if err != nil {
		writeInternal(w, r, "store info", err)
		return
	}
	theme, err := p.settings.Theme(ctx)
	if err != nil {
		writeInternal(w, r, "theme", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"info":  info,
		"theme": theme,
	})
}

// I18n returns the negotiated language and its messages. An explicit lang
// query parameter is remembered in a cookie.
func (p *Public) I18n(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Negotiate(r)
	if _, ok := i18n.Parse(r.URL.Query().Get("lang")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.CookieName,
			Value:    string(lang),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			SameSite: http.SameSiteLaxMode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lang":     lang,
		"messages": i18n.Bundle(lang),
	})
}

// Health reports liveness and the current product count.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"products": p.catalog.Len(),
	})
}
