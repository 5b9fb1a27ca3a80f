// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storefront. It organizes routes into public, auth and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tulasisilks/internal/handlers"
	"tulasisilks/internal/middleware"
	"tulasisilks/internal/session"
)

// Deps holds everything the router wires together.
type Deps struct {
	Sessions *session.Store
	Admin    *handlers.Admin
	Auth     *handlers.Auth
	Public   *handlers.Public

	// Observer records per-route request metrics. May be nil.
	Observer middleware.RequestObserver
	// MetricsHandler serves /metrics. May be nil.
	MetricsHandler http.Handler
	// UploadLimiter throttles image uploads. May be nil.
	UploadLimiter *middleware.RateLimiter
	// Secure marks cookies Secure (production).
	Secure bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if d.Observer != nil {
		r.Use(middleware.Metrics(d.Observer))
	}
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", d.Public.Health)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	// Storefront and auth stub.
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", d.Public.Home)
		r.Get("/categories", d.Public.Categories)
		r.Get("/categories/{slug}", d.Public.CategoryDetail)
		r.Get("/shop", d.Public.Shop)
		r.Get("/products/{id}", d.Public.Product)
		r.Get("/store", d.Public.Store)
		r.Get("/i18n", d.Public.I18n)

		r.Post("/login", d.Auth.Login)
		r.Post("/otp/request", d.Auth.RequestOTP)
		r.Post("/otp/login", d.Auth.LoginWithOTP)
		r.Post("/logout", d.Auth.Logout)
		r.Get("/me", d.Auth.Me)
	})

	// Admin API: admin session first, then CSRF on mutations.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Use(middleware.NoStore)
		r.Use(middleware.NewCSRF(d.Secure))

		r.Get("/dashboard", d.Admin.Dashboard)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", d.Admin.ProductsList)
			r.Post("/", d.Admin.ProductCreate)
			r.Get("/export", d.Admin.ProductsExport)
			r.Get("/{id}", d.Admin.ProductGet)
			r.Put("/{id}", d.Admin.ProductUpdate)
			r.Delete("/{id}", d.Admin.ProductDelete)
			r.With(limit(d.UploadLimiter)).Post("/{id}/image", d.Admin.ProductImage)
		})
		r.With(limit(d.UploadLimiter)).Post("/uploads", d.Admin.Upload)

		r.Get("/orders", d.Admin.OrdersList)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", d.Admin.CustomersList)
			r.Get("/export", d.Admin.CustomersExport)
			r.Post("/{id}/toggle", d.Admin.CustomerToggle)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/theme", d.Admin.ThemeGet)
			r.Put("/theme", d.Admin.ThemeUpdate)
			r.Post("/theme/reset", d.Admin.ThemeReset)
			r.Get("/store", d.Admin.StoreGet)
			r.Put("/store", d.Admin.StoreUpdate)
		})

		r.Get("/otp/qr", d.Admin.OTPQRCode)
	})

	r.NotFound(notFound)
	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// notFound is the JSON placeholder for unknown routes.
func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not found"}`))
}
