// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/catalog"
	"tulasisilks/internal/export"
	"tulasisilks/internal/middleware"
	"tulasisilks/internal/models"
	"tulasisilks/internal/settings"
	"tulasisilks/internal/store"
	"tulasisilks/internal/upload"
)

// recentOrders is how many orders the dashboard shows.
const recentOrders = 5

// UploadRecorder receives upload outcomes. Implemented by metrics.Metrics.
type UploadRecorder interface {
	Upload(backend string, err error)
}

// SessionRevoker ends all sessions of a user. Implemented by session.Store.
type SessionRevoker interface {
	DestroyUser(ctx context.Context, userID string) (int, error)
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	catalog   *catalog.Manager
	customers *store.CustomerStore
	orders    *store.OrderStore
	settings  *settings.Service
	auth      *auth.Service
	sessions  SessionRevoker
	uploader  upload.Uploader
	uploads   UploadRecorder
	now       func() time.Time
}

// NewAdmin creates a new Admin handler group. uploader may be nil when no
// image service is configured; sessions and rec may be nil.
func NewAdmin(cat *catalog.Manager, customers *store.CustomerStore, orders *store.OrderStore, svc *settings.Service, authSvc *auth.Service, sessions SessionRevoker, uploader upload.Uploader, rec UploadRecorder) *Admin {
	return &Admin{
		catalog:   cat,
		customers: customers,
		orders:    orders,
		settings:  svc,
		auth:      authSvc,
		sessions:  sessions,
		uploader:  uploader,
		uploads:   rec,
		now:       time.Now,
	}
}

// Dashboard returns slot counts and shop totals.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customers, err := a.customers.Count(ctx)
	if err != nil {
		writeInternal(w, r, "count customers", err)
		return
	}
	orders, err := a.orders.List(ctx)
	if err != nil {
		writeInternal(w, r, "list orders", err)
		return
	}

	var revenue float64
	for _, o := range orders {
		if o.Status == models.OrderCompleted {
			revenue += o.Total
		}
	}
	recent := orders
	if len(recent) > recentOrders {
		recent = recent[:recentOrders]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"counts":       a.catalog.Counts(),
		"customers":    customers,
		"orders":       len(orders),
		"revenue":      revenue,
		"recentOrders": recent,
		"csrfToken":    middleware.CSRFTokenFromCtx(ctx),
	})
}

// productQuery reads the admin list filters.
func productQuery(r *http.Request) catalog.Query {
	return catalog.Query{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
}

// ProductsList returns the filtered product list and the category filter
// options.
func (a *Admin) ProductsList(w http.ResponseWriter, r *http.Request) {
	products := a.catalog.Filter(productQuery(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"total":      a.catalog.Len(),
		"categories": a.catalog.Categories(),
	})
}

// ProductCreate adds a product. inStock defaults to true.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var draft models.ProductDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateDraft(draft); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := a.catalog.Add(r.Context(), draft)
	if err != nil {
		writeInternal(w, r, "add product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ProductGet returns one product for the edit form.
func (a *Admin) ProductGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	p, ok := a.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProductUpdate merges the submitted fields into the product.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	var patch models.ProductPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validatePatch(patch); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := a.catalog.Update(r.Context(), id, patch)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		writeInternal(w, r, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProductDelete removes a product. Deleting a missing id succeeds.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	removed, err := a.catalog.Remove(r.Context(), id)
	if err != nil {
		writeInternal(w, r, "remove product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// ProductsExport downloads the filtered product list as CSV or XLSX.
func (a *Admin) ProductsExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	products := a.catalog.Filter(productQuery(r))
	a.download(w, r, "products", format, func(out io.Writer) error {
		return export.Products(out, format, products)
	})
}

// OrdersList returns every order, newest first.
func (a *Admin) OrdersList(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.List(r.Context())
	if err != nil {
		writeInternal(w, r, "list orders", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// customerQuery reads the admin customer filters. q searches name, email
// and phone; status is one of all, active, inactive or blocked.
func customerQuery(r *http.Request) (string, models.CustomerStatus, error) {
	status, err := models.ParseStatusFilter(r.URL.Query().Get("status"))
	return r.URL.Query().Get("q"), status, err
}

// CustomersList returns customers matching the q and status parameters.
func (a *Admin) CustomersList(w http.ResponseWriter, r *http.Request) {
	query, status, err := customerQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	customers, err := a.customers.List(r.Context(), query, status)
	if err != nil {
		writeInternal(w, r, "list customers", err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// CustomerToggle flips a customer between active and blocked. Blocking
// also logs the customer out everywhere.
func (a *Admin) CustomerToggle(w http.ResponseWriter, r *http.Request) {
	c, err := a.customers.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInternal(w, r, "toggle customer", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if c.Status == models.CustomerBlocked && a.sessions != nil {
		n, err := a.sessions.DestroyUser(r.Context(), c.ID)
		if err != nil {
			writeInternal(w, r, "revoke customer sessions", err)
			return
		}
		slog.Info("customer blocked", "customer_id", c.ID, "sessions_revoked", n)
	}
	writeJSON(w, http.StatusOK, c)
}

// CustomersExport downloads the filtered customer list.
func (a *Admin) CustomersExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query, status, err := customerQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	customers, err := a.customers.List(r.Context(), query, status)
	if err != nil {
		writeInternal(w, r, "list customers", err)
		return
	}
	a.download(w, r, "customers", format, func(out io.Writer) error {
		return export.Customers(out, format, customers)
	})
}

// download builds a report in memory and only then sends it as an
// attachment, so a failed build still answers with a JSON error.
func (a *Admin) download(w http.ResponseWriter, r *http.Request, report, format string, build func(io.Writer) error) {
	var buf bytes.Buffer
	if err := build(&buf); err != nil {
		writeInternal(w, r, "export "+report, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(report, format, a.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("report write failed", "report", report, "error", err)
	}
}

// ThemeGet returns the current theme.
func (a *Admin) ThemeGet(w http.ResponseWriter, r *http.Request) {
	t, err := a.settings.Theme(r.Context())
	if err != nil {
		writeInternal(w, r, "theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ThemeUpdate applies a partial theme.
func (a *Admin) ThemeUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.ThemePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := a.settings.UpdateTheme(r.Context(), patch)
	if errors.Is(err, settings.ErrInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, "update theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ThemeReset restores the default theme.
func (a *Admin) ThemeReset(w http.ResponseWriter, r *http.Request) {
	t, err := a.settings.ResetTheme(r.Context())
	if err != nil {
		writeInternal(w, r, "reset theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// StoreGet returns the store info.
func (a *Admin) StoreGet(w http.ResponseWriter, r *http.Request) {
	info, err := a.settings.StoreInfo(r.Context())
	if err != nil {
		writeInternal(w, r, "store info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// StoreUpdate saves the store info. Empty fields fall back to defaults.
func (a *Admin) StoreUpdate(w http.ResponseWriter, r *http.Request) {
	var info models.StoreInfo
	if err := decodeJSON(w, r, &info); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := a.settings.UpdateStoreInfo(r.Context(), info)
	if errors.Is(err, settings.ErrInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, "update store info", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// OTPQRCode serves the admin TOTP provisioning QR code as a PNG.
func (a *Admin) OTPQRCode(w http.ResponseWriter, r *http.Request) {
	if !a.auth.TOTPEnabled() {
		writeError(w, http.StatusNotFound, "TOTP is not configured.")
		return
	}
	png, err := a.auth.TOTPQRCode()
	if err != nil {
		writeInternal(w, r, "totp qr", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
