// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs over the in-memory store, so no services are needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/catalog"
	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/middleware"
	"tulasisilks/internal/models"
	"tulasisilks/internal/session"
	"tulasisilks/internal/settings"
	"tulasisilks/internal/store"
	"tulasisilks/internal/upload"
)

// fakeUploader implements upload.Uploader for handler tests.
type fakeUploader struct {
	err     error
	calls   int
	deleted []string
}

func (f *fakeUploader) Name() string { return "fake" }

func (f *fakeUploader) Upload(_ context.Context, file upload.File) (*models.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Image{
		URL:       "https://res.example.com/sarees/" + file.Name,
		PublicID:  "sarees/" + file.Name,
		SizeBytes: int64(len(file.Data)),
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

// uploadCounter implements UploadRecorder.
type uploadCounter struct{ ok, failed int }

func (u *uploadCounter) Upload(_ string, err error) {
	if err != nil {
		u.failed++
		return
	}
	u.ok++
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	KV        *kvstore.Memory
	Catalog   *catalog.Manager
	Customers *store.CustomerStore
	Orders    *store.OrderStore
	Settings  *settings.Service
	AuthSvc   *auth.Service
	Sessions  *session.Store
	Uploader  *fakeUploader
	Uploads   *uploadCounter
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with the given auth
// settings.
func newTestEnvWith(t *testing.T, cfg auth.Config) *testEnv {
	t.Helper()

	kv := kvstore.NewMemory()
	env := &testEnv{
		KV:        kv,
		Catalog:   catalog.New(store.NewProductStore(kv)),
		Customers: store.NewCustomerStore(kv),
		Orders:    store.NewOrderStore(kv),
		Settings:  settings.New(store.NewSiteSettingStore(kv)),
		Sessions:  session.NewStore(kv, false),
		Uploader:  &fakeUploader{},
		Uploads:   &uploadCounter{},
	}
	if err := env.Catalog.Load(context.Background()); err != nil {
		t.Fatalf("catalog load: %v", err)
	}
	env.AuthSvc = auth.New(cfg, env.Customers)
	env.Admin = NewAdmin(env.Catalog, env.Customers, env.Orders, env.Settings, env.AuthSvc, env.Sessions, env.Uploader, env.Uploads)
	env.Auth = NewAuth(env.AuthSvc, env.Sessions)
	env.Public = NewPublic(env.Catalog, env.Settings)
	return env
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, auth.DefaultConfig())
}

// addProduct adds a product directly through the catalog.
func (env *testEnv) addProduct(t *testing.T, name, category string, price float64, slots ...models.SlotName) models.Product {
	t.Helper()
	p, err := env.Catalog.Add(context.Background(), models.ProductDraft{
		Name:     name,
		Category: category,
		Price:    price,
		InStock:  true,
		Slots:    models.NewSlots(slots...),
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	return p
}

// ctxWithUser returns a context carrying a session for user, as
// LoadSession would.
func ctxWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, &session.Data{User: user, CreatedAt: time.Now()})
}

func adminUser() models.User {
	return models.User{ID: auth.AdminID, Name: "Admin", Role: models.RoleAdmin}
}

// jsonRequest builds a request with a JSON body and optional chi URL params
// given as alternating key, value pairs.
func jsonRequest(method, target string, body any, params ...string) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return withParams(req, params...)
}

// withParams attaches chi URL parameters to req.
func withParams(req *http.Request, params ...string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decode unmarshals the recorder body into dst.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// pngBytes encodes a small solid image.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds an upload request with data in the "file" field.
func multipartRequest(t *testing.T, target, filename string, data []byte, params ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return withParams(req, params...)
}
