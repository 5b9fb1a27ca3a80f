package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tulasisilks/internal/catalog"
	"tulasisilks/internal/models"
	"tulasisilks/internal/upload"
)

// multipartOverhead allows for form boundaries and fields next to the file.
const multipartOverhead = 64 << 10

// readUpload pulls the "file" field out of a multipart request. It writes
// the error response itself and returns ok=false on failure.
func readUpload(w http.ResponseWriter, r *http.Request) (upload.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+multipartOverhead)
	if err := r.ParseMultipartForm(upload.MaxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5 MB.")
			return upload.File{}, false
		}
		writeError(w, http.StatusBadRequest, "Expected a multipart form.")
		return upload.File{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return upload.File{}, false
	}
	defer file.Close()

	if header.Size > upload.MaxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5 MB.")
		return upload.File{}, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file.")
		return upload.File{}, false
	}
	return upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

// send runs the uploader and maps failures onto responses.
func (a *Admin) send(w http.ResponseWriter, r *http.Request, f upload.File) (*models.Image, bool) {
	if a.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return nil, false
	}

	img, err := a.uploader.Upload(r.Context(), f)
	if a.uploads != nil {
		a.uploads.Upload(a.uploader.Name(), err)
	}
	if err == nil {
		slog.Info("image uploaded", "backend", a.uploader.Name(), "public_id", img.PublicID, "bytes", img.SizeBytes)
		return img, true
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmpty):
		status = http.StatusBadRequest
	default:
		slog.Error("image upload failed", "backend", a.uploader.Name(), "error", err)
	}
	writeError(w, status, err.Error())
	return nil, false
}

// Upload stores an image and returns its URL for the product form.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	f, ok := readUpload(w, r)
	if !ok {
		return
	}
	img, ok := a.send(w, r, f)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// ProductImage uploads an image and sets it on the product. On any
// failure the product keeps its previous image.
func (a *Admin) ProductImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if _, ok := a.catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	f, ok := readUpload(w, r)
	if !ok {
		return
	}
	img, ok := a.send(w, r, f)
	if !ok {
		return
	}

	url := img.URL
	p, err := a.catalog.Update(r.Context(), id, models.ProductPatch{Image: &url})
	if err != nil {
		// The product was removed or could not be saved; drop the orphan.
		if derr := a.uploader.Delete(r.Context(), img.PublicID); derr != nil {
			slog.Warn("orphan image cleanup failed", "public_id", img.PublicID, "error", derr)
		}
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeInternal(w, r, "set product image", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product": p,
		"image":   img,
	})
}
