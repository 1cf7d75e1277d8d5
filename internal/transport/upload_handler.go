package transport

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"catalog-admin/internal/middleware"
	"catalog-admin/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartSlack covers multipart framing overhead on top of the file limit
const multipartSlack = 10 << 10

// UploadResponse carries the public URL of a stored image
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadHandler handles multipart image uploads
type UploadHandler struct {
	store    *upload.Store
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store *upload.Store, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterRoutes registers the upload route, optionally behind extra middleware
func (h *UploadHandler) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		for _, mw := range mws {
			r.Use(mw)
		}
		r.Post("/upload/{type}", h.Upload)
	})
}

// Upload accepts a single image in the "image" multipart field, validates
// type and size, stores it under the partition named by the path, and
// returns the absolute URL it will be served from.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	partition := chi.URLParam(r, "type")
	if partition != upload.PartitionCategories && partition != upload.PartitionProducts {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown upload type: "+partition)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlack)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.RespondWithError(w, http.StatusBadRequest, "file exceeds the maximum upload size")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		middleware.RespondWithError(w, http.StatusBadRequest, "file exceeds the maximum upload size")
		return
	}

	// Sniff the real content type rather than trusting the client header
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		h.logger.Error("Failed to read upload for validation", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	contentType := http.DetectContentType(buffer[:n])
	if !upload.AllowedMIMETypes[contentType] {
		middleware.RespondWithError(w, http.StatusBadRequest,
			"invalid file type. Only JPEG, PNG and WebP are allowed")
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		h.logger.Error("Failed to rewind upload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		}
	}

	filename, err := h.store.Save(partition, ext, file)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	url := fmt.Sprintf("%s://%s/uploads/%s/%s", scheme, r.Host, partition, filename)

	h.logger.Info("Image uploaded",
		zap.String("partition", partition),
		zap.String("filename", filename),
		zap.Int64("size", header.Size),
		zap.String("content_type", contentType),
	)
	middleware.RespondWithJSON(w, http.StatusOK, UploadResponse{URL: url})
}
