package handlers

import (
	"errors"
	"net/http"
	"strings"

	"grievance-portal/internal/service"
	"grievance-portal/internal/utils"
)

type UploadHTTP struct {
	svc      *service.UploadService
	maxBytes int64
}

func NewUploadHTTP(s *service.UploadService, maxBytes int64) *UploadHTTP {
	return &UploadHTTP{svc: s, maxBytes: maxBytes}
}

// POST /api/upload (multipart, field "file")
func (h *UploadHTTP) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// room for the multipart envelope around the file itself
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
		file, hdr, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.Error(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			utils.Error(w, http.StatusBadRequest, "multipart field \"file\" is required")
			return
		}
		defer file.Close()

		f, err := h.svc.Upload(r.Context(), hdr.Filename, file)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, f)
	}
}

// Files serves stored uploads without directory listings.
func Files(dir string) http.Handler {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/uploads/")
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(name, ".") {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'; sandbox")
		fs.ServeHTTP(w, r)
	})
}
