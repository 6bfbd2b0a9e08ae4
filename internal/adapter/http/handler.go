package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/galerie/internal/adapter/http/validation"
	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/service"
	"github.com/rs/zerolog"
)

type MediaService interface {
	Upload(ctx context.Context, req service.UploadRequest) (*domain.Media, error)
	Get(ctx context.Context, id string) (*service.MediaDetails, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Jobs(ctx context.Context, status domain.JobStatus, limit int) (*service.JobsOverview, error)
	RetryJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// multipart parts above this size spill to disk while parsing
const formMemory = 8 << 20

var mediaIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Handlers struct {
	mediaSvc      MediaService
	spoolDir      string
	maxUploadSize int64
}

func NewHandlers(mediaSvc MediaService, spoolDir string, maxUploadSize int64) *Handlers {
	return &Handlers{
		mediaSvc:      mediaSvc,
		spoolDir:      spoolDir,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formMemory)
		if err := r.ParseMultipartForm(formMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeMessage(w, http.StatusRequestEntityTooLarge, domain.ErrFileTooLarge.Error())
				return
			}
			writeMessage(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck

		id := r.FormValue("id")
		if id != "" && !mediaIDPattern.MatchString(id) {
			writeMessage(w, http.StatusBadRequest, "invalid media id")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "missing file")
			return
		}
		defer file.Close() //nolint:errcheck

		mimeType, allowed, err := validation.DetectMIME(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("sniff upload: %w", err))
			return
		}
		if !allowed {
			writeMessage(w, http.StatusUnsupportedMediaType, validation.ErrDisallowedFileType.Error())
			return
		}

		spooled, size, err := h.spool(file)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer os.Remove(spooled) //nolint:errcheck

		media, err := h.mediaSvc.Upload(r.Context(), service.UploadRequest{
			ID:       id,
			FileName: validation.SanitizeFilename(header.Filename),
			MimeType: mimeType,
			Size:     size,
			Path:     spooled,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		status := http.StatusCreated
		if !media.IsReady() {
			status = http.StatusAccepted
		}
		writeJSON(w, status, media)
	}
}

// spool copies the upload to a local file so encoders can seek in it.
func (h *Handlers) spool(src io.Reader) (string, int64, error) {
	if err := os.MkdirAll(h.spoolDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create spool dir: %w", err)
	}
	f, err := os.CreateTemp(h.spoolDir, "upload-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("create spool file: %w", err)
	}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("spool upload: %w", err)
	}
	return f.Name(), n, nil
}

func (h *Handlers) MediaInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := h.mediaSvc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

// videoTypes fills the gaps in the platform MIME table.
var videoTypes = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
}

func contentTypeFor(key string) string {
	ext := filepath.Ext(key)
	if ct, ok := videoTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handlers) Blob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if strings.ContainsAny(key, `/\`) {
			writeError(w, r, domain.ErrNotFound)
			return
		}
		rc, err := h.mediaSvc.Open(r.Context(), key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close() //nolint:errcheck

		w.Header().Set("Content-Type", contentTypeFor(key))
		w.Header().Set("Cache-Control", "public, max-age=86400")

		if _, err := io.Copy(w, rc); err != nil && r.Context().Err() == nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("key", key).Msg("blob stream interrupted")
		}
	}
}

func (h *Handlers) ListJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 1000 {
				writeMessage(w, http.StatusBadRequest, "limit must be between 1 and 1000")
				return
			}
			limit = n
		}

		overview, err := h.mediaSvc.Jobs(r.Context(), domain.JobStatus(r.URL.Query().Get("status")), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

func (h *Handlers) RetryJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.mediaSvc.RetryJob(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

// HealthFunc reports whether a dependency is usable.
type HealthFunc func(ctx context.Context) error

func Health(check HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
