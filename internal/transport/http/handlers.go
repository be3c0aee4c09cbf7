package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dialbook/internal/directory"
	"dialbook/pkg/httperrors"
	"dialbook/pkg/sentinel"
)

// Handler is the thin HTTP layer over the record store. It delegates to the
// store without embedding directory policy; the membership gate and owner
// checks belong to the bot surface, operators authenticate with the admin
// token instead.
type Handler struct {
	store  directory.RecordStore
	logger *slog.Logger
}

func NewHandler(store directory.RecordStore, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleListRecords returns the full mapping in its persisted layout.
func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshot(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snapshot)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	record, err := h.store.Get(r.Context(), identifier)
	if errors.Is(err, sentinel.ErrNotFound) {
		h.writeError(w, r, httperrors.New(httperrors.CodeNotFound, "no record for identifier"))
		return
	}
	if err != nil {
		h.writeError(w, r, httperrors.Wrap(err, httperrors.CodeInternal, "record lookup failed"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(record)
}

// handleBackup streams the snapshot as a download, byte-exact.
func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshot(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="database.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snapshot)
}

func (h *Handler) snapshot(r *http.Request) ([]byte, error) {
	if err := h.store.EnsureInitialized(r.Context()); err != nil {
		return nil, httperrors.Wrap(err, httperrors.CodeInternal, "store initialization failed")
	}
	snapshot, err := h.store.Snapshot(r.Context())
	if err != nil {
		return nil, httperrors.Wrap(err, httperrors.CodeInternal, "snapshot failed")
	}
	return snapshot, nil
}

// writeError centralizes coded-error translation to HTTP responses so every
// handler produces the same JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var coded httperrors.Error
	status := http.StatusInternalServerError
	code := string(httperrors.CodeInternal)
	if errors.As(err, &coded) {
		status = httperrors.ToHTTPStatus(coded.Code)
		code = string(coded.Code)
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "admin request failed",
			"path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
