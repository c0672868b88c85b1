package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
	"github.com/kestrel-systems/kestrel-collector/pkg/httputil"
	"github.com/kestrel-systems/kestrel-collector/pkg/logging"
)

// Service is the ingestion surface the handler delegates to.
type Service interface {
	IngestEvent(ctx context.Context, body []byte) models.IngestResult
	IngestSourcemap(ctx context.Context, token string, mr *multipart.Reader) models.IngestResult
}

// CollectorHandler serves the collector's HTTP endpoints. Every outcome,
// including rejections, is written as HTTP 200 with the {error, message}
// body; SDK clients branch on the body, never the status code.
type CollectorHandler struct {
	service     Service
	maxBodyRead int64
	logger      *logging.Logger
}

func NewCollectorHandler(service Service, maxBodyRead int64, logger *logging.Logger) *CollectorHandler {
	return &CollectorHandler{
		service:     service,
		maxBodyRead: maxBodyRead,
		logger:      logger,
	}
}

// HandleEvent serves the error-ingestion endpoint. GET requests carry no
// body and fail the pipeline's format stage like any malformed input.
func (h *CollectorHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyRead+1))
	defer r.Body.Close()
	if err != nil {
		h.sendResult(w, models.Rejected(models.MsgInvalidJSON))
		return
	}

	// The hard read cap bounds buffering before any validation work. A body
	// past it can only ever fail size governance, so short-circuit.
	if int64(len(body)) > h.maxBodyRead {
		h.logger.WarnContext(r.Context(), "body exceeds read cap",
			logging.IP(httputil.GetClientIP(r)),
			logging.Bytes(int64(len(body))),
		)
		h.sendResult(w, models.Rejected(models.MsgTooLarge))
		return
	}

	h.sendResult(w, h.service.IngestEvent(r.Context(), body))
}

// HandleSourcemap serves the sourcemap upload endpoint. The bearer header
// is handed to the service before the multipart body is consumed.
func (h *CollectorHandler) HandleSourcemap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendResult(w, models.Rejected(models.MsgInvalidMultipart))
		return
	}

	token := httputil.BearerToken(r.Header.Get("Authorization"))

	// A nil reader reaches the service so authentication is still judged
	// first; a bad credential learns nothing about body handling.
	mr, err := r.MultipartReader()
	if err != nil {
		mr = nil
	}

	h.sendResult(w, h.service.IngestSourcemap(r.Context(), token, mr))
}

func (h *CollectorHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

func (h *CollectorHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (h *CollectorHandler) sendResult(w http.ResponseWriter, result models.IngestResult) {
	httputil.WriteJSON(w, http.StatusOK, result)
}
