package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/kestrel-systems/kestrel-collector/internal/artifacts"
	"github.com/kestrel-systems/kestrel-collector/internal/auth"
	"github.com/kestrel-systems/kestrel-collector/internal/catcher"
	"github.com/kestrel-systems/kestrel-collector/internal/metrics"
	"github.com/kestrel-systems/kestrel-collector/internal/models"
	"github.com/kestrel-systems/kestrel-collector/internal/pipeline"
	"github.com/kestrel-systems/kestrel-collector/internal/sourcemap"
	"github.com/kestrel-systems/kestrel-collector/pkg/logging"
)

// CollectorService ties the validation pipeline and sourcemap intake to
// dispatch and artifact storage. A request is either fully accepted and
// handed off exactly once, or fully rejected with no side effects.
type CollectorService struct {
	pipeline      *pipeline.Pipeline
	dispatcher    *catcher.Dispatcher
	authenticator *auth.Authenticator
	intake        *sourcemap.Intake
	store         artifacts.Store
	logger        *logging.Logger
}

func NewCollectorService(
	p *pipeline.Pipeline,
	d *catcher.Dispatcher,
	a *auth.Authenticator,
	i *sourcemap.Intake,
	store artifacts.Store,
	logger *logging.Logger,
) *CollectorService {
	return &CollectorService{
		pipeline:      p,
		dispatcher:    d,
		authenticator: a,
		intake:        i,
		store:         store,
		logger:        logger,
	}
}

// IngestEvent runs the raw body through the validation pipeline and, on
// success, dispatches the event by catcher type.
func (s *CollectorService) IngestEvent(ctx context.Context, body []byte) models.IngestResult {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.WithLabelValues("event").Observe(time.Since(start).Seconds())
	}()

	envelope, project, err := s.pipeline.Run(ctx, body)
	if err != nil {
		result := models.ResultOf(err, models.MsgInvalidJSON)
		if result.Message == models.MsgInvalidSignature {
			metrics.AuthFailuresTotal.Inc()
		}
		metrics.RequestsTotal.WithLabelValues("event", "rejected").Inc()
		metrics.RejectionsTotal.WithLabelValues("event", result.Message).Inc()
		s.logger.DebugContext(ctx, "event rejected", logging.Error(err))
		return result
	}

	if err := s.dispatcher.Dispatch(ctx, envelope, project); err != nil {
		metrics.RequestsTotal.WithLabelValues("event", "rejected").Inc()
		metrics.DispatchErrors.Inc()
		s.logger.ErrorContext(ctx, "event dispatch failed",
			logging.ProjectID(project.ProjectID),
			logging.CatcherType(envelope.CatcherType),
			logging.Error(err),
		)
		return models.Rejected(models.MsgDispatchFailed)
	}

	metrics.RequestsTotal.WithLabelValues("event", "accepted").Inc()
	metrics.EventBytesTotal.Add(float64(envelope.Size))
	s.logger.InfoContext(ctx, "event accepted",
		logging.ProjectID(project.ProjectID),
		logging.CatcherType(envelope.CatcherType),
		logging.Bytes(envelope.Size),
	)
	return models.Accepted()
}

// IngestSourcemap authenticates the bearer credential first, then streams
// the multipart body under the sourcemap byte ceiling and hands the
// validated upload to artifact storage.
func (s *CollectorService) IngestSourcemap(ctx context.Context, token string, mr *multipart.Reader) models.IngestResult {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.WithLabelValues("sourcemap").Observe(time.Since(start).Seconds())
	}()

	project, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		metrics.AuthFailuresTotal.Inc()
		metrics.RequestsTotal.WithLabelValues("sourcemap", "rejected").Inc()
		metrics.RejectionsTotal.WithLabelValues("sourcemap", models.MsgInvalidSignature).Inc()
		return models.Rejected(models.MsgInvalidSignature)
	}

	if mr == nil {
		metrics.RequestsTotal.WithLabelValues("sourcemap", "rejected").Inc()
		metrics.RejectionsTotal.WithLabelValues("sourcemap", models.MsgInvalidMultipart).Inc()
		return models.Rejected(models.MsgInvalidMultipart)
	}

	upload, err := s.intake.Read(ctx, mr)
	if err != nil {
		result := models.ResultOf(err, models.MsgInvalidMultipart)
		metrics.RequestsTotal.WithLabelValues("sourcemap", "rejected").Inc()
		metrics.RejectionsTotal.WithLabelValues("sourcemap", result.Message).Inc()
		s.logger.DebugContext(ctx, "sourcemap rejected",
			logging.ProjectID(project.ProjectID),
			logging.Error(err),
		)
		return result
	}
	upload.ProjectID = project.ProjectID

	if err := s.store.Save(ctx, upload); err != nil {
		metrics.RequestsTotal.WithLabelValues("sourcemap", "rejected").Inc()
		metrics.StorageErrors.Inc()
		s.logger.ErrorContext(ctx, "artifact storage failed",
			logging.ProjectID(project.ProjectID),
			logging.Release(upload.Release),
			logging.Error(err),
		)
		return models.Rejected(models.MsgStorageFailed)
	}

	metrics.RequestsTotal.WithLabelValues("sourcemap", "accepted").Inc()
	metrics.SourcemapBytesTotal.Add(float64(upload.TotalBytes()))
	s.logger.InfoContext(ctx, "sourcemap accepted",
		logging.ProjectID(project.ProjectID),
		logging.Release(upload.Release),
		logging.Bytes(upload.TotalBytes()),
	)
	return models.Accepted()
}
