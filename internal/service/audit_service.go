package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/pkg/jobs"
)

type auditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditConfig controls the background audit writer.
type AuditConfig struct {
	Enabled    bool
	Workers    int
	BufferSize int
}

// AuditService records workflow actions asynchronously. Record enqueues onto
// an in-memory worker queue so audit writes never sit on the request path. A
// nil *AuditService is a valid no-op recorder.
type AuditService struct {
	store  auditStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service and its backing queue. Returns nil
// when auditing is disabled, which callers treat as a no-op recorder.
func NewAuditService(store auditStore, cfg AuditConfig, logger *zap.Logger) *AuditService {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &AuditService{store: store, logger: logger}
	s.queue = jobs.NewQueue("audit", s.persist, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains and stops the queue workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an audit entry. Detail is marshalled to JSON; failures are
// logged and dropped rather than surfaced to the caller.
func (s *AuditService) Record(userID *string, action, resource string, resourceID *string, detail interface{}) {
	if s == nil {
		return
	}

	var raw []byte
	if detail != nil {
		var err error
		raw, err = json.Marshal(detail)
		if err != nil {
			s.logger.Warn("failed to marshal audit detail", zap.String("action", action), zap.Error(err))
			raw = nil
		}
	}

	entry := &models.AuditLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     raw,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: action, Payload: entry}); err != nil {
		s.logger.Warn("failed to enqueue audit entry", zap.String("action", action), zap.Error(err))
	}
}

// Recent returns the latest audit entries for the admin view.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if s == nil {
		return nil, nil
	}
	return s.store.ListRecent(ctx, limit)
}

func (s *AuditService) persist(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("audit job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.store.Create(ctx, entry)
}
