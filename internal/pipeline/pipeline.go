// Package pipeline runs asynchronous image moderation: uploaded images
// are queued, a worker detects unsafe content and persists the verdict on
// the owning entity.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/moderation"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/storage"
)

// Status is the lifecycle state of one moderation job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one image to moderate for one owning entity.
type Job struct {
	OwnerKind models.OwnerKind `json:"ownerKind"`
	OwnerID   int64            `json:"ownerId"`
	ImagePath string           `json:"imagePath"`
}

// EntityStore is the slice of the persistence layer the pipeline needs.
type EntityStore interface {
	AppendImage(ctx context.Context, ownerID int64, imagePath string) error
	UpdateModeration(ctx context.Context, ownerID int64, verdict models.ModerationVerdict, flagged bool) error
}

// StoreResolver maps an owner kind to its entity store.
type StoreResolver func(kind models.OwnerKind) (EntityStore, bool)

// Pipeline processes moderation jobs. Vendor unavailability fails open:
// the image stays attached unflagged and no verdict is written, so a later
// re-run can still produce one.
type Pipeline struct {
	stores   StoreResolver
	storage  storage.Storage
	detector moderation.Detector
	policy   *moderation.Policy
	timeout  time.Duration
	logger   *logging.Logger
}

// New creates a pipeline. timeout bounds each detector call.
func New(stores StoreResolver, store storage.Storage, detector moderation.Detector, policy *moderation.Policy, timeout time.Duration, logger *logging.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pipeline{
		stores:   stores,
		storage:  store,
		detector: detector,
		policy:   policy,
		timeout:  timeout,
		logger:   logger,
	}
}

// Process runs one job to a terminal state. Re-processing the same job is
// safe: the image append is duplicate-guarded and the flag merge is
// monotonic.
func (p *Pipeline) Process(ctx context.Context, job Job) (Status, error) {
	log := p.logger.With(logging.WithFields(map[string]interface{}{
		"owner_kind": string(job.OwnerKind),
		"owner_id":   job.OwnerID,
		"image":      job.ImagePath,
	}))

	store, ok := p.stores(job.OwnerKind)
	if !ok {
		return StatusFailed, fmt.Errorf("unknown owner kind %q", job.OwnerKind)
	}

	imageBytes, err := p.storage.Read(ctx, job.ImagePath)
	if err != nil {
		return StatusFailed, fmt.Errorf("read image: %w", err)
	}

	if err := store.AppendImage(ctx, job.OwnerID, job.ImagePath); err != nil {
		return StatusFailed, fmt.Errorf("attach image: %w", err)
	}

	detectCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	verdict, err := p.detector.Detect(detectCtx, moderation.Source{
		Name:  job.ImagePath,
		URL:   p.storage.URL(job.ImagePath),
		Bytes: imageBytes,
	})
	if err != nil {
		// Fail open: the vendor being down must not block uploads or
		// flag innocent content.
		log.Warn("moderation detector unavailable, skipping verdict", logging.Field{Key: "error", Value: err.Error()})
		return StatusCompleted, nil
	}

	flagged, reason := p.policy.Evaluate(*verdict)
	if reason != "" {
		verdict.Reason = reason
	}

	if err := store.UpdateModeration(ctx, job.OwnerID, *verdict, flagged); err != nil {
		return StatusFailed, fmt.Errorf("persist verdict: %w", err)
	}

	log.Info("moderation completed",
		logging.Field{Key: "safe", Value: verdict.Safe},
		logging.Field{Key: "flagged", Value: flagged},
	)
	return StatusCompleted, nil
}
