package unlock

import (
	"context"
	"time"

	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
)

// SweepJob periodically reclaims pending unlock records whose authorizer
// never answered, treating an unresponsive authorizer as a failed
// authorization. It is the system's only background task.
type SweepJob struct {
	service Service
}

// NewSweepJob creates a new stale-pending sweep job
func NewSweepJob(service Service) *SweepJob {
	return &SweepJob{service: service}
}

// Process executes one sweep pass
func (j *SweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	swept, err := j.service.SweepStalePending(ctx)
	duration := time.Since(start)

	if err != nil {
		log.Error("Stale pending sweep failed", "error", err, "duration", duration)
		return err
	}

	if swept > 0 {
		log.Info("Stale pending sweep completed", "sweptCount", swept, "duration", duration)
	}
	return nil
}
