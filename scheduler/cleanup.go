// Package scheduler runs the periodic maintenance jobs. The only job today is
// the selfie sweep: pending candidates that never matched are dropped after 24
// hours so stale uploads stop competing for matches.
package scheduler

import (
	"log"
	"time"

	"github.com/tessera-app/api-go/models"
	"gorm.io/gorm"
)

// SelfieTTL is how long an unmatched candidate stays eligible.
const SelfieTTL = 24 * time.Hour

type CleanupJob struct {
	db       *gorm.DB
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// CleanupSelfiesOnce deletes every candidate older than SelfieTTL that is
// still pending. Matched rows are kept regardless of age. Idempotent; safe to
// call from tests with an arbitrary clock.
func CleanupSelfiesOnce(db *gorm.DB, now time.Time) (int64, error) {
	cutoff := now.Add(-SelfieTTL)

	result := db.Where("created_at < ? AND status = ?", cutoff, models.SelfieStatusPending).
		Delete(&models.SelfieCandidate{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// StartSelfieCleanup launches the sweep on a fixed interval. Failures are
// logged and retried on the next tick.
func StartSelfieCleanup(db *gorm.DB, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = time.Hour
	}

	job := &CleanupJob{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go job.run()

	log.Printf("Selfie cleanup scheduler started, runs every %s", interval)
	return job
}

func (j *CleanupJob) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := CleanupSelfiesOnce(j.db, time.Now())
			if err != nil {
				log.Printf("Error cleaning up old selfie candidates: %v", err)
				continue
			}
			log.Printf("Cleaned up %d old selfie candidates", deleted)
		case <-j.stop:
			return
		}
	}
}

// Stop shuts the job down and waits for the current sweep to finish.
func (j *CleanupJob) Stop() {
	close(j.stop)
	<-j.done
}
