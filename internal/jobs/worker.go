package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/DHEENA0007/notsharing/internal/logger"

	"gorm.io/gorm"
)

type Worker struct {
	ID   string
	Repo *Repo
	DB   *gorm.DB
	Log  logger.Logger
}

// Local read model; avoids importing the notifications package from here.
type notificationRow struct {
	ID      uint64 `gorm:"column:id"`
	UserID  uint64 `gorm:"column:user_id"`
	Title   string `gorm:"column:title"`
	Message string `gorm:"column:message"`
}

func (notificationRow) TableName() string { return "notifications" }

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Error("worker claim failed", logger.Error(err))
				continue
			}
			if job == nil {
				continue
			}
			w.handle(job)
		}
	}
}

func (w *Worker) handle(job *Job) {
	switch job.Type {
	case "NOTIFICATION_DELIVERY":
		w.handleDelivery(job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

// handleDelivery is the hook where an email/push channel would plug in. For
// now delivery is an operational log line; the durable record is the
// notification row itself, which the recipient polls.
func (w *Worker) handleDelivery(job *Job) {
	type payload struct {
		NotificationID uint64 `json:"notification_id"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	var n notificationRow
	if err := w.DB.First(&n, p.NotificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = w.Repo.MarkDone(job.ID)
			return
		}
		w.retry(job, "db read error")
		return
	}

	w.Log.Info("notification delivered",
		logger.Uint64("user_id", n.UserID),
		logger.Uint64("notification_id", n.ID),
		logger.String("title", n.Title),
	)
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}
