package notifications

import (
	"context"
	"fmt"

	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/jobs"

	"gorm.io/gorm"
)

// Dispatcher creates and serves per-user notifications. Creation is always
// synchronous with its triggering event: Notify runs on the caller's handle,
// so the notice commits or rolls back together with the comment/fulfillment
// that caused it. Only delivery (the enqueued job) is asynchronous.
type Dispatcher struct {
	DB   *gorm.DB
	Jobs *jobs.Repo // optional; nil disables delivery jobs
}

// Notify stores one notice for recipientID. One-shot: callers decide when to
// fire, there is no dedup and no retry of creation.
func (d *Dispatcher) Notify(tx *gorm.DB, recipientID uint64, title, message string) error {
	n := Notification{UserID: recipientID, Title: title, Message: message}
	if err := tx.Create(&n).Error; err != nil {
		return err
	}
	if d.Jobs != nil {
		return d.Jobs.EnqueueDelivery(tx, recipientID, n.ID)
	}
	return nil
}

func (d *Dispatcher) List(ctx context.Context, userID uint64) ([]Notification, error) {
	var rows []Notification
	err := d.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	return rows, err
}

func (d *Dispatcher) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := d.DB.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? and is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flips one notification, scoped to the caller. A foreign or absent
// id is a not-found, never a silent no-op.
func (d *Dispatcher) MarkRead(ctx context.Context, id, userID uint64) error {
	res := d.DB.WithContext(ctx).Model(&Notification{}).
		Where("id = ? and user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, userID uint64) error {
	return d.DB.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? and is_read = ?", userID, false).
		Update("is_read", true).Error
}
