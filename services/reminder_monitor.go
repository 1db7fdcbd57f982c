package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
)

// ReminderMonitor polls for confirmed reservations that start within Lead and raises one
// reminder notification for each.
type ReminderMonitor struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Publisher     Publisher
	Interval      time.Duration
	Lead          time.Duration
	Location      *time.Location
	Now           func() time.Time
	StopChan      chan struct{}

	stopOnce sync.Once
}

func NewReminderMonitor(db *gorm.DB, notifications *NotificationService, publisher Publisher, interval, lead time.Duration) *ReminderMonitor {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderMonitor{
		DB:            db,
		Notifications: notifications,
		Publisher:     publisher,
		Interval:      interval,
		Lead:          lead,
		Location:      time.Local,
		Now:           time.Now,
		StopChan:      make(chan struct{}),
	}
}

func (rm *ReminderMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := rm.checkUpcoming(context.Background()); err != nil {
					utils.ErrorLogger.Errorf("Reminder check failed: %v", err)
				}
			case <-rm.StopChan:
				return
			}
		}
	}()
}

// Stop ends the polling loop. Calling it again is a no-op.
func (rm *ReminderMonitor) Stop() {
	rm.stopOnce.Do(func() { close(rm.StopChan) })
}

// checkUpcoming stamps and announces every due reservation, returning how many it handled.
func (rm *ReminderMonitor) checkUpcoming(ctx context.Context) (int, error) {
	now := rm.Now()

	var due []models.Reservation
	err := rm.DB.WithContext(ctx).Preload("Customer").
		Where("status = ? AND reminder_sent_at IS NULL", models.StatusConfirmed).
		Where("date_time > ? AND date_time <= ?", now.UTC(), now.Add(rm.Lead).UTC()).
		Order("date_time asc").
		Limit(100).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		r := &due[i]

		// Tandai dulu supaya instance lain tidak mengirim ulang
		result := rm.DB.WithContext(ctx).Model(&models.Reservation{}).
			Where("id = ? AND reminder_sent_at IS NULL", r.ID).
			UpdateColumn("reminder_sent_at", now)
		if result.Error != nil {
			return sent, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		r.ReminderSentAt = &now

		rm.Notifications.Notify(ctx, "Upcoming reservation",
			fmt.Sprintf("%s, party of %d, %s table at %s", customerName(r), r.PartySize, r.TableType,
				r.DateTime.In(rm.Location).Format("15:04")),
			&r.ID)
		rm.Publisher.Publish(live.EventReminder, r)
		remindersSent.Inc()
		sent++
	}

	if sent > 0 {
		utils.InfoLogger.Printf("Sent %d reservation reminder(s)", sent)
	}
	return sent, nil
}
