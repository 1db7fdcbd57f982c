package services

import (
	"context"
	"strconv"

	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB        *gorm.DB
	Publisher Publisher
}

func NewNotificationService(db *gorm.DB, publisher Publisher) *NotificationService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &NotificationService{DB: db, Publisher: publisher}
}

// Notify stores a notification and pushes it to connected admin consoles. Failures are
// logged only; a missing notification never fails the operation that raised it.
func (s *NotificationService) Notify(ctx context.Context, title, message string, reservationID *string) *models.Notification {
	n := models.Notification{Title: title, Message: message, ReservationID: reservationID}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		utils.ErrorLogger.Errorf("Failed to store notification %q: %v", title, err)
		return nil
	}
	s.Publisher.Publish(live.EventNotification, n)
	return &n
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := s.DB.WithContext(ctx).Order("created_at desc, id desc")
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	var n models.Notification
	if err := s.DB.WithContext(ctx).First(&n, id).Error; err != nil {
		return notFound(err, "notification", strconv.FormatUint(uint64(id), 10))
	}
	if n.Read {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.DB.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true).Error
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "notification", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}
