package services

import (
	"context"
	"time"

	"github.com/yeremiapane/tablemate/models"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TodayReservations   int64 `json:"today_reservations"`
	PendingReservations int64 `json:"pending_reservations"`
	TotalCustomers      int64 `json:"total_customers"`
	MenuItems           int64 `json:"menu_items"`
	UnreadNotifications int64 `json:"unread_notifications"`
}

type DayCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DashboardService struct {
	DB       *gorm.DB
	Location *time.Location
	Now      func() time.Time
}

func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{DB: db, Location: loc, Now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	start := s.startOfDay(s.Now())

	var stats DashboardStats
	if err := db.Model(&models.Reservation{}).
		Where("date_time >= ? AND date_time < ?", start.UTC(), start.AddDate(0, 0, 1).UTC()).
		Where("status <> ?", models.StatusCancelled).
		Count(&stats.TodayReservations).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Reservation{}).Where("status = ?", models.StatusPending).Count(&stats.PendingReservations).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MenuItem{}).Count(&stats.MenuItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Upcoming lists the next open reservations from now on.
func (s *DashboardService) Upcoming(ctx context.Context, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.WithContext(ctx).Preload("Customer").
		Where("status IN ?", []models.ReservationStatus{models.StatusPending, models.StatusConfirmed}).
		Where("date_time >= ?", s.Now().UTC()).
		Order("date_time asc").
		Limit(clampLimit(limit)).
		Find(&reservations).Error
	return reservations, err
}

// Recent lists the latest bookings by creation time.
func (s *DashboardService) Recent(ctx context.Context, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.WithContext(ctx).Preload("Customer").
		Order("created_at desc").
		Limit(clampLimit(limit)).
		Find(&reservations).Error
	return reservations, err
}

// Weekly counts reservations per day for the seven days ending today, oldest first.
// Cancelled reservations are left out.
func (s *DashboardService) Weekly(ctx context.Context) ([]DayCount, error) {
	today := s.startOfDay(s.Now())
	start := today.AddDate(0, 0, -6)
	end := today.AddDate(0, 0, 1)

	var reservations []models.Reservation
	err := s.DB.WithContext(ctx).
		Select("id", "date_time").
		Where("date_time >= ? AND date_time < ?", start.UTC(), end.UTC()).
		Where("status <> ?", models.StatusCancelled).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	days := make([]DayCount, 7)
	index := make(map[string]int, 7)
	for i := range days {
		day := start.AddDate(0, 0, i)
		days[i] = DayCount{Date: day.Format("2006-01-02"), Label: day.Format("Mon")}
		index[days[i].Date] = i
	}
	for _, r := range reservations {
		if i, ok := index[r.DateTime.In(s.Location).Format("2006-01-02")]; ok {
			days[i].Count++
		}
	}
	return days, nil
}

func (s *DashboardService) startOfDay(t time.Time) time.Time {
	local := t.In(s.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	if limit > 100 {
		return 100
	}
	return limit
}
