package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/database"
	"github.com/yeremiapane/tablemate/models"
	"gorm.io/gorm"
)

// Senin, 2 Maret 2026 siang
var testNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

var testRules = config.Booking{OpenHour: 17, LastSeatingHour: 22, SlotMinutes: 30, Timezone: "UTC"}

type published struct {
	Event string
	Data  interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Event: event, Data: data})
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event)
	}
	return names
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestReservationService(t *testing.T) (*ReservationService, *recordingPublisher) {
	t.Helper()
	db := newTestDB(t)
	pub := &recordingPublisher{}
	svc := NewReservationService(db, NewCustomerService(db), NewNotificationService(db, pub), pub, testRules)
	svc.Now = func() time.Time { return testNow }
	return svc, pub
}

func bookingForm(email string) models.BookingForm {
	return models.BookingForm{
		Name:      "Ana Wijaya",
		Email:     email,
		Phone:     "+62 812 0000 0000",
		DateTime:  testNow.Add(31 * time.Hour), // Selasa 19:00
		PartySize: 4,
		TableType: models.TableWindow,
	}
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, available bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: 12.5, Category: models.CategoryMain, Available: available}
	require.NoError(t, db.Create(&item).Error)
	return item
}
