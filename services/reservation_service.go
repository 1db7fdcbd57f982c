package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"github.com/yeremiapane/tablemate/validation"
	"gorm.io/gorm"
)

type ReservationFilter struct {
	Status     models.ReservationStatus
	CustomerID string
	UserID     string
	From       *time.Time
	To         *time.Time
}

// History is a user's reservations split the way the account page shows them.
type History struct {
	Upcoming []models.Reservation `json:"upcoming"`
	Past     []models.Reservation `json:"past"`
}

type ReservationService struct {
	DB            *gorm.DB
	Customers     *CustomerService
	Notifications *NotificationService
	Publisher     Publisher
	Rules         config.Booking
	Location      *time.Location
	Now           func() time.Time
}

func NewReservationService(db *gorm.DB, customers *CustomerService, notifications *NotificationService, publisher Publisher, rules config.Booking) *ReservationService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if customers == nil {
		customers = NewCustomerService(db)
	}
	if notifications == nil {
		notifications = NewNotificationService(db, publisher)
	}
	return &ReservationService{
		DB:            db,
		Customers:     customers,
		Notifications: notifications,
		Publisher:     publisher,
		Rules:         rules,
		Location:      rules.Location(),
		Now:           time.Now,
	}
}

func (s *ReservationService) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	query := s.preload(s.DB.WithContext(ctx)).Order("date_time asc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("date_time >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date_time < ?", filter.To.UTC())
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.preload(s.DB.WithContext(ctx)).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "reservation", id)
	}
	return &reservation, nil
}

// Mine returns the reservations booked under userID, upcoming first by date and past most recent first.
func (s *ReservationService) Mine(ctx context.Context, userID string) (*History, error) {
	var reservations []models.Reservation
	err := s.preload(s.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("date_time asc").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	history := &History{Upcoming: []models.Reservation{}, Past: []models.Reservation{}}
	now := s.Now()
	for _, r := range reservations {
		if r.Status.IsUpcoming() && r.DateTime.After(now) {
			history.Upcoming = append(history.Upcoming, r)
		} else {
			history.Past = append([]models.Reservation{r}, history.Past...)
		}
	}
	return history, nil
}

// Create books a table. The reservation always starts pending, whoever submits it.
// A nil actor books as guest.
func (s *ReservationService) Create(ctx context.Context, actor *Actor, form models.BookingForm) (*models.Reservation, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	if err := s.checkDateTime(form.DateTime); err != nil {
		return nil, err
	}

	userID := models.GuestUserID
	var owner *string
	if actor != nil && actor.UserID != "" {
		userID = actor.UserID
		owner = &actor.UserID
	}

	var reservation models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.buildItems(tx, form.Items)
		if err != nil {
			return err
		}
		customer, err := s.Customers.resolveForBooking(tx, form, owner)
		if err != nil {
			return err
		}

		reservation = models.Reservation{
			UserID:          userID,
			CustomerID:      customer.ID,
			DateTime:        form.DateTime.UTC(),
			PartySize:       form.PartySize,
			TableType:       form.TableType,
			SpecialRequests: strings.TrimSpace(form.SpecialRequests),
			Status:          models.StatusPending,
			Version:         uuid.NewString(),
			Items:           items,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}

	reservationsCreated.WithLabelValues(string(created.TableType)).Inc()
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation": created.ID,
		"user":        created.UserID,
		"party_size":  created.PartySize,
	}).Info("Reservation booked")

	s.Notifications.Notify(ctx, "New reservation",
		fmt.Sprintf("%s booked a %s table for %d on %s", customerName(created), created.TableType,
			created.PartySize, s.local(created.DateTime).Format("Mon 02 Jan 15:04")),
		&created.ID)
	s.Publisher.Publish(live.EventReservationCreated, created)
	return created, nil
}

// Update applies a partial edit. When upd.Version is set it must match the stored token.
// A status carried by the edit goes through the lifecycle rules.
func (s *ReservationService) Update(ctx context.Context, id string, upd models.ReservationUpdate) (*models.Reservation, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	if upd.DateTime != nil {
		if err := s.checkDateTime(*upd.DateTime); err != nil {
			return nil, err
		}
	}

	var from models.ReservationStatus
	statusChanged := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Reservation
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			return notFound(err, "reservation", id)
		}
		if upd.Version != nil && *upd.Version != current.Version {
			return apperrors.ErrStaleVersion
		}
		from = current.Status

		updates := map[string]interface{}{}
		if upd.DateTime != nil {
			updates["date_time"] = upd.DateTime.UTC()
			updates["reminder_sent_at"] = nil
		}
		if upd.PartySize != nil {
			updates["party_size"] = *upd.PartySize
		}
		if upd.TableType != nil {
			updates["table_type"] = *upd.TableType
		}
		if upd.SpecialRequests != nil {
			updates["special_requests"] = strings.TrimSpace(*upd.SpecialRequests)
		}
		if (len(updates) > 0 || upd.Items != nil) && current.Status.IsTerminal() {
			return apperrors.NewValidationError("status", fmt.Sprintf("a %s reservation can no longer be changed", current.Status))
		}
		if upd.Status != nil && *upd.Status != current.Status {
			if !models.CanTransition(current.Status, *upd.Status) {
				rejectedTransitions.WithLabelValues(string(current.Status), string(*upd.Status)).Inc()
				return invalidTransition(current.Status, *upd.Status)
			}
			updates["status"] = *upd.Status
			statusChanged = true
		}

		if err := s.bumpVersion(tx, &current, updates); err != nil {
			return err
		}

		if upd.Items != nil {
			items, err := s.buildItems(tx, *upd.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("reservation_id = ?", id).Delete(&models.ReservationItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].ReservationID = id
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
		}

		if statusChanged && *upd.Status == models.StatusCompleted {
			return s.Customers.recordVisit(tx, current.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusChanged {
		s.afterTransition(ctx, updated, from)
	} else {
		s.Publisher.Publish(live.EventReservationUpdated, updated)
	}
	return updated, nil
}

func (s *ReservationService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", id).Delete(&models.ReservationItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Reservation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "reservation", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.WithField("reservation", id).Info("Reservation deleted")
	s.Publisher.Publish(live.EventReservationDeleted, map[string]string{"id": id})
	return nil
}

func (s *ReservationService) Confirm(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.StatusConfirmed)
}

func (s *ReservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.StatusCancelled)
}

// Complete closes a confirmed reservation and counts the visit on its customer.
func (s *ReservationService) Complete(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.StatusCompleted)
}

// transition moves a reservation to target, touching only its status and version.
func (s *ReservationService) transition(ctx context.Context, id string, target models.ReservationStatus) (*models.Reservation, error) {
	var from models.ReservationStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Reservation
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			return notFound(err, "reservation", id)
		}
		from = current.Status

		if !models.CanTransition(current.Status, target) {
			rejectedTransitions.WithLabelValues(string(current.Status), string(target)).Inc()
			return invalidTransition(current.Status, target)
		}
		if err := s.bumpVersion(tx, &current, map[string]interface{}{"status": target}); err != nil {
			return err
		}
		if target == models.StatusCompleted {
			return s.Customers.recordVisit(tx, current.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, updated, from)
	return updated, nil
}

// bumpVersion writes updates together with a fresh version token, guarded by the token read
// in the same transaction. Zero affected rows means another writer got there first.
func (s *ReservationService) bumpVersion(tx *gorm.DB, current *models.Reservation, updates map[string]interface{}) error {
	updates["version"] = uuid.NewString()
	updates["updated_at"] = s.Now()

	result := tx.Model(&models.Reservation{}).
		Where("id = ? AND version = ?", current.ID, current.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrStaleVersion
	}
	return nil
}

func (s *ReservationService) afterTransition(ctx context.Context, r *models.Reservation, from models.ReservationStatus) {
	reservationTransitions.WithLabelValues(string(from), string(r.Status)).Inc()
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation": r.ID,
		"from":        from,
		"to":          r.Status,
	}).Info("Reservation status changed")

	s.Notifications.Notify(ctx, "Reservation "+string(r.Status),
		fmt.Sprintf("Reservation for %s on %s is now %s", customerName(r),
			s.local(r.DateTime).Format("Mon 02 Jan 15:04"), r.Status),
		&r.ID)
	s.Publisher.Publish(live.EventReservationStatus, r)
}

// buildItems checks pre-ordered menu items against the menu.
func (s *ReservationService) buildItems(tx *gorm.DB, forms []models.ItemForm) ([]models.ReservationItem, error) {
	items := make([]models.ReservationItem, 0, len(forms))
	for i, form := range forms {
		field := fmt.Sprintf("items[%d].menu_item_id", i)

		var menuItems []models.MenuItem
		if err := tx.Where("id = ?", form.MenuItemID).Limit(1).Find(&menuItems).Error; err != nil {
			return nil, err
		}
		if len(menuItems) == 0 {
			return nil, apperrors.NewValidationError(field, "unknown menu item")
		}
		if !menuItems[0].Available {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("%s is not available", menuItems[0].Name))
		}
		items = append(items, models.ReservationItem{MenuItemID: form.MenuItemID, Quantity: form.Quantity})
	}
	return items, nil
}

// checkDateTime requires a future time on the seating grid, evaluated in the restaurant's zone.
func (s *ReservationService) checkDateTime(t time.Time) error {
	if !t.After(s.Now()) {
		return apperrors.NewValidationError("date_time", "must be in the future")
	}
	if s.Rules.SlotMinutes <= 0 {
		return nil
	}

	local := s.local(t)
	minutes := local.Hour()*60 + local.Minute()
	open, last := s.Rules.OpenHour*60, s.Rules.LastSeatingHour*60
	if local.Second() != 0 || local.Nanosecond() != 0 || minutes%s.Rules.SlotMinutes != 0 || minutes < open || minutes > last {
		return apperrors.NewValidationError("date_time", fmt.Sprintf(
			"must be on a %d-minute slot between %02d:00 and %02d:00",
			s.Rules.SlotMinutes, s.Rules.OpenHour, s.Rules.LastSeatingHour))
	}
	return nil
}

func (s *ReservationService) local(t time.Time) time.Time {
	if s.Location == nil {
		return t
	}
	return t.In(s.Location)
}

func (s *ReservationService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Items.MenuItem")
}

func invalidTransition(from, to models.ReservationStatus) error {
	return fmt.Errorf("%w: cannot move a %s reservation to %s", apperrors.ErrInvalidTransition, from, to)
}

func customerName(r *models.Reservation) string {
	if r.Customer != nil && r.Customer.Name != "" {
		return r.Customer.Name
	}
	return "A guest"
}
