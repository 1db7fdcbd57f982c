package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
	"gorm.io/gorm"
)

type CustomerFilter struct {
	Status models.CustomerStatus
	// Search matches name, email or phone, case-insensitively.
	Search string
}

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

func (s *CustomerService) List(ctx context.Context, filter CustomerFilter) ([]models.Customer, error) {
	query := s.DB.WithContext(ctx).Order("name asc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Search)); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

func (s *CustomerService) Create(ctx context.Context, form models.CustomerForm) (*models.Customer, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	email := normalizeEmail(form.Email)
	if err := s.ensureEmailFree(s.DB.WithContext(ctx), email, ""); err != nil {
		return nil, err
	}

	status := form.Status
	if status == "" {
		status = models.CustomerActive
	}
	customer := models.Customer{
		UserID:  form.UserID,
		Name:    strings.TrimSpace(form.Name),
		Email:   email,
		Phone:   strings.TrimSpace(form.Phone),
		Address: strings.TrimSpace(form.Address),
		Status:  status,
	}
	if err := s.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, duplicateEmail(err)
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, upd models.CustomerUpdate) (*models.Customer, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.UserID != nil {
		updates["user_id"] = *upd.UserID
	}
	if upd.Name != nil {
		updates["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != customer.Email {
			if err := s.ensureEmailFree(s.DB.WithContext(ctx), email, id); err != nil {
				return nil, err
			}
			updates["email"] = email
		}
	}
	if upd.Phone != nil {
		updates["phone"] = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		updates["address"] = strings.TrimSpace(*upd.Address)
	}
	if upd.Visits != nil {
		updates["visits"] = *upd.Visits
	}
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(customer).Updates(updates).Error; err != nil {
			return nil, duplicateEmail(err)
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove a customer that still has reservations on record.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Reservation{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: customer has %d reservation(s)", apperrors.ErrConflict, count)
		}

		result := tx.Delete(&models.Customer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "customer", id)
		}
		return nil
	})
}

// resolveForBooking returns the customer record for a booking, keyed by email. An existing
// record gets the submitted contact details and is reactivated; userID is linked when the
// record has no account yet.
func (s *CustomerService) resolveForBooking(tx *gorm.DB, form models.BookingForm, userID *string) (*models.Customer, error) {
	email := normalizeEmail(form.Email)

	var customers []models.Customer
	if err := tx.Where("email = ?", email).Limit(1).Find(&customers).Error; err != nil {
		return nil, err
	}

	if len(customers) == 0 {
		customer := models.Customer{
			UserID: userID,
			Name:   strings.TrimSpace(form.Name),
			Email:  email,
			Phone:  strings.TrimSpace(form.Phone),
			Status: models.CustomerActive,
		}
		err := s.createInSavepoint(tx, &customer)
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Booking lain dengan email yang sama baru saja membuat customer; pakai record itu.
		if err := tx.Where("email = ?", email).Limit(1).Find(&customers).Error; err != nil {
			return nil, err
		}
		if len(customers) == 0 {
			return nil, err
		}
	}

	customer := customers[0]
	updates := map[string]interface{}{
		"name":   strings.TrimSpace(form.Name),
		"phone":  strings.TrimSpace(form.Phone),
		"status": models.CustomerActive,
	}
	if customer.UserID == nil && userID != nil {
		updates["user_id"] = *userID
	}
	if err := tx.Model(&customer).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// createInSavepoint inserts the customer so that a unique-index failure leaves tx usable;
// postgres aborts the whole transaction otherwise.
func (s *CustomerService) createInSavepoint(tx *gorm.DB, customer *models.Customer) error {
	const sp = "new_customer"
	if err := tx.SavePoint(sp).Error; err != nil {
		return err
	}
	if err := tx.Create(customer).Error; err != nil {
		if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func (s *CustomerService) recordVisit(tx *gorm.DB, id string) error {
	return tx.Model(&models.Customer{}).Where("id = ?", id).
		UpdateColumn("visits", gorm.Expr("visits + ?", 1)).Error
}

func (s *CustomerService) ensureEmailFree(db *gorm.DB, email, exceptID string) error {
	query := db.Model(&models.Customer{}).Where("email = ?", email)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrEmailInUse
	}
	return nil
}
