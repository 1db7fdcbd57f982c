package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
	"gorm.io/gorm"
)

type MenuFilter struct {
	Category      models.MenuCategory
	AvailableOnly bool
}

type MenuService struct {
	DB *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db}
}

func (s *MenuService) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := s.DB.WithContext(ctx).Order("category asc, name asc")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &item, nil
}

func (s *MenuService) Create(ctx context.Context, form models.MenuItemForm) (*models.MenuItem, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	available := true
	if form.Available != nil {
		available = *form.Available
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       form.Price,
		Image:       strings.TrimSpace(form.Image),
		Category:    form.Category,
		Available:   available,
	}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MenuService) Update(ctx context.Context, id string, upd models.MenuItemUpdate) (*models.MenuItem, error) {
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		updates["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.Image != nil {
		updates["image"] = strings.TrimSpace(*upd.Image)
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.Available != nil {
		updates["available"] = *upd.Available
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove an item that reservations have pre-ordered; mark it unavailable instead.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ReservationItem{}).Where("menu_item_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: menu item is part of %d reservation order(s)", apperrors.ErrConflict, count)
		}

		result := tx.Delete(&models.MenuItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "menu item", id)
		}
		return nil
	})
}
