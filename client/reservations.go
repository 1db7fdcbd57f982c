package client

import (
	"context"
	"net/http"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
)

// History is the caller's own reservations.
type History struct {
	Upcoming []models.Reservation `json:"upcoming"`
	Past     []models.Reservation `json:"past"`
}

type Reservations struct {
	c *Client
}

func Status(status models.ReservationStatus) Filter {
	return Param("status", string(status))
}

// List accepts Status(...) and Param for customer_id, user_id, from and to.
func (r *Reservations) List(ctx context.Context, filters ...Filter) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.c.do(ctx, http.MethodGet, "/reservations", query(filters), nil, &reservations)
	return reservations, err
}

func (r *Reservations) Get(ctx context.Context, id string) (*models.Reservation, error) {
	path, err := resourcePath("/reservations", id)
	if err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := r.c.do(ctx, http.MethodGet, path, nil, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Create books a table; the reservation always comes back pending.
func (r *Reservations) Create(ctx context.Context, form models.BookingForm) (*models.Reservation, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := r.c.do(ctx, http.MethodPost, "/reservations", nil, form, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update sends a partial edit. Set upd.Version to the token read with the reservation;
// a stale token fails with apperrors.ErrStaleVersion.
func (r *Reservations) Update(ctx context.Context, id string, upd models.ReservationUpdate) (*models.Reservation, error) {
	path, err := resourcePath("/reservations", id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := r.c.do(ctx, http.MethodPut, path, nil, upd, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *Reservations) Delete(ctx context.Context, id string) error {
	path, err := resourcePath("/reservations", id)
	if err != nil {
		return err
	}
	return r.c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (r *Reservations) Confirm(ctx context.Context, id string) (*models.Reservation, error) {
	return r.action(ctx, id, "confirm")
}

func (r *Reservations) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	return r.action(ctx, id, "cancel")
}

func (r *Reservations) Complete(ctx context.Context, id string) (*models.Reservation, error) {
	return r.action(ctx, id, "complete")
}

func (r *Reservations) Mine(ctx context.Context) (*History, error) {
	var history History
	if err := r.c.do(ctx, http.MethodGet, "/reservations/mine", nil, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *Reservations) action(ctx context.Context, id, name string) (*models.Reservation, error) {
	path, err := resourcePath("/reservations", id)
	if err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := r.c.do(ctx, http.MethodPost, path+"/"+name, nil, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}
