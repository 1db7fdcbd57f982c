package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// GetAllReservations -> ?status=&customer_id=&user_id=&from=&to=
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	filter := services.ReservationFilter{
		Status:     models.ReservationStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
		UserID:     c.Query("user_id"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.RespondAppError(c, apperrors.NewValidationError("status", `has unsupported value "`+string(filter.Status)+`"`))
		return
	}

	var err error
	if filter.From, err = queryTime(c, "from", rc.Reservations.Location); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if filter.To, err = queryTime(c, "to", rc.Reservations.Location); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	reservations, err := rc.Reservations.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID terbuka untuk admin dan pemilik reservasi
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	reservation, ok := rc.ownedReservation(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// MyReservations returns the caller's history split into upcoming and past.
func (rc *ReservationController) MyReservations(c *gin.Context) {
	user, _ := middlewares.CurrentUser(c)
	history, err := rc.Reservations.Mine(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My reservations", history)
}

// CreateReservation is public; a logged-in caller becomes the owner, everyone else books as guest.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var form models.BookingForm
	if !bindJSON(c, &form) {
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), middlewares.CurrentActor(c), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var form models.ReservationUpdate
	if !bindJSON(c, &form) {
		return
	}

	reservation, err := rc.Reservations.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	if err := rc.Reservations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", nil)
}

func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	rc.changeStatus(c, "Reservation confirmed", rc.Reservations.Confirm)
}

func (rc *ReservationController) CompleteReservation(c *gin.Context) {
	rc.changeStatus(c, "Reservation completed", rc.Reservations.Complete)
}

// CancelReservation may also be called by the reservation's owner.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	if _, ok := rc.ownedReservation(c); !ok {
		return
	}
	rc.changeStatus(c, "Reservation cancelled", rc.Reservations.Cancel)
}

func (rc *ReservationController) changeStatus(c *gin.Context, message string, action func(context.Context, string) (*models.Reservation, error)) {
	reservation, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, reservation)
}

// ownedReservation loads :id and checks the caller may see it, responding itself on failure.
func (rc *ReservationController) ownedReservation(c *gin.Context) (*models.Reservation, bool) {
	reservation, err := rc.Reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}

	actor := middlewares.CurrentActor(c)
	if actor == nil {
		utils.RespondAppError(c, apperrors.ErrUnauthorized)
		return nil, false
	}
	if !actor.IsAdmin() && reservation.UserID != actor.UserID {
		utils.RespondAppError(c, fmt.Errorf("%w: reservation belongs to another account", apperrors.ErrForbidden))
		return nil, false
	}
	return reservation, true
}
