package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/apperrors"
)

func TestGuestBookingIsPending(t *testing.T) {
	s := newTestServer(t)

	r := s.book("", "guest@example.com")
	assert.Equal(t, "pending", r.Status)
	assert.Equal(t, "guest", r.UserID)
	assert.Equal(t, 4, r.PartySize)
	assert.Equal(t, "guest@example.com", r.Customer.Email)
	assert.NotEmpty(t, r.Version)
}

func TestBookingIgnoresSubmittedStatus(t *testing.T) {
	s := newTestServer(t)

	body := booking("sneaky@example.com")
	body["status"] = "confirmed"
	var r reservationResp
	w, _ := s.do(http.MethodPost, "/reservations", "", body, &r)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pending", r.Status)
}

func TestBookingWithRevokedTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Mia", "mia@example.com")

	w, _ := s.do(http.MethodPost, "/auth/logout", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := s.do(http.MethodPost, "/reservations", token, booking("mia@example.com"), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	assert.Equal(t, apperrors.CodeUnauthorized, env.Code)

	var list []reservationResp
	w, _ = s.do(http.MethodGet, "/reservations", s.adminToken(), nil, &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, list)
}

func TestBookingWithGarbageTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodPost, "/reservations", "not-a-jwt", booking("ana@example.com"), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingRejectsNinePlusPartySize(t *testing.T) {
	s := newTestServer(t)

	body := booking("big@example.com")
	body["party_size"] = "9+"
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	w, env := s.do(http.MethodPost, "/reservations", "", body, &data)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeValidation, env.Code)
	assert.Contains(t, data.Fields, "party_size")
}

func TestReservationLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	r := s.book("", "flow@example.com")

	var confirmed reservationResp
	w, _ := s.do(http.MethodPost, "/reservations/"+r.ID+"/confirm", admin, nil, &confirmed)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", confirmed.Status)

	var completed reservationResp
	w, _ = s.do(http.MethodPost, "/reservations/"+r.ID+"/complete", admin, nil, &completed)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, 1, completed.Customer.Visits)

	w, env := s.do(http.MethodPost, "/reservations/"+r.ID+"/cancel", admin, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidTransition, env.Code)

	w, env = s.do(http.MethodPost, "/reservations/"+r.ID+"/confirm", admin, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidTransition, env.Code)
}

func TestReservationAdminRoutesAreGated(t *testing.T) {
	s := newTestServer(t)
	user := s.register("Dewi", "dewi@example.com")
	r := s.book("", "gate@example.com")

	w, _ := s.do(http.MethodGet, "/reservations", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(http.MethodGet, "/reservations", user, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.CodeForbidden, env.Code)

	w, _ = s.do(http.MethodPost, "/reservations/"+r.ID+"/confirm", user, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var list []reservationResp
	w, _ = s.do(http.MethodGet, "/reservations?status=pending", s.adminToken(), nil, &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list, 1)

	w, _ = s.do(http.MethodGet, "/reservations?status=seated", s.adminToken(), nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerCanViewAndCancel(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("Eko", "eko@example.com")
	stranger := s.register("Fajar", "fajar@example.com")

	r := s.book(owner, "eko@example.com")
	assert.NotEqual(t, "guest", r.UserID)

	w, _ := s.do(http.MethodGet, "/reservations/"+r.ID, owner, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/reservations/"+r.ID, stranger, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/reservations/"+r.ID+"/cancel", stranger, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var cancelled reservationResp
	w, _ = s.do(http.MethodPost, "/reservations/"+r.ID+"/cancel", owner, nil, &cancelled)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", cancelled.Status)

	var history struct {
		Upcoming []reservationResp `json:"upcoming"`
		Past     []reservationResp `json:"past"`
	}
	w, _ = s.do(http.MethodGet, "/reservations/mine", owner, nil, &history)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, history.Upcoming)
	require.Len(t, history.Past, 1)
	assert.Equal(t, r.ID, history.Past[0].ID)
}

func TestUpdateWithStaleVersion(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	r := s.book("", "race@example.com")

	var updated reservationResp
	w, _ := s.do(http.MethodPut, "/reservations/"+r.ID, admin, map[string]interface{}{
		"party_size": 6, "version": r.Version,
	}, &updated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 6, updated.PartySize)

	w, env := s.do(http.MethodPut, "/reservations/"+r.ID, admin, map[string]interface{}{
		"party_size": 2, "version": r.Version,
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeStaleVersion, env.Code)
}

func TestDeleteUnknownReservation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.book("", "keep@example.com")

	w, env := s.do(http.MethodDelete, "/reservations/does-not-exist", admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeNotFound, env.Code)

	var list []reservationResp
	w, _ = s.do(http.MethodGet, "/reservations", admin, nil, &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list, 1)
}
