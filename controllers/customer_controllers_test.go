package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/apperrors"
)

type customerResp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Visits int    `json:"visits"`
	Status string `json:"status"`
}

func TestCustomerManagement(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	var created customerResp
	w, _ := s.do(http.MethodPost, "/customers", admin, map[string]string{
		"name": "Indah", "email": "indah@example.com", "phone": "0812",
	}, &created)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "active", created.Status)

	w, env := s.do(http.MethodPost, "/customers", admin, map[string]string{
		"name": "Other", "email": "INDAH@example.com", "phone": "0813",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeEmailInUse, env.Code)

	var updated customerResp
	w, _ = s.do(http.MethodPut, "/customers/"+created.ID, admin, map[string]interface{}{"status": "inactive"}, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inactive", updated.Status)

	var inactive []customerResp
	w, _ = s.do(http.MethodGet, "/customers?status=inactive", admin, nil, &inactive)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, inactive, 1)

	w, _ = s.do(http.MethodDelete, "/customers/"+created.ID, admin, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/customers/"+created.ID, admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingCustomerCannotBeDeleted(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	r := s.book("", "booked@example.com")

	w, env := s.do(http.MethodDelete, "/customers/"+r.Customer.ID, admin, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeConflict, env.Code)
}
