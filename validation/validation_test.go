package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
)

func validBooking() models.BookingForm {
	return models.BookingForm{
		Name:      "Jane Smith",
		Email:     "jane@example.com",
		Phone:     "555-987-6543",
		DateTime:  time.Now().Add(48 * time.Hour),
		PartySize: 4,
		TableType: models.TableWindow,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestBookingFormValid(t *testing.T) {
	assert.NoError(t, Struct(validBooking()))
}

func TestBookingFormPartySizeBounds(t *testing.T) {
	form := validBooking()
	form.PartySize = 21
	assert.Equal(t, "must be at most 20", fieldsOf(t, Struct(form))["party_size"])

	form.PartySize = 0
	assert.Equal(t, "is required", fieldsOf(t, Struct(form))["party_size"])
}

func TestBookingFormRejectsUnknownTableType(t *testing.T) {
	form := validBooking()
	form.TableType = "rooftop"
	fields := fieldsOf(t, Struct(form))
	assert.Contains(t, fields["table_type"], "rooftop")
}

func TestBookingFormItemsAreValidated(t *testing.T) {
	form := validBooking()
	form.Items = []models.ItemForm{{MenuItemID: "x", Quantity: 0}}
	fields := fieldsOf(t, Struct(form))
	assert.Contains(t, fields, "items[0].quantity")
}

func TestNinePlusSentinelIsRejected(t *testing.T) {
	var form models.BookingForm
	err := json.Unmarshal([]byte(`{"party_size":"9+"}`), &form)
	require.Error(t, err)

	fields := fieldsOf(t, FromBindError(err))
	assert.Equal(t, "must be a whole number", fields["party_size"])
}

func TestMenuPriceCents(t *testing.T) {
	form := models.MenuItemForm{Name: "Soup", Price: 12.345, Category: models.CategoryStarter}
	assert.Equal(t, "must have at most 2 decimal places", fieldsOf(t, Struct(form))["price"])

	form.Price = 12.35
	assert.NoError(t, Struct(form))

	form.Price = -1
	assert.Contains(t, fieldsOf(t, Struct(form))["price"], "greater than or equal")
}

func TestPartialUpdatesSkipNilFields(t *testing.T) {
	assert.NoError(t, Struct(models.ReservationUpdate{}))

	bad := models.ReservationStatus("archived")
	fields := fieldsOf(t, Struct(models.ReservationUpdate{Status: &bad}))
	assert.Contains(t, fields, "status")

	role := models.Role("owner")
	assert.Contains(t, fieldsOf(t, Struct(models.UserUpdate{Role: &role})), "role")
}
