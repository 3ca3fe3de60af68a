package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ferry-admin/internal/api/dto"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(dto.RegisterRequest{
		Name:                 "Jane Smith",
		Email:                "not-an-email",
		Password:             "short",
		PasswordConfirmation: "different",
	})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	fields := apperrors.FieldErrors(err)
	assert.Equal(t, "The email must be a valid email address.", fields["email"])
	assert.Equal(t, "The password must be at least 8 characters.", fields["password"])
	assert.Contains(t, fields, "password_confirmation")
	assert.NotContains(t, fields, "name")
}

func TestStructAcceptsValidPayload(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(dto.VesselCreateRequest{Name: "Aegean Star", Type: "ferry", Capacity: 450}))
	assert.NoError(t, v.Struct(dto.BookingCreateRequest{UserID: 3, RouteID: 7, Date: "2026-07-01", Time: "08:30", Passengers: 2}))
}

func TestOptionalFieldsValidateOnlyWhenProvided(t *testing.T) {
	v := New()

	var absent dto.VesselUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.NoError(t, v.Struct(absent))

	var cleared dto.VesselUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &cleared))
	assert.NoError(t, v.Struct(cleared))

	var invalid dto.VesselUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"capacity":-5,"type":"submarine"}`), &invalid))
	fields := apperrors.FieldErrors(v.Struct(invalid))
	assert.Equal(t, "The capacity must be greater than 0.", fields["capacity"])
	assert.Equal(t, "The selected type is invalid.", fields["type"])
}

func TestCrossCheckMergesFieldErrors(t *testing.T) {
	v := New()
	var req dto.UserUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":null,"password":"longenough","password_confirmation":"nope"}`), &req))

	fields := apperrors.FieldErrors(v.Struct(req))
	assert.Equal(t, "The name field cannot be cleared.", fields["name"])
	assert.Contains(t, fields, "password_confirmation")
}

func TestRouteDestinationMustDiffer(t *testing.T) {
	v := New()
	fields := apperrors.FieldErrors(v.Struct(dto.RouteCreateRequest{VesselID: 1, Origin: "Piraeus", Destination: "Piraeus", Price: 35}))
	assert.Equal(t, "The destination and origin must be different.", fields["destination"])
}

func TestBookingDateFormat(t *testing.T) {
	v := New()
	fields := apperrors.FieldErrors(v.Struct(dto.BookingCreateRequest{UserID: 1, RouteID: 1, Date: "01/07/2026", Passengers: 1}))
	assert.Equal(t, "The date does not match the format 2006-01-02.", fields["date"])
}

func TestConfirmationPhrase(t *testing.T) {
	assert.Equal(t, "Jane Smith/delete", ConfirmationPhrase("Jane Smith"))

	assert.NoError(t, CheckConfirmation("Jane Smith", "Jane Smith/delete"))
	for _, typed := range []string{"jane smith/delete", "Jane Smith/delete ", "Jane Smith", "", " Jane Smith/delete"} {
		err := CheckConfirmation("Jane Smith", typed)
		require.Error(t, err, "typed %q", typed)
		assert.Contains(t, apperrors.FieldErrors(err), "confirmation")
	}
}
