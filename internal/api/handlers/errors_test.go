package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondDomainError_StatusByKind(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		handled bool
	}{
		{name: "permission", err: domain.ErrNotReservationOwner, status: http.StatusForbidden, handled: true},
		{name: "not found", err: domain.NewError(domain.ErrNotFound, "x: missing"), status: http.StatusNotFound, handled: true},
		{name: "validation", err: domain.ErrMotiveRequired, status: http.StatusBadRequest, handled: true},
		{name: "plain conflict", err: domain.NewError(domain.ErrConflict, "x: overlap"), status: http.StatusConflict, handled: true},
		{name: "transition sentinel", err: fmt.Errorf("wrap: %w", domain.ErrInvalidStateTransition), status: http.StatusConflict, handled: true},
		{name: "infrastructure", err: domain.NewError(domain.ErrInfrastructure, "x: db down"), status: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.Equal(t, tt.handled, RespondDomainError(rec, tt.err))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRespondDomainError_ConflictDetails(t *testing.T) {
	start, err := types.NewTimeStringFromString("11:00")
	require.NoError(t, err)

	conflict := &domain.ConflictError{
		Scope:    domain.ConflictScopeClient,
		OwnerID:  7,
		Date:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Start:    start,
		Duration: 60,
		Conflicts: []*domain.Reservation{
			{ID: 41, StartTime: start, DurationMinutes: 30, Status: domain.StatusPending},
		},
	}

	rec := httptest.NewRecorder()
	require.True(t, RespondDomainError(rec, fmt.Errorf("create: %w", conflict)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "client_conflict", body["code"])
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "2025-06-10", details["date"])
	conflicts := details["conflicts"].([]interface{})
	require.Len(t, conflicts, 1)
	assert.Equal(t, float64(41), conflicts[0].(map[string]interface{})["id"])
}

func TestRespondDomainError_InvalidTransition(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &domain.InvalidStateTransitionError{Entity: "reservation", ID: 3, From: "cancelled", Action: "accept"}

	require.True(t, RespondDomainError(rec, err))
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "invalid_state_transition", body["code"])
	assert.Equal(t, "cancelled", body["details"].(map[string]interface{})["from"])
}

func TestRespondDomainError_NoAvailability(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &domain.NoAvailabilityError{
		ServiceID: 2,
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Summary:   domain.AvailabilitySummary{Workers: 3, NoCapacity: 1, Absent: 2},
	}

	require.True(t, RespondDomainError(rec, err))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	details := decodeError(t, rec)["details"].(map[string]interface{})
	assert.Equal(t, float64(3), details["workers"])
	assert.Equal(t, float64(2), details["absent"])
}

func TestRespondJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
