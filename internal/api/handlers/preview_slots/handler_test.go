package preview_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingUseCase struct {
	calls  int
	filter domain.SlotFilter
	err    error
}

func (u *recordingUseCase) Preview(_ context.Context, filter domain.SlotFilter) (*flexibleSlots.PreviewResponse, error) {
	u.calls++
	u.filter = filter
	if u.err != nil {
		return nil, u.err
	}
	return &flexibleSlots.PreviewResponse{Count: 7}, nil
}

func get(uc *recordingUseCase, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_AbsentAndEmptyListsDiffer(t *testing.T) {
	uc := &recordingUseCase{}
	rec := get(uc, "/api/v1/admin/slots/preview?dateFrom=2025-03-03&dateTo=2025-03-07&shifts=morning,evening")
	require.Equal(t, http.StatusOK, rec.Code)

	var body PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Count)
	assert.Equal(t, []string{"morning", "evening"}, uc.filter.Shifts)
	assert.Nil(t, uc.filter.RoomIDs, "absent roomIds must mean all rooms")
	assert.False(t, uc.filter.MatchesNothing())

	uc = &recordingUseCase{}
	rec = get(uc, "/api/v1/admin/slots/preview?dateFrom=2025-03-03&dateTo=2025-03-07&roomIds=")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, uc.filter.RoomIDs, "empty roomIds must mean no rooms")
	assert.True(t, uc.filter.MatchesNothing())
}

func TestHandle_RejectsBadFilter(t *testing.T) {
	uc := &recordingUseCase{}
	assert.Equal(t, http.StatusBadRequest, get(uc, "/api/v1/admin/slots/preview?dateTo=2025-03-07").Code)
	assert.Equal(t, http.StatusBadRequest, get(uc, "/api/v1/admin/slots/preview?dateFrom=2025-03-03&dateTo=2025-03-07&practitionerIds=42").Code)
	assert.Zero(t, uc.calls)

	uc = &recordingUseCase{err: fmt.Errorf("%w: dateFrom is after dateTo", flexibleSlots.ErrInvalidFilter)}
	assert.Equal(t, http.StatusBadRequest, get(uc, "/api/v1/admin/slots/preview?dateFrom=2025-03-07&dateTo=2025-03-03").Code)

	uc = &recordingUseCase{err: flexibleSlots.ErrInternal}
	assert.Equal(t, http.StatusInternalServerError, get(uc, "/api/v1/admin/slots/preview?dateFrom=2025-03-03&dateTo=2025-03-07").Code)
}
