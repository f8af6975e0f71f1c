package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRequest_ToDomainFilter(t *testing.T) {
	room := "11111111-1111-1111-1111-111111111111"

	req := FilterRequest{
		DateRange: []string{"2025-03-03", "2025-03-07"},
		Shifts:    []string{},
		RoomIDs:   []string{room},
	}
	filter, err := req.ToDomainFilter()
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", filter.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2025-03-07", filter.DateTo.Format("2006-01-02"))
	assert.NotNil(t, filter.Shifts)
	assert.Empty(t, filter.Shifts)
	require.Len(t, filter.RoomIDs, 1)
	assert.Equal(t, room, filter.RoomIDs[0].String())
	assert.Nil(t, filter.PractitionerIDs)
	assert.True(t, filter.MatchesNothing())
}

func TestFilterRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  FilterRequest
	}{
		{name: "missing range", req: FilterRequest{}},
		{name: "single date", req: FilterRequest{DateRange: []string{"2025-03-03"}}},
		{name: "bad date", req: FilterRequest{DateRange: []string{"03.03.2025", "2025-03-07"}}},
		{name: "bad room id", req: FilterRequest{DateRange: []string{"2025-03-03", "2025-03-07"}, RoomIDs: []string{"room-1"}}},
		{name: "bad practitioner id", req: FilterRequest{DateRange: []string{"2025-03-03", "2025-03-07"}, PractitionerIDs: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToDomainFilter()
			assert.Error(t, err)
		})
	}
}

func TestFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?dateFrom=2025-03-03&dateTo=2025-03-04&roomIds=", nil)
	req, err := FilterFromQuery(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-04"}, req.DateRange)
	assert.Nil(t, req.Shifts)
	assert.NotNil(t, req.RoomIDs)
	assert.Empty(t, req.RoomIDs)

	_, err = FilterFromQuery(httptest.NewRequest(http.MethodGet, "/x?dateFrom=2025-03-03", nil))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
