package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nribeiro/voyago/internal/domain"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

// ---- MinuteOfDay -----------------------------------------------------------

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"garbage", 0, true},
	}
	for _, tc := range tests {
		got, err := MinuteOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

// ---- DetectConflicts -------------------------------------------------------

func TestDetectConflicts_OverlapReported(t *testing.T) {
	blocks := []TimeBlock{
		{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00", Label: "Museum", Type: domain.ItemActivity},
	}

	got, err := DetectConflicts("2024-06-01", "09:30", intPtr(60), blocks)

	require.NoError(t, err)
	assert.True(t, got.HasConflict)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, "Museum", got.Conflicts[0].Label)
}

func TestDetectConflicts_TouchingIsNotAConflict(t *testing.T) {
	blocks := []TimeBlock{
		{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00", Type: domain.ItemActivity},
	}

	got, err := DetectConflicts("2024-06-01", "10:00", intPtr(60), blocks)

	require.NoError(t, err)
	assert.False(t, got.HasConflict)
	assert.Empty(t, got.Conflicts)
}

func TestDetectConflicts_DifferentDateIgnored(t *testing.T) {
	blocks := []TimeBlock{
		{Date: "2024-06-02", StartTime: "09:00", EndTime: "10:00", Type: domain.ItemActivity},
	}

	got, err := DetectConflicts("2024-06-01", "09:30", nil, blocks)

	require.NoError(t, err)
	assert.False(t, got.HasConflict)
}

func TestDetectConflicts_DefaultDurationIs60(t *testing.T) {
	blocks := []TimeBlock{
		{Date: "2024-06-01", StartTime: "10:30", EndTime: "11:30", Type: domain.ItemCustom},
	}

	// 10:00 + default 60min = [10:00, 11:00) — overlaps [10:30, 11:30).
	got, err := DetectConflicts("2024-06-01", "10:00", nil, blocks)

	require.NoError(t, err)
	assert.True(t, got.HasConflict)
}

func TestDetectConflicts_MalformedTimeSlot(t *testing.T) {
	_, err := DetectConflicts("2024-06-01", "25:00", nil, nil)
	assert.Error(t, err)
}

// ---- BuildTimeBlocks -------------------------------------------------------

func TestBuildTimeBlocks_FlightSplitsAcrossMidnight(t *testing.T) {
	flights := []domain.Flight{{
		SearchResultBase: domain.SearchResultBase{ID: "f1"},
		Origin:           "GRU",
		Destination:      "LIS",
		Airline:          "TAP",
		FlightNumber:     "TP88",
		DepartureAt:      "2024-06-01T23:30",
		ArrivalAt:        "2024-06-02T01:00",
	}}

	blocks := BuildTimeBlocks(flights, nil, nil, nil, uuid.Nil)

	require.Len(t, blocks, 2)
	assert.Equal(t, "2024-06-01", blocks[0].Date)
	assert.Equal(t, "23:30", blocks[0].StartTime)
	assert.Equal(t, "23:59", blocks[0].EndTime)
	assert.Equal(t, "2024-06-02", blocks[1].Date)
	assert.Equal(t, "00:00", blocks[1].StartTime)
	assert.Equal(t, "01:00", blocks[1].EndTime)
}

func TestBuildTimeBlocks_SameDayFlightIsOneBlock(t *testing.T) {
	flights := []domain.Flight{{
		SearchResultBase: domain.SearchResultBase{ID: "f1"},
		Origin:           "GIG",
		Destination:      "SSA",
		DepartureAt:      "2024-06-01T08:00",
		ArrivalAt:        "2024-06-01T10:15",
	}}

	blocks := BuildTimeBlocks(flights, nil, nil, nil, uuid.Nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, "08:00", blocks[0].StartTime)
	assert.Equal(t, "10:15", blocks[0].EndTime)
	assert.Equal(t, domain.ItemFlight, blocks[0].Type)
}

func TestBuildTimeBlocks_CarRentalPickupAndDropoff(t *testing.T) {
	cars := []domain.CarRental{{
		SearchResultBase: domain.SearchResultBase{ID: "c1"},
		PickUpLocation:   "GIG Airport",
		DropOffLocation:  "Downtown",
		PickUpAt:         "2024-06-03T10:00",
		DropOffAt:        "2024-06-05T18:00",
	}}

	blocks := BuildTimeBlocks(nil, cars, nil, nil, uuid.Nil)

	require.Len(t, blocks, 2)
	assert.Equal(t, "10:00", blocks[0].StartTime)
	assert.Equal(t, "10:30", blocks[0].EndTime)
	assert.Equal(t, "Car pickup at GIG Airport", blocks[0].Label)
	assert.Equal(t, "18:00", blocks[1].StartTime)
	assert.Equal(t, "18:30", blocks[1].EndTime)
	assert.Equal(t, domain.ItemCarRental, blocks[1].Type)
}

func TestBuildTimeBlocks_CarRentalClampsAtEndOfDay(t *testing.T) {
	cars := []domain.CarRental{{
		SearchResultBase: domain.SearchResultBase{ID: "c1"},
		PickUpAt:         "2024-06-03T23:45",
		DropOffAt:        "2024-06-05T12:00",
	}}

	blocks := BuildTimeBlocks(nil, cars, nil, nil, uuid.Nil)

	require.Len(t, blocks, 2)
	assert.Equal(t, "23:59", blocks[0].EndTime)
}

func TestBuildTimeBlocks_TransportClampedNoSpillover(t *testing.T) {
	transports := []domain.Transport{{
		SearchResultBase: domain.SearchResultBase{ID: "t1"},
		Origin:           "Rio",
		Destination:      "São Paulo",
		DepartureAt:      "2024-06-01T22:00",
		ArrivalAt:        "2024-06-02T04:00",
	}}

	blocks := BuildTimeBlocks(nil, nil, transports, nil, uuid.Nil)

	// Unlike flights, transports never get an arrival-day block.
	require.Len(t, blocks, 1)
	assert.Equal(t, "22:00", blocks[0].StartTime)
	assert.Equal(t, "23:59", blocks[0].EndTime)
}

func TestBuildTimeBlocks_ItemsFilterRules(t *testing.T) {
	editing := uuid.New()
	items := []domain.ItineraryItem{
		{ID: uuid.New(), Type: domain.ItemActivity, Date: "2024-06-01", TimeSlot: strPtr("14:00"), Label: "Tour"},
		{ID: uuid.New(), Type: domain.ItemActivity, Date: "2024-06-01", TimeSlot: nil, Label: "All-day"},
		{ID: uuid.New(), Type: domain.ItemFlight, Date: "2024-06-01", TimeSlot: strPtr("08:00"), Label: "Dup of leg"},
		{ID: editing, Type: domain.ItemCustom, Date: "2024-06-01", TimeSlot: strPtr("16:00"), Label: "Being edited"},
	}

	blocks := BuildTimeBlocks(nil, nil, nil, items, editing)

	// Only the plain timed activity survives: all-day items, fixed-transit
	// types, and the excluded item are skipped.
	require.Len(t, blocks, 1)
	assert.Equal(t, "Tour", blocks[0].Label)
	assert.Equal(t, "14:00", blocks[0].StartTime)
	assert.Equal(t, "15:00", blocks[0].EndTime)
}

func TestBuildTimeBlocks_EndToEndConflict(t *testing.T) {
	flights := []domain.Flight{{
		SearchResultBase: domain.SearchResultBase{ID: "f1"},
		Origin:           "GRU",
		Destination:      "LIS",
		DepartureAt:      "2024-06-01T09:00",
		ArrivalAt:        "2024-06-01T10:00",
	}}

	blocks := BuildTimeBlocks(flights, nil, nil, nil, uuid.Nil)
	got, err := DetectConflicts("2024-06-01", "09:30", intPtr(60), blocks)

	require.NoError(t, err)
	assert.True(t, got.HasConflict)
}
