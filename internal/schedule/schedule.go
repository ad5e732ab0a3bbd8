// Package schedule builds calendar time blocks from a trip's booked transit
// legs and timed itinerary items, and detects overlaps when a new item is
// placed on the calendar.
//
// Times are minute-of-day integers derived from 24-hour "HH:MM" strings.
// Known simplification: apart from flights (which split into two blocks when
// arrival lands on a later date), no cross-midnight wrap is modeled; end
// times clamp to 23:59 within a single day.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/domain"
)

// DefaultItemDurationMinutes is assumed for timed items without an explicit
// duration.
const DefaultItemDurationMinutes = 60

// carRentalBlockMinutes is the fixed length of pickup and drop-off blocks.
const carRentalBlockMinutes = 30

// endOfDay is the last representable minute of a day (23:59).
const endOfDay = 23*60 + 59

// TimeBlock is one occupied span on a single calendar date.
type TimeBlock struct {
	// Date is an ISO 8601 date (YYYY-MM-DD).
	Date string `json:"date"`
	// StartTime and EndTime are 24-hour "HH:MM" strings.
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	// Label is user-facing text for conflict messaging.
	Label string                   `json:"label"`
	Type  domain.ItineraryItemType `json:"type"`
}

// ConflictResult reports whether a candidate slot collides with existing
// blocks and which ones, for user-facing messaging.
type ConflictResult struct {
	HasConflict bool        `json:"hasConflict"`
	Conflicts   []TimeBlock `json:"conflicts"`
}

// MinuteOfDay parses a 24-hour "HH:MM" string into minutes since midnight.
func MinuteOfDay(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("schedule: malformed time %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("schedule: time %q out of range", hhmm)
	}
	return h*60 + m, nil
}

// formatMinute renders minutes-since-midnight back to "HH:MM".
func formatMinute(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// datetimeLayouts are tried in order when splitting a result datetime.
// Provider snapshots carry RFC3339; fixtures may omit zone or seconds.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// splitDatetime breaks an ISO datetime into its date and "HH:MM" parts.
// Malformed input yields ok=false and the caller skips the leg.
func splitDatetime(iso string) (date, hhmm string, ok bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02"), t.Format("15:04"), true
		}
	}
	return "", "", false
}

// addMinutesClamped advances an "HH:MM" time, never past 23:59.
func addMinutesClamped(hhmm string, minutes int) string {
	start, err := MinuteOfDay(hhmm)
	if err != nil {
		return hhmm
	}
	end := start + minutes
	if end > endOfDay {
		end = endOfDay
	}
	return formatMinute(end)
}

// BuildTimeBlocks flattens a trip's fixed transit legs and timed itinerary
// items into date-scoped blocks:
//
//   - each flight contributes its departure-to-arrival span, split into two
//     blocks when arrival lands on a later date (first ends 23:59, second
//     starts 00:00);
//   - each car rental contributes fixed 30-minute pickup and drop-off blocks;
//   - each transport leg contributes one block, clamped to 23:59 when it
//     crosses midnight;
//   - each itinerary item with a time slot contributes a 60-minute block,
//     unless its type is itself a fixed-transit category (those are already
//     covered by the legs above).
//
// excludeItemID skips one itinerary item, so an item being edited does not
// conflict with itself. Pass uuid.Nil to exclude nothing.
func BuildTimeBlocks(
	flights []domain.Flight,
	carRentals []domain.CarRental,
	transports []domain.Transport,
	items []domain.ItineraryItem,
	excludeItemID uuid.UUID,
) []TimeBlock {
	var blocks []TimeBlock

	for _, f := range flights {
		depDate, depTime, okDep := splitDatetime(f.DepartureAt)
		arrDate, arrTime, okArr := splitDatetime(f.ArrivalAt)
		if !okDep || !okArr {
			continue
		}

		end := arrTime
		if depDate != arrDate {
			end = formatMinute(endOfDay)
		}
		blocks = append(blocks, TimeBlock{
			Date:      depDate,
			StartTime: depTime,
			EndTime:   end,
			Label:     fmt.Sprintf("Flight %s→%s (%s %s)", f.Origin, f.Destination, f.Airline, f.FlightNumber),
			Type:      domain.ItemFlight,
		})

		if depDate != arrDate {
			blocks = append(blocks, TimeBlock{
				Date:      arrDate,
				StartTime: "00:00",
				EndTime:   arrTime,
				Label:     fmt.Sprintf("Flight %s→%s (arrival)", f.Origin, f.Destination),
				Type:      domain.ItemFlight,
			})
		}
	}

	for _, c := range carRentals {
		if pickDate, pickTime, ok := splitDatetime(c.PickUpAt); ok {
			blocks = append(blocks, TimeBlock{
				Date:      pickDate,
				StartTime: pickTime,
				EndTime:   addMinutesClamped(pickTime, carRentalBlockMinutes),
				Label:     "Car pickup at " + c.PickUpLocation,
				Type:      domain.ItemCarRental,
			})
		}
		if dropDate, dropTime, ok := splitDatetime(c.DropOffAt); ok {
			blocks = append(blocks, TimeBlock{
				Date:      dropDate,
				StartTime: dropTime,
				EndTime:   addMinutesClamped(dropTime, carRentalBlockMinutes),
				Label:     "Car drop-off at " + c.DropOffLocation,
				Type:      domain.ItemCarRental,
			})
		}
	}

	for _, tr := range transports {
		depDate, depTime, okDep := splitDatetime(tr.DepartureAt)
		arrDate, arrTime, okArr := splitDatetime(tr.ArrivalAt)
		if !okDep || !okArr {
			continue
		}
		end := arrTime
		if depDate != arrDate {
			end = formatMinute(endOfDay)
		}
		blocks = append(blocks, TimeBlock{
			Date:      depDate,
			StartTime: depTime,
			EndTime:   end,
			Label:     fmt.Sprintf("Transport %s→%s", tr.Origin, tr.Destination),
			Type:      domain.ItemTransport,
		})
	}

	for _, item := range items {
		if excludeItemID != uuid.Nil && item.ID == excludeItemID {
			continue
		}
		if item.TimeSlot == nil {
			continue
		}
		if item.Type.FixedTransit() {
			continue
		}
		blocks = append(blocks, TimeBlock{
			Date:      item.Date,
			StartTime: *item.TimeSlot,
			EndTime:   addMinutesClamped(*item.TimeSlot, DefaultItemDurationMinutes),
			Label:     item.Label,
			Type:      item.Type,
		})
	}

	return blocks
}

// DetectConflicts checks whether a candidate item at date/timeSlot with the
// given duration (nil means 60 minutes) overlaps any existing block on the
// same date. Intervals are half-open: [start, end) — blocks that merely
// touch do not conflict.
func DetectConflicts(date, timeSlot string, durationMinutes *int, blocks []TimeBlock) (ConflictResult, error) {
	duration := DefaultItemDurationMinutes
	if durationMinutes != nil {
		duration = *durationMinutes
	}

	newStart, err := MinuteOfDay(timeSlot)
	if err != nil {
		return ConflictResult{}, err
	}
	newEnd := newStart + duration

	var conflicts []TimeBlock
	for _, block := range blocks {
		if block.Date != date {
			continue
		}
		blockStart, err := MinuteOfDay(block.StartTime)
		if err != nil {
			continue
		}
		blockEnd, err := MinuteOfDay(block.EndTime)
		if err != nil {
			continue
		}
		if newStart < blockEnd && newEnd > blockStart {
			conflicts = append(conflicts, block)
		}
	}

	return ConflictResult{HasConflict: len(conflicts) > 0, Conflicts: conflicts}, nil
}
