package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayOfTruncatesTimeOfDay(t *testing.T) {
	late := time.Date(2024, 5, 10, 23, 50, 0, 0, time.UTC)
	day := DayOf(late)

	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Errorf("DayOf(%v) = %v, expected midnight", late, day)
	}
	if day.Year() != 2024 || day.Month() != time.May || day.Day() != 10 {
		t.Errorf("DayOf(%v) = %v, expected 2024-05-10", late, day)
	}
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same day different times",
			a:    time.Date(2024, 5, 10, 23, 50, 0, 0, time.UTC),
			b:    time.Date(2024, 5, 10, 0, 1, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "adjacent days",
			a:    time.Date(2024, 5, 10, 23, 50, 0, 0, time.UTC),
			b:    time.Date(2024, 5, 11, 0, 1, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "identical instants",
			a:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDay(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestContentItemScheduledForOmittedWhenNil(t *testing.T) {
	item := ContentItem{
		ID:        "item-1",
		Title:     "History of Rome",
		Status:    StatusPending,
		CreatedAt: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Failed to marshal ContentItem: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if _, present := result["scheduled_for"]; present {
		t.Errorf("Expected scheduled_for to be omitted for unscheduled item, got %v", result["scheduled_for"])
	}
	if result["status"] != "pending" {
		t.Errorf("Expected status field to be 'pending', got %v", result["status"])
	}
}

func TestDropEventCancelled(t *testing.T) {
	evt := DropEvent{SourceContainerID: ContainerQueue, ItemID: "item-1"}
	if !evt.Cancelled() {
		t.Error("event with empty destination should be cancelled")
	}

	evt.DestinationContainerID = ContainerCalendar
	if evt.Cancelled() {
		t.Error("event with destination should not be cancelled")
	}
}

func TestDropEventSameContainer(t *testing.T) {
	evt := DropEvent{
		SourceContainerID:      ContainerQueue,
		DestinationContainerID: ContainerQueue,
		ItemID:                 "item-1",
	}
	if !evt.SameContainer() {
		t.Error("queue to queue should be a same-container drop")
	}
}
