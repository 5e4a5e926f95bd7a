package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.ShiftStatus
		contains string
	}{
		{domain.ShiftSubmitted, "Submitted"},
		{domain.ShiftValidated, "Validated"},
		{domain.ShiftRejected, "Rejected"},
		{domain.ShiftStatus("odd"), "odd"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Contains(t, StatusPill(tt.status), tt.contains)
		})
	}
}

func TestLockBadge(t *testing.T) {
	assert.Contains(t, LockBadge(true), "locked")
	assert.Contains(t, LockBadge(false), "open")
}

func TestTruncID(t *testing.T) {
	id := "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	got := TruncID(id)
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")

	assert.Contains(t, TruncID("short"), "short")
}

func TestOptionalFloat(t *testing.T) {
	v := 2.5
	assert.Equal(t, "2.5", OptionalFloat(&v))
	assert.Contains(t, OptionalFloat(nil), "--")
}

func TestShiftDate(t *testing.T) {
	assert.Equal(t, "2025-03-04", ShiftDate(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("TEST", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

func TestRenderBoxWithoutTitle(t *testing.T) {
	result := RenderBox("", "just content")
	assert.Contains(t, result, "just content")
	assert.Contains(t, result, "╭")
}
