package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Status
	}{
		{"lowercase pending", "pending", StatusPending},
		{"lowercase ongoing", "ongoing", StatusOngoing},
		{"lowercase completed", "completed", StatusCompleted},
		{"legacy PENDING", "PENDING", StatusPending},
		{"legacy ONGOING", "ONGOING", StatusOngoing},
		{"legacy COMPLETE", "COMPLETE", StatusCompleted},
		{"legacy COMPLETED", "COMPLETED", StatusCompleted},
		{"unknown passes through", "archived", Status("archived")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusOngoing.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to ongoing", StatusPending, StatusOngoing, true},
		{"ongoing to completed", StatusOngoing, StatusCompleted, true},
		{"pending to completed skips a step", StatusPending, StatusCompleted, false},
		{"completed is terminal", StatusCompleted, StatusOngoing, false},
		{"no going back", StatusOngoing, StatusPending, false},
		{"completed to pending", StatusCompleted, StatusPending, false},
		{"same status is not a transition", StatusOngoing, StatusOngoing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}
