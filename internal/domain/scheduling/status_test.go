package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

func TestNextForwardOnly(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
		want   Status
		err    string
	}{
		{StatusPending, ActionAccept, StatusAccepted, ""},
		{StatusAccepted, ActionStart, StatusInService, ""},
		{StatusInService, ActionComplete, StatusDone, ""},
		{StatusPending, ActionCancel, StatusCancelled, ""},
		{StatusInService, ActionCancel, StatusCancelled, ""},
		{StatusPending, ActionComplete, "", "invalid_state"},
		{StatusAccepted, ActionAccept, "", "invalid_state"},
		{StatusDone, ActionCancel, "", "invalid_state"},
		{StatusCancelled, ActionAccept, "", "invalid_state"},
		{StatusPending, Action("rewind"), "", "invalid_action"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.action), func(t *testing.T) {
			got, err := Next(tt.from, tt.action)
			if tt.err != "" {
				assert.True(t, httperr.IsBusiness(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveStatuses(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusInService.IsActive())
	assert.False(t, StatusDone.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.Equal(t, []string{"PENDING", "ACCEPTED", "IN_SERVICE"}, ActiveStatusStrings())
}

func TestApplyStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := &models.Reservation{Status: string(StatusPending)}

	require.NoError(t, Apply(r, ActionAccept, now))
	require.NotNil(t, r.AcceptedAt)

	require.NoError(t, Cancel(r, now))
	assert.Equal(t, string(StatusCancelled), r.Status)
	require.NotNil(t, r.CancelledAt)

	assert.Error(t, Complete(r, now))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("start")
	require.NoError(t, err)
	assert.Equal(t, ActionStart, a)

	_, err = ParseAction("claim")
	assert.Error(t, err)
}
