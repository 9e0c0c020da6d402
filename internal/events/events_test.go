package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEventJSONShape(t *testing.T) {
	ev := BuildEvent{
		RunID:       "run-1",
		Outcome:     "success",
		Documents:   12,
		DurationMS:  350,
		CompletedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "success", decoded["outcome"])
	assert.Equal(t, float64(12), decoded["documents"])
	assert.NotContains(t, decoded, "detail") // omitted when empty
}

func TestNewPublisherUnreachableServer(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1", "sitebuilder.builds", nil)
	assert.Error(t, err)
}
