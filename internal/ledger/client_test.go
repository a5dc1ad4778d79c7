package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	c, err := NewClient(Config{}, nil)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	// Must not panic or block.
	c.RecordHealthData(context.Background(), "u1", DataTypeMedication, map[string]string{"name": "aspirin"})
}

func TestEnabledConfigRequiresMnemonic(t *testing.T) {
	_, err := NewClient(Config{Address: "http://localhost:4001", AppID: 7}, nil)
	assert.Error(t, err)
}

func TestBuildAppArgs(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	args, err := buildAppArgs("u1", DataTypeAppointment, map[string]string{"title": "Checkup"}, now)
	require.NoError(t, err)
	require.Len(t, args, 4)

	assert.Equal(t, []byte("store_health_data"), args[0])
	assert.Equal(t, []byte(DataTypeAppointment), args[2])
	assert.Equal(t, []byte("2025-03-10T12:00:00Z"), args[3])

	decoded, err := base64.StdEncoding.DecodeString(string(args[1]))
	require.NoError(t, err)
	var wrapped struct {
		UserID string            `json:"user_id"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(decoded, &wrapped))
	assert.Equal(t, "u1", wrapped.UserID)
	assert.Equal(t, "Checkup", wrapped.Data["title"])
}
