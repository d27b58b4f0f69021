package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewTo(&buf, "prod")
	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Info().Str("grievance_id", "g-1").Msg("status updated")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "g-1", line["grievance_id"])
	assert.Contains(t, line, "time")

	buf.Reset()
	dev := NewTo(&buf, "dev")
	dev.Debug().Msg("shown")
	assert.NotZero(t, buf.Len())
}
