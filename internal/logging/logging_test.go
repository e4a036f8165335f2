package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, time.UTC).With("database")

	log.Info("db_connect", Fields{"attempt": 1})
	log.Error("db_connect_failed", errors.New("refused"), Fields{"attempt": 2})
	log.Critical("admin_seed_missing", nil, nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "db_connect", lines[0]["event"])
	assert.Equal(t, "database", lines[0]["component"])
	assert.Equal(t, float64(1), lines[0]["attempt"])
	assert.NotEmpty(t, lines[0]["ts"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "refused", lines[1]["error_message"])

	assert.Equal(t, "critical", lines[2]["level"])
	_, hasErr := lines[2]["error_message"]
	assert.False(t, hasErr)
}

func TestLogger_DoesNotMutateCallerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, nil)

	f := Fields{"k": "v"}
	log.Info("evt", f)

	assert.Equal(t, Fields{"k": "v"}, f)
}
