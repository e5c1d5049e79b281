package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "json", false).Committed("Austin", "TX", "73301", 30.27, -97.74)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "location_selected", rec["msg"])
	assert.Equal(t, "73301", rec["zip"])
	assert.Equal(t, "TX", rec["state"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", false).LocateFailed(errors.New("denied"))
	assert.Contains(t, buf.String(), "msg=locate_failed")
	assert.Contains(t, buf.String(), "error=denied")
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "text", false).HTTPRequest("GET", "/healthz", 200, time.Millisecond, "127.0.0.1")
	assert.Empty(t, buf.String())

	New(&buf, "text", true).HTTPRequest("GET", "/healthz", 200, time.Millisecond, "127.0.0.1")
	assert.Contains(t, buf.String(), "msg=http_request")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().CatalogLoadFailed("file:missing.json", errors.New("boom"))
	})
}
