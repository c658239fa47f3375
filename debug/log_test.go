package debug

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("seq", "bar=%d chord=%s", 3, "D3 F3 A3")

	out := buf.String()
	assert.Contains(t, out, `msg="bar=3 chord=D3 F3 A3"`)
	assert.Contains(t, out, "cat=seq")
	assert.Contains(t, out, "run="+RunID())
}

func TestLogWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	Disable()
	buf.Reset()

	Log("seq", "nothing")
	Error("seq", errors.New("boom"), "nothing either")
	assert.Empty(t, buf.String())
	assert.False(t, Enabled())
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Error("driver", errors.New("port closed"), "run aborted")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `err="port closed"`)
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "tick", "every test")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "every test"))
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	require.NoError(t, Enable(path))
	Log("file", "hello file")
	Disable()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}
