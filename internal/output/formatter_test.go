package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(func() { SetWriter(nil) })
	return &buf
}

func TestJSON(t *testing.T) {
	buf := capture(t)

	type report struct {
		Domain string `json:"domain"`
		Status Status `json:"status"`
	}
	require.NoError(t, JSON(report{Domain: "example.com", Status: StatusWarning}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "example.com", got["domain"])
	assert.Equal(t, "warning", got["status"])
	assert.Contains(t, buf.String(), "\n  \"domain\"", "output is indented")
}

func TestTable(t *testing.T) {
	t.Run("aligns columns", func(t *testing.T) {
		buf := capture(t)

		Table([]string{"KEY", "CERTIFICATE"}, [][]string{
			{"example.com", "present"},
			{"a.io", "missing"},
		})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "KEY          CERTIFICATE", lines[0])
		assert.Equal(t, "-----------  -----------", lines[1])
		assert.Equal(t, "example.com  present", lines[2])
		assert.Equal(t, "a.io         missing", lines[3])
	})

	t.Run("short rows are padded", func(t *testing.T) {
		buf := capture(t)

		Table([]string{"A", "B"}, [][]string{{"x"}})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "x", lines[2])
	})

	t.Run("no headers prints nothing", func(t *testing.T) {
		buf := capture(t)
		Table(nil, [][]string{{"x"}})
		assert.Empty(t, buf.String())
	})
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string, ...interface{})
		prefix string
	}{
		{"success", Success, "✓ "},
		{"error", Error, "✗ "},
		{"warn", Warn, "! "},
		{"info", Info, "→ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t)
			tt.fn("cert for %s", "example.com")
			assert.Equal(t, tt.prefix+"cert for example.com\n", buf.String())
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		status Status
		prefix string
	}{
		{StatusOK, "✓ "},
		{StatusWarning, "! "},
		{StatusError, "✗ "},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			buf := capture(t)
			Check(tt.status, "docker installed")
			assert.Equal(t, tt.prefix+"docker installed\n", buf.String())
		})
	}
}

func TestPrint(t *testing.T) {
	buf := capture(t)
	Print("Checking %d domains", 2)
	assert.Equal(t, "Checking 2 domains\n", buf.String())
}
