package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/particle-field/internal/config"
)

func TestInitializeConsole(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "particle-field"}, zapcore.AddSync(&buf))

	GetLogger().Debug("particle field rebuilt", zap.Int("particles", 40))

	out := buf.String()
	assert.Contains(t, out, "particle-field.")
	assert.Contains(t, out, colorMagenta+"DEBUG"+colorReset)
	assert.Contains(t, out, "particle field rebuilt")
	assert.Contains(t, out, `"particles": 40`)
}

func TestInitializeJSONRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	GetLogger().Info("dropped")
	GetLogger().Warn("kept", zap.String("reason", "resize"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "resize", entry["reason"])
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("hello")
	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestInitializeWritesLogFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "field.log")
	var console bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&console))

	GetLogger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger())
}
