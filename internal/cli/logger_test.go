package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		enabled   slog.Level
		disabled  slog.Level
		wantStart string
	}{
		{name: "debug text", level: "debug", format: "text", enabled: slog.LevelDebug, disabled: slog.LevelDebug - 1, wantStart: "time="},
		{name: "warn json", level: "WARN", format: "json", enabled: slog.LevelWarn, disabled: slog.LevelInfo, wantStart: "{"},
		{name: "unknown level is info", level: "loud", format: "", enabled: slog.LevelInfo, disabled: slog.LevelDebug, wantStart: "time="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, tt.format, &buf)
			ctx := context.Background()

			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.disabled))

			logger.Log(ctx, tt.enabled, "hello")
			assert.Contains(t, buf.String(), "hello")
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(tt.wantStart)))
		})
	}
}

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{Save: true, OutputDir: "out", Storage: "mysql", Plain: true, EnvFile: "x.env"}
	cf := f.ToConfigFlags()
	assert.True(t, cf.Save)
	assert.Equal(t, "out", cf.OutputDir)
	assert.Equal(t, "mysql", cf.Storage)
	assert.True(t, cf.Plain)
}
