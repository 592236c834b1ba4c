package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"github.com/skovsen/D2D_ScanLogic/internal/config"
	"github.com/skovsen/D2D_ScanLogic/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchInput = `3
4 0 0
5 0 1
16 -1 -1
0 0 0 0
1
0 100 5000 0 10
0 0 0 0
0 0 0 0
1
0 700 8812 0 10
0 0
1
16 800 9000 0 0
0
`

func testConfig() config.Config {
	return config.Config{LogLevel: "debug", Policy: agentlogic.DefaultParams()}
}

func TestRun_PlaysUntilEOF(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(), strings.NewReader(matchInput), &out, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "MOVE 700 "), lines[0])
	assert.Contains(t, lines[1], "escaping")
	assert.True(t, strings.HasPrefix(lines[1], "MOVE 500 "), lines[1])
}

func TestRun_WithRecorderAndTelemetry(t *testing.T) {
	cfg := testConfig()
	cfg.Recorder = config.RecorderConfig{Enabled: true, Driver: "sqlite", DSN: "file::memory:"}
	cfg.Telemetry = config.TelemetryConfig{Enabled: true, Interval: time.Hour}

	var out, diag bytes.Buffer
	err := run(context.Background(), cfg, strings.NewReader(matchInput), &out, &diag, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

	// metrics are flushed when the match ends
	assert.Contains(t, diag.String(), "bot.turns")
	assert.Contains(t, diag.String(), "bot.decisions")
	assert.NotContains(t, out.String(), "bot.turns")
}

func TestRun_RecorderThatCannotStartAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg := testConfig()
	cfg.Recorder = config.RecorderConfig{Enabled: true, Driver: "sqlite", DSN: path + "?_pragma=query_only(1)"}

	err := run(context.Background(), cfg, strings.NewReader(matchInput), &bytes.Buffer{}, &bytes.Buffer{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}

func TestRun_MalformedTurnAborts(t *testing.T) {
	input := "1\n4 0 0\n0\nzero\n"
	err := run(context.Background(), testConfig(), strings.NewReader(input), &bytes.Buffer{}, &bytes.Buffer{}, zerolog.Nop())
	assert.ErrorIs(t, err, protocol.ErrMalformed)
}

func TestRun_NewDroneMidMatchAborts(t *testing.T) {
	input := `1
4 0 0
0 0 0 0
1
0 100 5000 0 10
0 0 0 0
0 0 0 0
2
0 700 5000 0 10
2 5000 5000 0 10
0 0 0 0
`
	err := run(context.Background(), testConfig(), strings.NewReader(input), &bytes.Buffer{}, &bytes.Buffer{}, zerolog.Nop())
	assert.ErrorIs(t, err, agentlogic.ErrUnknownDrone)
}
