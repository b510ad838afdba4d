package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		" Warn ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetup_WritesConsoleAndFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var console, file bytes.Buffer
	l := Setup(Options{Level: "info", Console: &console, File: &file, NoColor: true})

	l.Debug().Msg("hidden")
	l.Info().Str("weapon", "ir").Msg("fire")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "fire")
	assert.Contains(t, console.String(), "weapon=ir")
	assert.Contains(t, file.String(), "weapon=ir")
}

func TestSetup_FrameHook(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var out bytes.Buffer
	frame := uint64(41)
	l := Setup(Options{Level: "debug", Console: &out, NoColor: true, Frame: func() uint64 { return frame }})

	frame++
	l.Info().Msg("lock")
	assert.Contains(t, out.String(), "frame=42")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "air.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	l := Setup(Options{Level: "info", Console: &bytes.Buffer{}, File: f})
	l.Info().Msg("started")
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
