package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, ":3001", cfg.Address())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.RoundDuration)
	assert.Equal(t, 3*time.Second, cfg.IntermissionDuration)
	assert.Equal(t, 100.0, cfg.MaxBrushWidth)
	assert.Equal(t, "round", cfg.BrushCap)
	assert.Equal(t, 50, cfg.ChatMaxLength)
	assert.Equal(t, 20, cfg.NameMaxLength)
	assert.Equal(t, 1<<20, cfg.MaxFrameBytes)
	assert.False(t, cfg.Debug)
}

func TestFromLookup_Overrides(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"HOST":                  "0.0.0.0",
		"WS_SERVER_PORT":        "4000",
		"ALLOWED_ORIGINS":       "http://a.test, http://b.test ,",
		"DEBUG":                 "true",
		"ROUND_DURATION":        "90",
		"INTERMISSION_DURATION": "1500ms",
		"MAX_BRUSH_WIDTH":       "40",
		"MAX_FRAME_BYTES":       "262144",
	}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4000", cfg.Address())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.RoundDuration)
	assert.Equal(t, 1500*time.Millisecond, cfg.IntermissionDuration)
	assert.Equal(t, 40.0, cfg.MaxBrushWidth)
	assert.Equal(t, 262144, cfg.MaxFrameBytes)
}

func TestFromLookup_Invalid(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "port not a number", env: map[string]string{"WS_SERVER_PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"WS_SERVER_PORT": "70000"}},
		{name: "bad duration", env: map[string]string{"ROUND_DURATION": "soon"}},
		{name: "round too short", env: map[string]string{"ROUND_DURATION": "10ms"}},
		{name: "brush too small", env: map[string]string{"MAX_BRUSH_WIDTH": "0.5"}},
		{name: "brush NaN", env: map[string]string{"MAX_BRUSH_WIDTH": "NaN"}},
		{name: "brush infinite", env: map[string]string{"MAX_BRUSH_WIDTH": "+Inf"}},
		{name: "rate NaN", env: map[string]string{"MESSAGE_RATE": "NaN"}},
		{name: "frame limit too small", env: map[string]string{"MAX_FRAME_BYTES": "512"}},
		{name: "bad bool", env: map[string]string{"DEBUG": "maybe"}},
		{name: "zero chat length", env: map[string]string{"CHAT_MAX_LENGTH": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromLookup(lookupFrom(tc.env))
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}
