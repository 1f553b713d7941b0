package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           int
	AllowedOrigins []string
	Debug          bool

	RoundDuration        time.Duration
	IntermissionDuration time.Duration
	MaxBrushWidth        float64
	BrushCap             string
	ChatMaxLength        int
	NameMaxLength        int
	MaxPlayers           int
	MessageRate          float64
	MessageBurst         int
	MaxFrameBytes        int
	WordListPath         string

	ClientPort int
	InviteURL  string
}

var ErrInvalidValue = errors.New("invalid config value")

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		Host:                 r.str("HOST", ""),
		Port:                 r.integer("WS_SERVER_PORT", 3001),
		AllowedOrigins:       r.list("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Debug:                r.boolean("DEBUG", false),
		RoundDuration:        r.duration("ROUND_DURATION", 60*time.Second),
		IntermissionDuration: r.duration("INTERMISSION_DURATION", 3*time.Second),
		MaxBrushWidth:        r.float("MAX_BRUSH_WIDTH", 100),
		BrushCap:             r.str("BRUSH_CAP", "round"),
		ChatMaxLength:        r.integer("CHAT_MAX_LENGTH", 50),
		NameMaxLength:        r.integer("NAME_MAX_LENGTH", 20),
		MaxPlayers:           r.integer("MAX_PLAYERS", 16),
		MessageRate:          r.float("MESSAGE_RATE", 20),
		MessageBurst:         r.integer("MESSAGE_BURST", 40),
		MaxFrameBytes:        r.integer("MAX_FRAME_BYTES", 1<<20),
		WordListPath:         r.str("WORD_LIST_PATH", "data/customWordList.json"),
		ClientPort:           r.integer("CLIENT_PORT", 3000),
		InviteURL:            r.str("INVITE_URL", ""),
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: WS_SERVER_PORT must be between 1 and 65535", ErrInvalidValue)
	case c.RoundDuration < time.Second:
		return fmt.Errorf("%w: ROUND_DURATION must be at least 1s", ErrInvalidValue)
	case c.IntermissionDuration < 0:
		return fmt.Errorf("%w: INTERMISSION_DURATION cannot be negative", ErrInvalidValue)
	case math.IsNaN(c.MaxBrushWidth) || math.IsInf(c.MaxBrushWidth, 0) || c.MaxBrushWidth < 1:
		return fmt.Errorf("%w: MAX_BRUSH_WIDTH must be at least 1", ErrInvalidValue)
	case c.BrushCap == "":
		return fmt.Errorf("%w: BRUSH_CAP cannot be empty", ErrInvalidValue)
	case c.ChatMaxLength < 1:
		return fmt.Errorf("%w: CHAT_MAX_LENGTH must be at least 1", ErrInvalidValue)
	case c.NameMaxLength < 1:
		return fmt.Errorf("%w: NAME_MAX_LENGTH must be at least 1", ErrInvalidValue)
	case c.MaxPlayers < 0:
		return fmt.Errorf("%w: MAX_PLAYERS cannot be negative", ErrInvalidValue)
	case math.IsNaN(c.MessageRate) || math.IsInf(c.MessageRate, 0):
		return fmt.Errorf("%w: MESSAGE_RATE must be a finite number", ErrInvalidValue)
	case c.MessageRate <= 0 || c.MessageBurst < 1:
		return fmt.Errorf("%w: MESSAGE_RATE and MESSAGE_BURST must be positive", ErrInvalidValue)
	case c.MaxFrameBytes < 1024:
		return fmt.Errorf("%w: MAX_FRAME_BYTES must be at least 1024", ErrInvalidValue)
	}
	return nil
}

// reader keeps the first parse error so Load can report it after building the struct.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, value, err)
	}
}

func (r *reader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) list(key string, def []string) []string {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *reader) integer(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	// plain numbers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}
