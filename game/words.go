package game

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

//go:embed data/words.json
var bundledWords embed.FS

var ErrEmptyWordList = errors.New("word list is empty")

// LoadWords reads the custom list at path and falls back to the bundled list
// when the file is missing or holds no words.
func LoadWords(path string) ([]string, error) {
	if path != "" {
		words, err := readWordFile(path)
		switch {
		case err == nil:
			slog.Info("Loaded custom word list", "path", path, "count", len(words))
			return words, nil
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrEmptyWordList):
			slog.Info("Custom word list not found, using bundled list", "path", path)
		default:
			return nil, err
		}
	}

	data, err := bundledWords.ReadFile("data/words.json")
	if err != nil {
		return nil, fmt.Errorf("reading bundled word list: %w", err)
	}
	return parseWords(data, true)
}

func readWordFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseWords(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// parseWords accepts a JSON array of strings or one word per line. Blank
// entries and case-insensitive duplicates are dropped.
func parseWords(data []byte, isJSON bool) ([]string, error) {
	raw := []string{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing word list: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading word list: %w", err)
		}
	}

	seen := map[string]struct{}{}
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if w == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ErrEmptyWordList
	}
	return words, nil
}

// wordDeck hands out every word once before any repeats.
type wordDeck struct {
	words []string
	used  map[string]struct{}
	rng   *rand.Rand
}

func NewWordDeck(words []string, rng *rand.Rand) *wordDeck {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &wordDeck{
		words: words,
		used:  make(map[string]struct{}, len(words)),
		rng:   rng,
	}
}

func (d *wordDeck) Next(previous string) string {
	if len(d.words) == 0 {
		return ""
	}
	candidates := d.candidates(previous)
	if len(candidates) == 0 {
		d.Reset()
		candidates = d.candidates(previous)
	}
	if len(candidates) == 0 {
		// a single-word list has nothing but the previous word
		candidates = d.words
	}
	word := candidates[d.rng.IntN(len(candidates))]
	d.used[word] = struct{}{}
	return word
}

func (d *wordDeck) candidates(previous string) []string {
	out := make([]string, 0, len(d.words)-len(d.used))
	for _, w := range d.words {
		if _, used := d.used[w]; used || w == previous {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (d *wordDeck) Reset() {
	clear(d.used)
}
