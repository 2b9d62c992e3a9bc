// Package words maintains the sensitive-word list: a flat UTF-8 text file
// with one word per line. Matching is case-insensitive substring
// containment. The list is reloaded for every transcription run so edits
// take effect on the next run without restarting.
package words

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultPath is where the word list lives relative to the working directory.
var DefaultPath = filepath.Join("data", "sensible_words.txt")

// Set is a lowercase word set.
type Set map[string]struct{}

// Load reads the word list at path. A missing or unreadable file yields an
// empty set rather than an error: with no words, nothing is sensitive, and
// transcription proceeds.
func Load(path string, logger *zap.Logger) Set {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("sensitive words file unavailable, using empty set", zap.String("path", path), zap.Error(err))
		return Set{}
	}
	defer f.Close()

	set := Set{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("error while reading sensitive words file", zap.String("path", path), zap.Error(err))
	}

	logger.Debug("loaded sensitive words", zap.String("path", path), zap.Int("count", len(set)))
	return set
}

// ContainsAny reports whether any word in the set occurs as a substring of
// the given text, compared case-insensitively.
func (s Set) ContainsAny(text string) bool {
	if len(s) == 0 {
		return false
	}

	normalized := strings.ToLower(text)
	for word := range s {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

// Words returns the set's entries sorted alphabetically.
func (s Set) Words() []string {
	out := make([]string, 0, len(s))
	for word := range s {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// Add appends a word to the list file, deduplicating case-insensitively.
func Add(path, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return fmt.Errorf("word must not be empty")
	}

	set := Load(path, nil)
	if _, exists := set[word]; exists {
		return fmt.Errorf("word %q is already in the list", word)
	}
	set[word] = struct{}{}

	return save(path, set)
}

// Remove deletes a word from the list file.
func Remove(path, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))

	set := Load(path, nil)
	if _, exists := set[word]; !exists {
		return fmt.Errorf("word %q is not in the list", word)
	}
	delete(set, word)

	return save(path, set)
}

func save(path string, set Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create word list directory: %w", err)
	}

	var sb strings.Builder
	for _, word := range set.Words() {
		sb.WriteString(word)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write word list %s: %w", path, err)
	}
	return nil
}
