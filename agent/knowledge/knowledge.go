// Package knowledge holds the canned-answer table used for direct replies.
// The table is loaded once at startup and read-only afterwards, so
// concurrent lookups need no synchronization.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	contractx "github.com/supportline/supportline/agent/contract"
)

//go:embed knowledge.yaml
var defaultDocument []byte

// Entry pairs a topic with its canned answer. Keywords drive best-match
// selection against the user's text.
type Entry struct {
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

type document struct {
	Entries []Entry `yaml:"entries"`
}

// Base is the immutable canned-answer table.
type Base struct {
	entries []Entry
}

// Load parses the embedded knowledge document. A malformed document is the
// one startup-time failure this core propagates; it must fail before any
// turn is processed.
func Load() (*Base, error) {
	return Parse(defaultDocument)
}

// Parse builds a Base from a YAML document, validating every entry.
func Parse(raw []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrBadKnowledgeBase, err)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", contractx.ErrBadKnowledgeBase)
	}

	for i, e := range doc.Entries {
		if strings.TrimSpace(e.Topic) == "" {
			return nil, fmt.Errorf("%w: entry %d has no topic", contractx.ErrBadKnowledgeBase, i)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("%w: entry %q has no answer", contractx.ErrBadKnowledgeBase, e.Topic)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("%w: entry %q has no keywords", contractx.ErrBadKnowledgeBase, e.Topic)
		}
	}

	return &Base{entries: doc.Entries}, nil
}

// Answer returns the canned answer of the entry whose keywords overlap the
// text the most. ok is false when nothing matches at all.
func (b *Base) Answer(text string) (string, bool) {
	lowered := strings.ToLower(text)

	best := -1
	bestScore := 0
	for i, e := range b.entries {
		score := 0
		for _, kw := range e.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return "", false
	}
	return b.entries[best].Answer, true
}

// Topics lists the known topics, mainly for logging and tests.
func (b *Base) Topics() []string {
	topics := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		topics = append(topics, e.Topic)
	}
	return topics
}
