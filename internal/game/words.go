package game

import (
	"errors"
	"strings"

	_ "embed"
)

//go:embed words.txt
var embeddedWords string

// ErrWordSupplyExhausted is returned when a supply cannot cover a full board.
var ErrWordSupplyExhausted = errors.New("word supply exhausted")

// WordSupply hands out words for board generation. Selection and ordering
// policy belong to the supply, not to the generator.
type WordSupply interface {
	Draw(n int) ([]string, error)
}

// StaticSupply serves words from a fixed list in list order. Repeated draws
// return the same prefix, so consecutive matches against the same supply
// reuse the same 25 words; only the color layout differs between matches.
type StaticSupply struct {
	words []string
}

// NewStaticSupply builds a supply from the embedded word list.
func NewStaticSupply() *StaticSupply {
	return NewStaticSupplyFrom(embeddedWords)
}

// NewStaticSupplyFrom builds a supply from newline-separated words.
// Blank lines are skipped.
func NewStaticSupplyFrom(raw string) *StaticSupply {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		w := strings.TrimSpace(line)
		if w != "" {
			words = append(words, w)
		}
	}
	return &StaticSupply{words: words}
}

func (s *StaticSupply) Draw(n int) ([]string, error) {
	if n > len(s.words) {
		return nil, ErrWordSupplyExhausted
	}
	out := make([]string, n)
	copy(out, s.words[:n])
	return out, nil
}
