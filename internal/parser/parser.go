// Package parser extracts flashcards from plain-text note files.
//
// The format is line oriented: a card starts at a "Q:" line, its answer
// at the following "A:" line, and an optional "C:" line attaches context.
// Blocks may span multiple lines and cards are separated by "---" or by
// the next "Q:" line.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/deckard/internal/domain"
)

const (
	frontPrefix   = "Q:"
	backPrefix    = "A:"
	contextPrefix = "C:"

	separator = "---"
)

// ContextColumn is the deck column that receives a card's "C:" block.
const ContextColumn = "context"

type section int

const (
	seeking section = iota
	inFront
	inBack
	inContext
)

// ParseFile extracts all cards from the note file at path.
func ParseFile(path string) ([]domain.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse extracts all cards from r. Cards without both a question and an
// answer are dropped. Scheduling fields on the returned cards are zero;
// the caller stamps them when adding the cards to a deck.
func Parse(r io.Reader) ([]domain.Card, error) {
	var (
		cards []domain.Card
		card  domain.Card
		block []string
		where = seeking
	)

	closeBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		block = nil
		switch where {
		case inFront:
			card.Front = content
		case inBack:
			card.Back = content
		case inContext:
			if content != "" {
				card.SetExtra(ContextColumn, content)
			}
		}
	}

	closeCard := func() {
		closeBlock()
		if card.Front != "" && card.Back != "" {
			cards = append(cards, card)
		}
		card = domain.Card{}
		where = seeking
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == separator {
			closeCard()
			continue
		}

		switch {
		case strings.HasPrefix(line, frontPrefix):
			// A new question always starts a new card.
			if where != seeking {
				closeCard()
			}
			where = inFront
			block = append(block, strings.TrimPrefix(line[len(frontPrefix):], " "))
		case strings.HasPrefix(line, backPrefix):
			closeBlock()
			where = inBack
			block = append(block, strings.TrimPrefix(line[len(backPrefix):], " "))
		case strings.HasPrefix(line, contextPrefix):
			closeBlock()
			where = inContext
			block = append(block, strings.TrimPrefix(line[len(contextPrefix):], " "))
		default:
			if where != seeking {
				block = append(block, line)
			}
		}
	}
	closeCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
