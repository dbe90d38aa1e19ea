// Package cardid derives a stable content identity for a card so that
// review history survives rows being reordered or decks being rewritten.
package cardid

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/deckard/internal/domain"
)

// Normalize joins the card's front and back after cleaning each side:
// trimmed, lowercased, line endings collapsed to LF. The newline join
// keeps "front" and "back" from running together.
func Normalize(card domain.Card) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimSpace(s)
		return strings.ReplaceAll(s, "\r\n", "\n")
	}
	return clean(card.Front) + "\n" + clean(card.Back)
}

// Hash returns the SHA-256 of the normalized card content as hex.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
