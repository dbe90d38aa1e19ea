package parser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantCards int
		wantFront string
		wantBack  string
		wantCtx   string
	}{
		{
			name:      "simple question and answer",
			input:     "Q: What is the capital of France?\nA: Paris",
			wantCards: 1,
			wantFront: "What is the capital of France?",
			wantBack:  "Paris",
		},
		{
			name:      "question, answer and context",
			input:     "Q: What is 1+1?\nA: 2\nC: Basic arithmetic",
			wantCards: 1,
			wantFront: "What is 1+1?",
			wantBack:  "2",
			wantCtx:   "Basic arithmetic",
		},
		{
			name: "multiline answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			wantCards: 1,
			wantFront: "What are the primary colors?",
			wantBack:  "Red\nBlue\nYellow",
		},
		{
			name: "two cards split by the next question",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			wantCards: 2,
		},
		{
			name: "two cards split by a separator",
			input: `
Q: First question
A: First answer
---
Q: Second question
A: Second answer
`,
			wantCards: 2,
		},
		{
			name:      "no cards, just prose",
			input:     "This is a file with no questions in it.",
			wantCards: 0,
		},
		{
			name:      "prefixes with no space",
			input:     "Q:Question\nA:Answer",
			wantCards: 1,
			wantFront: "Question",
			wantBack:  "Answer",
		},
		{
			name:      "question without an answer is dropped",
			input:     "Q: Orphaned question\n---\nQ: Kept\nA: Yes",
			wantCards: 1,
			wantFront: "Kept",
			wantBack:  "Yes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}
			if len(cards) != tc.wantCards {
				t.Fatalf("expected %d cards, got %d", tc.wantCards, len(cards))
			}
			if tc.wantCards != 1 {
				return
			}

			card := cards[0]
			if card.Front != tc.wantFront {
				t.Errorf("Front = %q, want %q", card.Front, tc.wantFront)
			}
			if card.Back != tc.wantBack {
				t.Errorf("Back = %q, want %q", card.Back, tc.wantBack)
			}
			ctx, _ := card.ExtraValue(ContextColumn)
			if ctx != tc.wantCtx {
				t.Errorf("context = %q, want %q", ctx, tc.wantCtx)
			}
		})
	}
}
