package sm2

import (
	"encoding"
	"fmt"
)

// Rating is the reviewer's answer-quality grade.
type Rating int

const (
	Again Rating = 1 // failed recall; the card lapses
	Hard  Rating = 2 // recalled with difficulty
	Good  Rating = 3 // recalled correctly
	Easy  Rating = 4 // recalled without effort
)

var ratingNames = map[Rating]string{
	Again: "Again",
	Hard:  "Hard",
	Good:  "Good",
	Easy:  "Easy",
}

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsValid reports whether r is one of the four review grades.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the grade name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the
// grade name ("Again".."Easy") or its numeric form ("1".."4").
func (r *Rating) UnmarshalText(text []byte) error {
	s := string(text)
	for grade, name := range ratingNames {
		if s == name || s == fmt.Sprintf("%d", int(grade)) {
			*r = grade
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidRating, s)
}
