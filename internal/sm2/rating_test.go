package sm2

import "testing"

func TestRatingString(t *testing.T) {
	tests := []struct {
		rating Rating
		want   string
	}{
		{Again, "Again"},
		{Hard, "Hard"},
		{Good, "Good"},
		{Easy, "Easy"},
		{Rating(9), "Rating(9)"},
	}
	for _, tt := range tests {
		if got := tt.rating.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.rating), got, tt.want)
		}
	}
}

func TestRatingIsValid(t *testing.T) {
	for r := Again; r <= Easy; r++ {
		if !r.IsValid() {
			t.Errorf("IsValid(%d) = false", int(r))
		}
	}
	for _, r := range []Rating{0, 5, -2} {
		if r.IsValid() {
			t.Errorf("IsValid(%d) = true", int(r))
		}
	}
}

func TestRatingUnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{"Good", Good, false},
		{"Again", Again, false},
		{"3", Good, false},
		{"1", Again, false},
		{"good", 0, true},
		{"5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		var r Rating
		err := r.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && r != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, r, tt.want)
		}
	}
}
