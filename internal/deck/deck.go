// Package deck loads and saves CSV card collections. Columns the core
// does not know about pass through untouched, and an existing file's
// column order is preserved on rewrite.
package deck

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/conorfennell/deckard/internal/domain"
	"github.com/conorfennell/deckard/internal/sm2"
)

// Column names understood by the scheduler.
const (
	colFront      = "front"
	colBack       = "back"
	colNextReview = "next_review_date"
	colInterval   = "interval_days"
	colEase       = "ease_factor"
	colLapses     = "lapses"
	colReviews    = "reviews"
)

var (
	requiredColumns = []string{colFront, colBack, colNextReview, colInterval}
	baseColumns     = []string{colFront, colBack, colNextReview, colInterval, colEase, colLapses, colReviews}
)

// ErrMissingColumns reports a CSV header without the required columns.
var ErrMissingColumns = errors.New("deck: missing required columns")

// Deck is one CSV file's worth of cards plus the bookkeeping needed to
// write it back. Dirtiness is file-level: the review loop marks the
// deck after any Changed scheduler outcome.
type Deck struct {
	Path   string
	Cards  []*domain.Card
	header []string
	dirty  bool
}

// New returns an empty deck that will be written to path.
func New(path string) *Deck {
	return &Deck{Path: path, header: append([]string(nil), baseColumns...)}
}

// Load reads the deck at path. Cards with no scheduled date are
// normalized to "due today"; malformed scheduling fields fall back to
// defaults rather than failing the load, so a damaged file self-heals
// on the next save.
func Load(path string, today time.Time) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()

	d, err := Read(f, today)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %s: %w", filepath.Base(path), err)
	}
	d.Path = path
	return d, nil
}

// Read parses deck CSV from r. A UTF-8 byte order mark is tolerated.
func Read(r io.Reader, today time.Time) (*Deck, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("deck: file is empty")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	day := domain.DateOf(today)
	d := &Deck{header: header}
	line := 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping malformed row", "line", line, "error", err)
			continue
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		front := strings.TrimSpace(field(colFront))
		back := strings.TrimSpace(field(colBack))
		if front == "" || back == "" {
			slog.Warn("skipping row with missing front or back", "line", line)
			continue
		}

		card := &domain.Card{Front: front, Back: back}

		dateStr := strings.TrimSpace(field(colNextReview))
		next, dateOK := parseDate(dateStr)
		isNew := dateStr == "" || !dateOK
		if dateStr != "" && !dateOK {
			slog.Warn("invalid review date, treating card as due", "line", line, "value", dateStr)
		}

		if isNew {
			card.NextReview = day
			card.IntervalDays = 0
		} else {
			card.NextReview = next
			interval, err := strconv.ParseFloat(strings.TrimSpace(field(colInterval)), 64)
			if err != nil {
				slog.Warn("invalid interval, using default", "line", line, "value", field(colInterval))
				interval = sm2.DefaultParams().InitialIntervalDays
			}
			card.IntervalDays = round2(math.Max(sm2.DefaultParams().MinimumIntervalDays, interval))
		}

		card.EaseFactor = round3(math.Max(sm2.DefaultParams().MinimumEase,
			parseFloatOr(field(colEase), domain.DefaultEaseFactor)))
		card.Lapses = parseIntOr(field(colLapses), 0)
		card.Reviews = parseIntOr(field(colReviews), 0)

		for i, name := range header {
			if isBaseColumn(name) || i >= len(record) {
				continue
			}
			card.Extra = append(card.Extra, domain.Field{Key: name, Value: record[i]})
		}

		d.Cards = append(d.Cards, card)
	}

	return d, nil
}

// MarkDirty flags the deck for the next Save.
func (d *Deck) MarkDirty() { d.dirty = true }

// Dirty reports whether the deck has unsaved changes.
func (d *Deck) Dirty() bool { return d.dirty }

// AddCard appends a new card in the bootstrap state and marks the deck
// dirty.
func (d *Deck) AddCard(front, back string, today time.Time) *domain.Card {
	card := domain.NewCard(front, back, today)
	d.Cards = append(d.Cards, &card)
	d.dirty = true
	return &card
}

// Save rewrites the deck file when dirty. The existing column order is
// kept and any scheduler or passthrough columns the file did not have
// yet are appended, so foreign columns survive and new fields appear
// exactly once.
func (d *Deck) Save() error {
	if !d.dirty {
		return nil
	}

	f, err := os.Create(d.Path)
	if err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write deck %s: %w", filepath.Base(d.Path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close deck %s: %w", filepath.Base(d.Path), err)
	}
	d.dirty = false
	return nil
}

// Write emits the deck as CSV to w.
func (d *Deck) Write(w io.Writer) error {
	fields := d.fieldNames()
	cw := csv.NewWriter(w)

	if err := cw.Write(fields); err != nil {
		return err
	}
	for _, card := range d.Cards {
		record := make([]string, len(fields))
		for i, name := range fields {
			record[i] = fieldValue(card, name)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// fieldNames reconciles the output header: the loaded header first,
// then every base column and extra key seen in the data that the file
// did not already carry.
func (d *Deck) fieldNames() []string {
	var fields []string
	have := make(map[string]bool)
	add := func(name string) {
		if !have[name] {
			have[name] = true
			fields = append(fields, name)
		}
	}

	hasRequired := true
	headerSet := make(map[string]bool, len(d.header))
	for _, name := range d.header {
		headerSet[name] = true
	}
	for _, name := range requiredColumns {
		if !headerSet[name] {
			hasRequired = false
			break
		}
	}

	if hasRequired {
		for _, name := range d.header {
			add(name)
		}
	}
	for _, name := range baseColumns {
		add(name)
	}

	var extras []string
	for _, card := range d.Cards {
		for _, f := range card.Extra {
			if !have[f.Key] {
				extras = append(extras, f.Key)
				have[f.Key] = true
			}
		}
	}
	sort.Strings(extras)
	fields = append(fields, extras...)
	return fields
}

func fieldValue(card *domain.Card, name string) string {
	switch name {
	case colFront:
		return card.Front
	case colBack:
		return card.Back
	case colNextReview:
		if card.NextReview.IsZero() {
			return ""
		}
		return card.NextReview.Format(domain.DateFormat)
	case colInterval:
		return formatFloat(round2(card.IntervalDays))
	case colEase:
		return formatFloat(round3(card.EaseFactor))
	case colLapses:
		return strconv.Itoa(card.Lapses)
	case colReviews:
		return strconv.Itoa(card.Reviews)
	default:
		v, _ := card.ExtraValue(name)
		return v
	}
}

func isBaseColumn(name string) bool {
	for _, b := range baseColumns {
		if name == b {
			return true
		}
	}
	return false
}

func stripBOM(br *bufio.Reader) {
	bom, err := br.Peek(3)
	if err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return domain.DateOf(t), true
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseIntOr tolerates float spellings like "3.0" left behind by other
// tools.
func parseIntOr(s string, fallback int) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return int(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
