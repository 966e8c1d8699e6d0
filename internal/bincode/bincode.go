// Package bincode decodes warehouse bin codes into their structural fields.
//
// A standard bin code is a fixed-width string:
//
//	3E01A1A
//	││││││└ slot (optional, A..H, left to right)
//	│││││└─ level (1 = bottom shelf)
//	││││└── section within the rack row
//	││└┴─── rack row
//	└┴───── bay
//
// Codes containing a special-location marker (ENDCAP, BACKAREA, WALL, CON)
// name floor areas rather than shelf positions and carry only a bay.
package bincode

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Kind tags which variant a Code holds.
type Kind int

const (
	KindInvalid  Kind = iota // Code could not be decoded
	KindStandard             // Bay/row/section/level(/slot) shelf position
	KindSpecial              // Floor location such as an endcap or back area
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "Standard"
	case KindSpecial:
		return "Special"
	default:
		return "Invalid"
	}
}

// MinLength is the shortest code that can be decoded.
const MinLength = 6

// SpecialMarkers are checked in order; the first one found wins.
var SpecialMarkers = []string{"ENDCAP", "BACKAREA", "WALL", "CON"}

var (
	ErrTooShort      = errors.New("bin code shorter than 6 characters")
	ErrLevelNotDigit = errors.New("level character is not a digit 1-9")
)

// Code is a decoded bin code. Only the fields belonging to Kind are set:
// Standard codes have Row, Section and Level (and maybe Slot); Special codes
// have Special. Bay is set for both.
type Code struct {
	Kind    Kind
	Raw     string // Trimmed, upper-cased input
	Bay     string
	Row     string
	Section string
	Level   int
	Slot    string // Empty when the code has no slot letter
	Special string
}

// IsStandard reports whether the code names a shelf position.
func (c Code) IsStandard() bool { return c.Kind == KindStandard }

// IsSpecial reports whether the code names a special floor location.
func (c Code) IsSpecial() bool { return c.Kind == KindSpecial }

// HasSlot reports whether a standard code carries a slot letter.
func (c Code) HasSlot() bool { return c.Kind == KindStandard && c.Slot != "" }

func (c Code) String() string {
	switch c.Kind {
	case KindStandard:
		slot := c.Slot
		if slot == "" {
			slot = "-"
		}
		return fmt.Sprintf("%s bay=%s row=%s section=%s level=%d slot=%s",
			c.Raw, c.Bay, c.Row, c.Section, c.Level, slot)
	case KindSpecial:
		return fmt.Sprintf("%s bay=%s special=%s", c.Raw, c.Bay, c.Special)
	default:
		return fmt.Sprintf("%s invalid", c.Raw)
	}
}

// Parse decodes a bin code. On failure it returns a KindInvalid Code holding
// the normalised input together with the reason; it never returns a
// partially filled Standard or Special code.
func Parse(code string) (Code, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	invalid := Code{Kind: KindInvalid, Raw: s}

	// codes are indexed by character, not byte
	r := []rune(s)
	if len(r) < MinLength {
		return invalid, fmt.Errorf("%q: %w", s, ErrTooShort)
	}

	for _, marker := range SpecialMarkers {
		if strings.Contains(s, marker) {
			return Code{
				Kind:    KindSpecial,
				Raw:     s,
				Bay:     string(r[0:2]),
				Special: marker,
			}, nil
		}
	}

	levelChar := r[5]
	if levelChar < '1' || levelChar > '9' {
		return invalid, fmt.Errorf("%q: %w", s, ErrLevelNotDigit)
	}

	c := Code{
		Kind:    KindStandard,
		Raw:     s,
		Bay:     string(r[0:2]),
		Row:     string(r[2:4]),
		Section: string(r[4]),
		Level:   int(levelChar - '0'),
	}
	if len(r) > 6 && unicode.IsLetter(r[6]) {
		c.Slot = string(r[6])
	}
	return c, nil
}

// SlotIndex maps a slot letter to its left-to-right position (A=0 ... H=7).
// It returns false for letters outside A..H.
func SlotIndex(slot string) (int, bool) {
	if len(slot) != 1 || slot[0] < 'A' || slot[0] > 'H' {
		return 0, false
	}
	return int(slot[0] - 'A'), true
}

// headerWords are cell values that show up when a bin column is read
// without skipping the header row.
var headerWords = map[string]bool{
	"STORAGE BIN": true,
	"BIN":         true,
	"LOCATION":    true,
}

// Normalize reduces a raw bin string to its six-character shelf identifier
// where possible: a trailing slot letter after the level digit is dropped
// (3E01A1A -> 3E01A1) and a zero-padded two-digit level is compressed
// (3W34A03 -> 3W34A3). Codes that are still longer are left alone rather
// than truncated. It returns false for empty cells and header words.
func Normalize(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || headerWords[s] {
		return "", false
	}

	if hasBayPrefix(s) && len(s) >= 4 && isLetter(s[len(s)-1]) && isDigit(s[len(s)-2]) {
		s = s[:len(s)-1]
	}

	if n := len(s); n >= 3 && isDigit(s[n-1]) && isDigit(s[n-2]) && s[n-2] == '0' {
		s = s[:n-2] + s[n-1:]
	}
	return s, true
}

// hasBayPrefix reports whether s starts like a bay id: a digit followed by
// an E or W wing letter.
func hasBayPrefix(s string) bool {
	return len(s) >= 2 && isDigit(s[0]) && (s[1] == 'E' || s[1] == 'W')
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
