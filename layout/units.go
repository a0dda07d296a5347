package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths. Layout works in px (1/96 in).

// Unit represents the original unit of a length value as written by the author.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, taken as px
	UnitPX               // pixels
	UnitPT               // points
	UnitTW               // twips (1/20 pt)
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
)

// Conversion constants.
const (
	PxPerIn    = 96.0
	PxPerPt    = PxPerIn / 72.0
	PxPerMm    = PxPerIn / 25.4
	TwipsPerPt = 20.0
	PtToMm     = 25.4 / 72.0
	MmToPt     = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"pt", UnitPT}, {"tw", UnitTW}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPx converts this length to pixels.
func (l Length) ToPx() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitTW:
		return l.Value / TwipsPerPt * PxPerPt
	case UnitMM:
		return l.Value * PxPerMm
	case UnitCM:
		return l.Value * 10 * PxPerMm
	case UnitIN:
		return l.Value * PxPerIn
	default:
		return l.Value
	}
}

// ToPt converts this length to points.
func (l Length) ToPt() float64 { return l.ToPx() / PxPerPt }

// ToTwips converts this length to twips, the raw unit of exact line spacing.
func (l Length) ToTwips() float64 { return l.ToPt() * TwipsPerPt }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a length such as "12pt", "240tw", "1.5in" or "20" (px).
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
