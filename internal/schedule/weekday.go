package schedule

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalized weekday names. Stored and compared without diacritics.
const (
	Lunes     = "LUNES"
	Martes    = "MARTES"
	Miercoles = "MIERCOLES"
	Jueves    = "JUEVES"
	Viernes   = "VIERNES"
	Sabado    = "SABADO"
	Domingo   = "DOMINGO"
)

var weekdayNames = [...]string{
	time.Sunday:    Domingo,
	time.Monday:    Lunes,
	time.Tuesday:   Martes,
	time.Wednesday: Miercoles,
	time.Thursday:  Jueves,
	time.Friday:    Viernes,
	time.Saturday:  Sabado,
}

// weekOrder is the display order of the operating week, Monday first.
var weekOrder = map[string]int{
	Lunes:     0,
	Martes:    1,
	Miercoles: 2,
	Jueves:    3,
	Viernes:   4,
	Sabado:    5,
	Domingo:   6,
}

var displayNames = map[string]string{
	Lunes:     "Lunes",
	Martes:    "Martes",
	Miercoles: "Miércoles",
	Jueves:    "Jueves",
	Viernes:   "Viernes",
	Sabado:    "Sábado",
	Domingo:   "Domingo",
}

// NormalizeWeekday trims, strips diacritics and uppercases a weekday name.
// "Miércoles " and "MIERCOLES" both become "MIERCOLES".
func NormalizeWeekday(s string) string {
	return strings.ToUpper(stripDiacritics(strings.TrimSpace(s)))
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// WeekdayName returns the normalized name for d.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// IsWeekday reports whether s names a day of the week once normalized.
func IsWeekday(s string) bool {
	_, ok := weekOrder[NormalizeWeekday(s)]
	return ok
}

// DisplayWeekday returns the accented form of a weekday for user-facing text.
// Unknown names are returned as given.
func DisplayWeekday(s string) string {
	if d, ok := displayNames[NormalizeWeekday(s)]; ok {
		return d
	}
	return s
}

// NormalizeWeekdays normalizes, validates and deduplicates a weekday set and
// returns it in week order.
func NormalizeWeekdays(days []string) ([]string, error) {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, raw := range days {
		d := NormalizeWeekday(raw)
		if d == "" {
			continue
		}
		if _, ok := weekOrder[d]; !ok {
			return nil, fmt.Errorf("unknown weekday %q", raw)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sortWeekdays(out)
	return out, nil
}

func sortWeekdays(days []string) {
	// insertion sort, sets hold at most seven entries
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && weekOrder[days[j]] < weekOrder[days[j-1]]; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}
