package datestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the canonical string layout of a Datestamp
const Layout = "2006-01-02"

var (
	// textPattern matches YYYY?MM?DD where each separator is one of . _ -
	textPattern = regexp.MustCompile(`(\d{4})[._-](\d{2})[._-](\d{2})`)

	// dirPattern is the directory-name variant: no '.' separator
	dirPattern = regexp.MustCompile(`(\d{4})[_-](\d{2})[_-](\d{2})`)
)

// Datestamp is a calendar date without time of day or timezone.
// The zero value is not a valid date; use FromYMD or one of the parsers.
type Datestamp struct {
	year  int
	month time.Month
	day   int
}

// FromYMD builds a Datestamp from a year, a 1-based month and a day of month.
// Out of range values normalize the way time.Date does, so day 32 of
// January becomes February 1st.
func FromYMD(year, month, day int) Datestamp {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Datestamp{year: t.Year(), month: t.Month(), day: t.Day()}
}

// FromTime returns the calendar date of t in t's own location
func FromTime(t time.Time) Datestamp {
	return Datestamp{year: t.Year(), month: t.Month(), day: t.Day()}
}

// FromString returns the date of the leftmost YYYY-MM-DD like pattern in s.
// Separators may be '.', '_' or '-' and are chosen independently.
func FromString(s string) (Datestamp, bool) {
	return first(textPattern, s)
}

// FromDirName parses a library directory name. Only '-' and '_' are
// accepted between components; text before or after the date is ignored.
func FromDirName(name string) (Datestamp, bool) {
	return first(dirPattern, name)
}

// Match is one date pattern occurrence inside a string
type Match struct {
	Datestamp Datestamp
	Start     int
	End       int
}

// FindAll returns every non-overlapping text pattern occurrence in s that
// forms a plausible date, leftmost first
func FindAll(s string) []Match {
	var matches []Match
	for _, loc := range textPattern.FindAllStringSubmatchIndex(s, -1) {
		ds, ok := FromParts(s[loc[2]:loc[3]], s[loc[4]:loc[5]], s[loc[6]:loc[7]])
		if !ok {
			continue
		}
		matches = append(matches, Match{Datestamp: ds, Start: loc[0], End: loc[1]})
	}
	return matches
}

// Parse parses a canonical YYYY-MM-DD string strictly
func Parse(s string) (Datestamp, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Datestamp{}, fmt.Errorf("invalid datestamp %q: %w", s, err)
	}
	return FromTime(t), nil
}

func first(re *regexp.Regexp, s string) (Datestamp, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return Datestamp{}, false
	}
	return FromParts(m[1], m[2], m[3])
}

// FromParts builds a Datestamp from decimal year, month and day strings.
// Components that cannot belong to any calendar date (month 13, day 45) are
// rejected; a day past the end of its month normalizes like FromYMD.
func FromParts(y, m, d string) (Datestamp, bool) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return Datestamp{}, false
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return Datestamp{}, false
	}
	day, err := strconv.Atoi(d)
	if err != nil || day < 1 || day > 31 {
		return Datestamp{}, false
	}
	return FromYMD(year, month, day), true
}

// Year returns the year
func (d Datestamp) Year() int { return d.year }

// Month returns the month (1-12)
func (d Datestamp) Month() int { return int(d.month) }

// Day returns the day of month
func (d Datestamp) Day() int { return d.day }

// IsZero reports whether d was never set
func (d Datestamp) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Equal reports whether both datestamps name the same calendar day
func (d Datestamp) Equal(other Datestamp) bool {
	return d == other
}

// Before reports whether d is an earlier day than other
func (d Datestamp) Before(other Datestamp) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// Time returns midnight of d in loc
func (d Datestamp) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String returns the canonical YYYY-MM-DD form
func (d Datestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler
func (d Datestamp) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Datestamp) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
