package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateFormat is a user-facing date pattern such as "MM/DD/YYYY" compiled to
// Go layouts. Patterns are case-insensitive. Parsing accepts unpadded months
// and days ("6/1/2024") while formatting keeps the padding the pattern asks for.
type DateFormat struct {
	pattern     string
	layout      string // used for Format
	parseLayout string // lenient variant used for Parse
	dateLayout  string // parseLayout without the clock suffix
	hasDay      bool
	hasMonth    bool
	hasYear     bool
	hasClock    bool
}

var dateTokens = []struct {
	token  string
	layout string
	parse  string
}{
	{"YYYY", "2006", "2006"},
	{"YY", "06", "06"},
	{"MM", "01", "1"},
	{"M", "1", "1"},
	{"DD", "02", "2"},
	{"D", "2", "2"},
}

const clockSuffix = " h:mm"

// ParseDateFormat compiles pattern. Only the tokens YYYY YY MM M DD D and
// non-alphanumeric separators are allowed.
func ParseDateFormat(pattern string) (DateFormat, error) {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if p == "" {
		return DateFormat{}, fmt.Errorf("%w: empty date format", ErrInvalidSetting)
	}

	f := DateFormat{pattern: p}
	var layout, parse strings.Builder
	for i := 0; i < len(p); {
		c, size := utf8.DecodeRuneInString(p[i:])
		if !unicode.IsLetter(c) {
			if unicode.IsDigit(c) {
				return DateFormat{}, fmt.Errorf("%w: digits are not allowed in date format %q", ErrInvalidSetting, pattern)
			}
			layout.WriteString(p[i : i+size])
			parse.WriteString(p[i : i+size])
			i += size
			continue
		}
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(p[i:], tok.token) {
				writeToken(&layout, tok.layout)
				writeToken(&parse, tok.parse)
				switch tok.token[0] {
				case 'Y':
					f.hasYear = true
				case 'M':
					f.hasMonth = true
				case 'D':
					f.hasDay = true
				}
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			return DateFormat{}, fmt.Errorf("%w: unknown token %q in date format %q", ErrInvalidSetting, string(c), pattern)
		}
	}
	f.layout = layout.String()
	f.parseLayout = parse.String()
	f.dateLayout = f.parseLayout
	return f, nil
}

// writeToken appends a layout element. Go reads "_2" as a space-padded day,
// so a bare day after an underscore is written zero-padded instead.
func writeToken(b *strings.Builder, elem string) {
	if elem == "2" && strings.HasSuffix(b.String(), "_") {
		elem = "02"
	}
	b.WriteString(elem)
}

// MustDateFormat is ParseDateFormat for patterns known to be valid. An invalid
// pattern falls back to DefaultDatePattern.
func MustDateFormat(pattern string) DateFormat {
	f, err := ParseDateFormat(pattern)
	if err != nil {
		f, _ = ParseDateFormat(DefaultDatePattern)
	}
	return f
}

// WithClock returns the date+time variant: the pattern followed by " h:mm".
func (f DateFormat) WithClock() DateFormat {
	if f.hasClock {
		return f
	}
	c := f
	c.pattern = f.pattern + clockSuffix
	c.layout = f.layout + " 15:04"
	c.parseLayout = f.parseLayout + " 15:04"
	c.hasClock = true
	return c
}

// Pattern returns the normalized (upper-case) pattern.
func (f DateFormat) Pattern() string { return f.pattern }

// HasDate reports whether the pattern identifies a day of a month.
func (f DateFormat) HasDate() bool { return f.hasDay && f.hasMonth }

// Format renders t in local time.
func (f DateFormat) Format(t time.Time) string {
	return t.Local().Format(f.layout)
}

// Parse reads s under the format in loc. A date+time format also accepts the
// bare date, which resolves to midnight. Patterns without a year take the
// current one.
func (f DateFormat) Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(f.parseLayout, s, loc)
	if err != nil && f.hasClock {
		t, err = time.ParseInLocation(f.dateLayout, s, loc)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", ErrInvalidDate, s, f.pattern)
	}
	if !f.hasYear {
		t = time.Date(time.Now().In(loc).Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	}
	return t, nil
}
