// SPDX-License-Identifier: MPL-2.0

package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTrailingPercent is returned when a format ends with a lone '%'.
	ErrTrailingPercent = errors.New("format ends with a lone '%'")

	// ErrUnknownDirective is the sentinel wrapped by UnknownDirectiveError.
	ErrUnknownDirective = errors.New("unknown format directive")
)

// UnknownDirectiveError reports an unsupported strftime directive.
type UnknownDirectiveError struct {
	Directive byte
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("%s '%%%c'", ErrUnknownDirective, e.Directive)
}

func (e *UnknownDirectiveError) Unwrap() error { return ErrUnknownDirective }

// Strftime formats t using C strftime directives.
//
// Supported: %Y %y %m %d %e %H %I %M %S %f %j %a %A %b %B %p %z %Z %%.
func Strftime(t time.Time, format string) (string, error) {
	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", ErrTrailingPercent
		}

		switch d := format[i]; d {
		case 'Y':
			b.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'e':
			fmt.Fprintf(&b, "%2d", t.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'I':
			fmt.Fprintf(&b, "%02d", hour12(t.Hour()))
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		case 'f':
			fmt.Fprintf(&b, "%06d", t.Nanosecond()/int(time.Microsecond))
		case 'j':
			fmt.Fprintf(&b, "%03d", t.YearDay())
		case 'a':
			b.WriteString(t.Weekday().String()[:3])
		case 'A':
			b.WriteString(t.Weekday().String())
		case 'b':
			b.WriteString(t.Month().String()[:3])
		case 'B':
			b.WriteString(t.Month().String())
		case 'p':
			if t.Hour() < 12 {
				b.WriteString("AM")
			} else {
				b.WriteString("PM")
			}
		case 'z':
			b.WriteString(t.Format("-0700"))
		case 'Z':
			b.WriteString(t.Format("MST"))
		case '%':
			b.WriteByte('%')
		default:
			return "", &UnknownDirectiveError{Directive: d}
		}
	}

	return b.String(), nil
}

func hour12(h int) int {
	h %= 12
	if h == 0 {
		return 12
	}
	return h
}
