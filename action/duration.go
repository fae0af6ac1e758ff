package action

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTempBanDuration applies when a tempban threshold has no duration
// configured.
const DefaultTempBanDuration = time.Hour

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var durationUnits = map[rune]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': day,
	'w': week,
}

// ParseDuration parses compound duration strings such as "1h30m", "2d" or
// "1w". Supported units are s, m, h, d and w.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("empty duration")
	}
	var (
		total  time.Duration
		num    int64
		hasNum bool
	)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num = num*10 + int64(r-'0')
			hasNum = true
			continue
		}
		unit, ok := durationUnits[r]
		if !ok {
			return 0, fmt.Errorf("unknown duration unit %q in %q", r, s)
		}
		if !hasNum {
			return 0, fmt.Errorf("missing value before unit %q in %q", r, s)
		}
		total += time.Duration(num) * unit
		num, hasNum = 0, false
	}
	if hasNum {
		return 0, fmt.Errorf("missing unit at end of duration %q", s)
	}
	if total <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return total, nil
}

// FormatDuration renders d using the largest fitting units first, for example
// "1d2h30m". Durations under a second render as "0s".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	var b strings.Builder
	for _, u := range []struct {
		suffix string
		unit   time.Duration
	}{
		{"w", week},
		{"d", day},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	} {
		if n := d / u.unit; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			d -= n * u.unit
		}
	}
	return b.String()
}

// Duration is a time.Duration rendered in the compound text format in the
// configuration file.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText ...
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(FormatDuration(time.Duration(d))), nil
}

// UnmarshalText ...
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
