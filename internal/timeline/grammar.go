package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseAbsolute parses tstart/tend in the first two grammars of spec.md §6:
//
//	(i)  UTYYYYMMDDTHH[:MM[:SS[.fff...]]]  — trailing fields default to zero
//	(ii) floating-point seconds since the epoch
//
// The relative grammar (iii) is only valid for tend and is handled by
// ParseRelative against an already-resolved base time.
//
// This grammar is a fixed, pinned format (not general-purpose date parsing)
// so it is matched directly against time.Time fields rather than through a
// heuristic date-guessing library: the "UT" prefix and optional colon-delimited
// trailing fields are specific enough that a generic parser would need the
// same amount of bespoke pre/post-processing to honor them exactly.
func ParseAbsolute(s string) (time.Time, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return FromSeconds(v), nil
	}
	if !strings.HasPrefix(s, "UT") {
		return time.Time{}, fmt.Errorf("time %q: not a UT timestamp or float seconds", s)
	}
	body := strings.TrimPrefix(s, "UT")
	parts := strings.SplitN(body, "T", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("time %q: expected UTYYYYMMDDTHH[:MM[:SS[.fff]]]", s)
	}
	if len(parts[0]) != 8 {
		return time.Time{}, fmt.Errorf("time %q: expected an 8-digit date", s)
	}
	year, err := strconv.Atoi(parts[0][0:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: bad year", s)
	}
	month, err := strconv.Atoi(parts[0][4:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: bad month", s)
	}
	day, err := strconv.Atoi(parts[0][6:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: bad day", s)
	}

	hour, minute, sec, nsec, err := splitClock(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", s, err)
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, nsec, time.UTC), nil
}

// splitClock parses HH[:MM[:SS[.fff...]]], defaulting omitted trailing
// fields to zero.
func splitClock(s string) (hour, minute, sec, nsec int, err error) {
	fields := strings.Split(s, ":")
	if len(fields) == 0 || len(fields) > 3 {
		return 0, 0, 0, 0, fmt.Errorf("bad clock %q", s)
	}
	if hour, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	if len(fields) > 1 {
		if minute, err = strconv.Atoi(fields[1]); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("bad minute in %q", s)
		}
	}
	if len(fields) > 2 {
		secField := fields[2]
		whole := secField
		frac := ""
		if i := strings.IndexByte(secField, '.'); i >= 0 {
			whole, frac = secField[:i], secField[i+1:]
		}
		if sec, err = strconv.Atoi(whole); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("bad second in %q", s)
		}
		if frac != "" {
			for len(frac) < 9 {
				frac += "0"
			}
			frac = frac[:9]
			n, err := strconv.Atoi(frac)
			if err != nil {
				return 0, 0, 0, 0, fmt.Errorf("bad fraction in %q", s)
			}
			nsec = n
		}
	}
	return hour, minute, sec, nsec, nil
}

// ParseRelative parses the relative tend grammar (iii): +SS.fff,
// +MM:SS.fff, or +HH:MM:SS.fff, interpreted as an offset from base.
func ParseRelative(s string, base time.Time) (time.Time, bool, error) {
	if !strings.HasPrefix(s, "+") {
		return time.Time{}, false, nil
	}
	body := strings.TrimPrefix(s, "+")
	fields := strings.Split(body, ":")
	if len(fields) == 0 || len(fields) > 3 {
		return time.Time{}, false, fmt.Errorf("relative time %q: bad grammar", s)
	}
	var hours, minutes float64
	secField := fields[len(fields)-1]
	switch len(fields) {
	case 3:
		h, err := strconv.Atoi(fields[0])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("relative time %q: bad hours", s)
		}
		hours = float64(h)
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("relative time %q: bad minutes", s)
		}
		minutes = float64(m)
	case 2:
		m, err := strconv.Atoi(fields[0])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("relative time %q: bad minutes", s)
		}
		minutes = float64(m)
	}
	secs, err := strconv.ParseFloat(secField, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("relative time %q: bad seconds", s)
	}
	offset := time.Duration((hours*3600+minutes*60+secs)*1e9) * time.Nanosecond
	return base.Add(offset), true, nil
}

// ParseEnd parses tend, trying the relative grammar against base first and
// falling back to the absolute grammars.
func ParseEnd(s string, base time.Time) (time.Time, error) {
	if t, ok, err := ParseRelative(s, base); err != nil {
		return time.Time{}, err
	} else if ok {
		return t, nil
	}
	return ParseAbsolute(s)
}
