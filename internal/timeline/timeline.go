// Package timeline holds the small set of time helpers shared by both
// stages: a window type, the toml-friendly Duration wrapper the teacher
// uses for settings, and day-partitioning helpers for the date-bucketed
// directory layout.
package timeline

import "time"

// Day is the width of one date-partitioned directory.
const Day = 24 * time.Hour

// Window is a half-open time interval [Start, End) held as time.Time
// values, plus the output sampling interval.
type Window struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Seconds returns t expressed as seconds since the epoch.
func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// FromSeconds is the inverse of Seconds.
func FromSeconds(s float64) time.Time {
	return time.Unix(0, int64(s*1e9)).UTC()
}

// Resampled converts an absolute time t to resampled coordinates relative
// to the window: (t - Start) / Step.
func (w Window) Resampled(t time.Time) float64 {
	return t.Sub(w.Start).Seconds() / w.Step.Seconds()
}

// DayOf truncates t to the UTC calendar day it falls on.
func DayOf(t time.Time) time.Time {
	return t.UTC().Truncate(Day)
}

// Stamp formats a day as the YYYYMMDD directory component.
func Stamp(d time.Time) string {
	return d.UTC().Format("20060102")
}

// Duration is the teacher's toml.Unmarshaler-friendly duration wrapper
// (busoc-assist/settings.go), reused verbatim for this module's optional
// config file.
type Duration struct {
	time.Duration
}

func (d *Duration) String() string { return d.Duration.String() }

func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err == nil {
		d.Duration = v
	}
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	return d.Set(string(b))
}
