package manifest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTimingFile(t *testing.T, teldir, day, stream, name string, rows [][5]float64) {
	t.Helper()
	dir := filepath.Join(teldir, day, stream)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	var body string
	for _, r := range rows {
		body += fmt.Sprintf("%d %f %f %f %f\n", int(r[0]), r[1], r[2], r[3], r[4])
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestBuildAlignedFrames is scenario 1 of spec.md §8: 0.01s frames aligned
// to tstart map one-to-one onto the output grid.
func TestBuildAlignedFrames(t *testing.T) {
	teldir := t.TempDir()
	stream := "cam1"
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	epoch := func(d time.Duration) float64 { return toSeconds(base.Add(d)) }

	// Column 5 is the frame end time; row 0's end seeds prev_end and is
	// never itself emitted (it has no predecessor row).
	writeTimingFile(t, teldir, "20240115", stream, "cam1_12:00:00.000000000.txt", [][5]float64{
		{0, 0, 0, 0, epoch(0)},
		{1, 0, 0, 0, epoch(10 * time.Millisecond)},
		{2, 0, 0, 0, epoch(20 * time.Millisecond)},
		{3, 0, 0, 0, epoch(30 * time.Millisecond)},
	})

	tstart := base
	tend := base.Add(30 * time.Millisecond)
	dt := 10 * time.Millisecond

	_, records, err := Build(teldir, stream, tstart, tend, dt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}
	for i, r := range records {
		if r.G != i {
			t.Errorf("record %d: g=%d, want contiguous index", i, r.G)
		}
		// End times near 1.7e9 s carry ~1e-7 s of float64 rounding, which
		// dt=0.01 s scales to ~1e-5 in resampled units (I4).
		if math.Abs(r.RS-float64(i)) > 1e-4 || math.Abs(r.RE-float64(i+1)) > 1e-4 {
			t.Errorf("record %d: rs=%v re=%v, want %d/%d", i, r.RS, r.RE, i, i+1)
		}
	}
}

// TestBuildMonotonicPrevEnd is I3: consecutive rows sharing a source have
// the later fs equal to the earlier fe exactly.
func TestBuildMonotonicPrevEnd(t *testing.T) {
	teldir := t.TempDir()
	stream := "cam1"
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	epoch := func(d time.Duration) float64 { return toSeconds(base.Add(d)) }

	writeTimingFile(t, teldir, "20240115", stream, "cam1_12:00:00.000000000.txt", [][5]float64{
		{0, 0, 0, 0, epoch(0)},
		{1, 0, 0, 0, epoch(5 * time.Millisecond)},
		{2, 0, 0, 0, epoch(17 * time.Millisecond)},
	})

	_, records, err := Build(teldir, stream, base, base.Add(20*time.Millisecond), 10*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(records); i++ {
		if records[i].FS != records[i-1].FE {
			t.Errorf("record %d: fs=%v, want previous fe=%v", i, records[i].FS, records[i-1].FE)
		}
	}
}

// TestBuildFirstFrameNeverEmitted: the first row of the very first file
// seeds prev_end and is never itself a record, per spec.md §1 Non-goals.
func TestBuildFirstFrameNeverEmitted(t *testing.T) {
	teldir := t.TempDir()
	stream := "cam1"
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	writeTimingFile(t, teldir, "20240115", stream, "cam1_12:00:00.000000000.txt", [][5]float64{
		{0, 0, 0, 0, toSeconds(base)},
	})

	_, records, err := Build(teldir, stream, base.Add(-time.Hour), base.Add(time.Hour), time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0 (no predecessor for the first row)", len(records))
	}
}

type collectWarner struct{ msgs []string }

func (c *collectWarner) Warnf(format string, args ...interface{}) {
	c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
}

func TestBuildMalformedRowSkippedSilently(t *testing.T) {
	teldir := t.TempDir()
	stream := "cam1"
	dir := filepath.Join(teldir, "20240115", stream)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	body := fmt.Sprintf("0 0 0 0 %f\nnot-a-number\n1 0 0 0 %f\n", toSeconds(base), toSeconds(base.Add(time.Second)))
	if err := os.WriteFile(filepath.Join(dir, "cam1_12:00:00.000000000.txt"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &collectWarner{}
	_, records, err := Build(teldir, stream, base, base.Add(2*time.Second), time.Second, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(w.msgs) != 0 {
		t.Errorf("malformed rows must be silent, got warnings: %v", w.msgs)
	}
}

func TestBuildUnreadableFileResetsRollingState(t *testing.T) {
	teldir := t.TempDir()
	stream := "cam1"
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	writeTimingFile(t, teldir, "20240115", stream, "cam1_12:00:00.000000000.txt", [][5]float64{
		{0, 0, 0, 0, toSeconds(base)},
		{1, 0, 0, 0, toSeconds(base.Add(time.Second))},
	})
	writeTimingFile(t, teldir, "20240115", stream, "cam1_12:00:05.000000000.txt", [][5]float64{
		{0, 0, 0, 0, toSeconds(base.Add(5 * time.Second))},
		{1, 0, 0, 0, toSeconds(base.Add(6 * time.Second))},
	})

	// Replace the second file with a dangling symlink: Discover still lists
	// it (it is not a directory entry), but os.Open fails on it.
	second := filepath.Join(teldir, "20240115", stream, "cam1_12:00:05.000000000.txt")
	if err := os.Remove(second); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(teldir, "missing-target"), second); err != nil {
		t.Fatal(err)
	}

	w := &collectWarner{}
	_, records, err := Build(teldir, stream, base, base.Add(10*time.Second), time.Second, w)
	if err != nil {
		t.Fatal(err)
	}
	// File 1 yields one record (row 1, fs=base). File 2 fails to open, so
	// it is warned about, rolling prev_end is reset, and no record
	// references the second file's row without a valid predecessor.
	for _, r := range records {
		if r.Src == "cam1_12:00:05.000000000.txt" && r.L == 0 {
			t.Errorf("row 0 of the unreadable file must never be emitted: %+v", r)
		}
	}
	if len(w.msgs) == 0 {
		t.Error("expected a warning for the unreadable file")
	}
}
