package manifest

import (
	"log"
	"os"
	"time"

	"github.com/busoc/resample/internal/rerr"
)

// Warner receives non-fatal diagnostics (spec.md §7: FileOpenFailed is a
// warning, not an abort). Build treats a nil Warner as LogWarner{}, so
// warnings then go to the standard logger; cmd/manifest passes LogWarner{}.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// LogWarner routes warnings through the standard library logger, matching
// busoc-assist's use of log.Printf for non-fatal conditions.
type LogWarner struct{ *log.Logger }

func (w LogWarner) Warnf(format string, args ...interface{}) {
	if w.Logger == nil {
		log.Printf(format, args...)
		return
	}
	w.Logger.Printf(format, args...)
}

// Build runs the full stage 1 pipeline: discover files for [tstart, tend),
// then walk them in order inferring start times and emitting overlapping
// records. It returns the discovered (survivor) file list alongside the
// manifest, since stage 1's CLI surface prints both (spec.md §6).
func Build(teldir, stream string, tstart, tend time.Time, dt time.Duration, warn Warner) ([]File, []FrameRecord, error) {
	if warn == nil {
		warn = LogWarner{}
	}
	files, err := Discover(teldir, stream, tstart, tend)
	if err != nil {
		return nil, nil, err
	}

	tstartSec := toSeconds(tstart)
	tendSec := toSeconds(tend)
	dtSec := dt.Seconds()

	var (
		records  []FrameRecord
		prevEnd  float64
		havePrev bool
		g        int
	)
	for _, f := range files {
		r, err := os.Open(f.Path)
		if err != nil {
			warn.Warnf("%s: %v", f.Path, rerr.Check(err, rerr.FileOpenFailed))
			havePrev = false
			continue
		}
		scanErr := scanRows(r, func(row Row) {
			fe := row.End
			if !havePrev {
				prevEnd = fe
				havePrev = true
				return
			}
			fs := prevEnd
			if fs < tendSec && fe > tstartSec {
				records = append(records, FrameRecord{
					G:   g,
					FS:  fs,
					FE:  fe,
					Src: f.Base,
					L:   row.Local,
					RS:  (fs - tstartSec) / dtSec,
					RE:  (fe - tstartSec) / dtSec,
				})
				g++
			}
			prevEnd = fe
		})
		r.Close()
		if scanErr != nil {
			warn.Warnf("%s: %v", f.Path, scanErr)
		}
	}
	return files, records, nil
}

func toSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
