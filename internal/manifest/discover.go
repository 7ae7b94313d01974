package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/busoc/resample/internal/timeline"
)

// File is one timing file discovered under the date-partitioned tree,
// along with the absolute timestamp carried by its filename.
type File struct {
	Path  string
	Base  string
	Stamp time.Time
}

// Discover implements spec.md §4.1's discovery, ordering, and predecessor
// inclusion. It returns the files a manifest build will walk, in
// chronological order by filename timestamp.
func Discover(teldir, stream string, tstart, tend time.Time) ([]File, error) {
	low := tstart.Add(-timeline.Day)
	var found []File
	for d := timeline.DayOf(low); !d.After(timeline.DayOf(tend)); d = d.Add(timeline.Day) {
		dir := filepath.Join(teldir, timeline.Stamp(d), stream)
		entries, err := os.ReadDir(dir)
		if err != nil {
			// A missing (or unreadable) day directory is a silent success:
			// spec.md §4.1 treats "no data for that day" as normal.
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasPrefix(name, stream) || !strings.HasSuffix(name, ".txt") {
				continue
			}
			stamp, ok := filenameStamp(name, d)
			if !ok {
				continue
			}
			found = append(found, File{
				Path:  filepath.Join(dir, name),
				Base:  name,
				Stamp: stamp,
			})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Stamp.Equal(found[j].Stamp) {
			return found[i].Path < found[j].Path
		}
		return found[i].Stamp.Before(found[j].Stamp)
	})

	return selectSurvivors(found, tstart, tend), nil
}

// filenameStamp parses the HH:MM:SS.fffffffff time-of-day that follows the
// last '_' in name, and combines it with the enclosing day.
func filenameStamp(name string, day time.Time) (time.Time, bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return time.Time{}, false
	}
	tod := strings.TrimSuffix(name[idx+1:], ".txt")
	fields := strings.SplitN(tod, ":", 3)
	if len(fields) != 3 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, false
	}
	secStr := fields[2]
	whole, frac := secStr, ""
	if i := strings.IndexByte(secStr, '.'); i >= 0 {
		whole, frac = secStr[:i], secStr[i+1:]
	}
	sec, err := strconv.Atoi(whole)
	if err != nil {
		return time.Time{}, false
	}
	nsec := 0
	if frac != "" {
		for len(frac) < 9 {
			frac += "0"
		}
		n, err := strconv.Atoi(frac[:9])
		if err != nil {
			return time.Time{}, false
		}
		nsec = n
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 60 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, sec, nsec, time.UTC), true
}

// selectSurvivors applies the pivot and predecessor-inclusion rule of
// spec.md §4.1 to a chronologically sorted file list.
func selectSurvivors(files []File, tstart, tend time.Time) []File {
	pivot := -1
	for i, f := range files {
		if !f.Stamp.After(tstart) {
			pivot = i
		} else {
			break
		}
	}

	start := 0
	if pivot > 0 {
		start = pivot - 1
	}

	var survivors []File
	for _, f := range files[start:] {
		if f.Stamp.After(tend) {
			break
		}
		survivors = append(survivors, f)
	}
	return survivors
}

// Paths renders the absolute paths of fs, one per File, for stage 1's
// stdout listing (spec.md §6).
func Paths(fs []File) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Path
	}
	return out
}
