package cube

import (
	"fmt"
	"math"

	"github.com/busoc/resample/internal/imagestore"
	"github.com/busoc/resample/internal/manifest"
)

const epsilon = 1e-9

// Warner receives non-fatal diagnostics, matching internal/manifest's
// interface so both stages log through the same convention.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// Stats summarizes one Assemble run for the caller's closing log line.
type Stats struct {
	Records int
	Skipped int
	Planes  int
	Width   int
	Height  int
}

// Assemble runs the two-pass Cube Assembler of spec.md §4.2 over records.
// resolver (and its Store) resolve and open each record's *input* image
// cube; outStore creates the *output* cube at outPath, kept as a separate
// Store so the output's own compression choice never leaks from the input
// side's compressed-sibling probe marker (resolver.Store.CompressedSuffix).
// warn receives non-fatal diagnostics (open/read failures on input planes).
func Assemble(records []manifest.FrameRecord, resolver Resolver, outStore imagestore.Store, outPath string, warn Warner) (Stats, error) {
	var stats Stats
	if len(records) == 0 {
		return stats, nil
	}

	width, height, err := probeDims(records, resolver)
	if err != nil {
		return stats, err
	}
	planes := outputPlaneCount(records)

	writer, err := outStore.CreateWriter(outPath, width, height, planes)
	if err != nil {
		return stats, fmt.Errorf("cube: create output: %w", err)
	}
	defer writer.Close()

	set := newActiveSet(width, height)
	var cur struct {
		src    string
		reader imagestore.Reader
	}
	closeCurrent := func() {
		if cur.reader != nil {
			cur.reader.Close()
			cur.reader = nil
			cur.src = ""
		}
	}
	defer closeCurrent()

	flushed := 0
	flushTo := func(f *outputFrame) error {
		for flushed < f.k {
			pad := make([]float32, width*height)
			if err := writer.WritePlane(flushed, pad); err != nil {
				return fmt.Errorf("cube: write plane %d: %w", flushed, err)
			}
			flushed++
		}
		if err := writer.WritePlane(f.k, f.acc); err != nil {
			return fmt.Errorf("cube: write plane %d: %w", f.k, err)
		}
		flushed++
		return nil
	}

	lastRS := math.Inf(-1)
	for _, rec := range records {
		stats.Records++
		if rec.RS+epsilon < lastRS {
			return stats, fmt.Errorf("cube: monotonicity violation: rs=%v after %v (record g=%d)", rec.RS, lastRS, rec.G)
		}
		lastRS = rec.RS

		if rec.Src != cur.src {
			closeCurrent()
			path := resolver.Resolve(rec.Src, rec.FS)
			r, err := resolver.Store.OpenReader(path)
			if err != nil {
				if warn != nil {
					warn.Warnf("open %s: %v", path, err)
				}
				stats.Skipped++
				continue
			}
			cur.reader = r
			cur.src = rec.Src
		}

		plane, err := cur.reader.ReadPlane(rec.L)
		if err != nil {
			if warn != nil {
				warn.Warnf("read plane %d of %s: %v", rec.L, rec.Src, err)
			}
			stats.Skipped++
			continue
		}

		k0 := int(math.Floor(rec.RS))
		if k0 < 0 {
			// A partial leading interval (rs < 0, e.g. the predecessor file
			// of spec.md §4.1) still contributes to plane 0; Overlap(0)
			// already clips at rs=0 via max(rs, k), so only the loop bound
			// needs clamping — no weight is lost.
			k0 = 0
		}
		k1 := int(math.Floor(rec.RE - epsilon))

		for _, f := range set.evictBelow(k0) {
			if err := flushTo(f); err != nil {
				return stats, err
			}
		}

		for k := k0; k <= k1; k++ {
			w := rec.Overlap(k)
			if w <= 0 {
				continue
			}
			f := set.get(k)
			for p := range plane {
				f.acc[p] += float32(w) * plane[p]
			}
		}
	}

	for _, f := range set.drainAll() {
		if err := flushTo(f); err != nil {
			return stats, err
		}
	}
	for flushed < planes {
		pad := make([]float32, width*height)
		if err := writer.WritePlane(flushed, pad); err != nil {
			return stats, fmt.Errorf("cube: write plane %d: %w", flushed, err)
		}
		flushed++
	}

	stats.Planes = planes
	stats.Width = width
	stats.Height = height
	return stats, nil
}

// probeDims opens the first record's backing image cube just to learn its
// shape, per spec.md §4.2 pass 1 step (a).
func probeDims(records []manifest.FrameRecord, resolver Resolver) (int, int, error) {
	first := records[0]
	path := resolver.Resolve(first.Src, first.FS)
	r, err := resolver.Store.OpenReader(path)
	if err != nil {
		return 0, 0, fmt.Errorf("cube: open first input %s: %w", path, err)
	}
	defer r.Close()
	w, h := r.Dims()
	return w, h, nil
}

// outputPlaneCount is spec.md §4.2 pass 1 step (b): K = floor(max(re) - ε) + 1.
func outputPlaneCount(records []manifest.FrameRecord) int {
	maxRE := records[0].RE
	for _, r := range records[1:] {
		if r.RE > maxRE {
			maxRE = r.RE
		}
	}
	return int(math.Floor(maxRE-epsilon)) + 1
}
