// Package manifest implements stage 1 of the resampler: discovering timing
// files under a date-partitioned directory tree, inferring frame start
// times, and emitting the ordered manifest of frames overlapping a query
// window (spec.md §3, §4.1).
package manifest

// FrameRecord is one row of the manifest: a single input frame's interval
// expressed both in absolute seconds and in resampled (grid) coordinates.
type FrameRecord struct {
	G   int     // global index, contiguous from 0
	FS  float64 // frame start, seconds since epoch, inferred
	FE  float64 // frame end, seconds since epoch, as read
	Src string  // basename of the backing timing file
	L   int     // local index within Src, as read
	RS  float64 // (FS - tstart) / dt
	RE  float64 // (FE - tstart) / dt
}

// Overlap returns the length, in resampled units, that this record's
// interval shares with the half-open output plane [k, k+1).
func (r FrameRecord) Overlap(k int) float64 {
	lo := r.RS
	if float64(k) > lo {
		lo = float64(k)
	}
	hi := r.RE
	if float64(k+1) < hi {
		hi = float64(k + 1)
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
