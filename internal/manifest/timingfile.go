package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Row is one data row of a timing file (spec.md §6): column 1 is the local
// index within the file, column 5 is the acquisition end time in seconds
// since the epoch. Columns 2-4 are opaque but must still parse as numbers.
type Row struct {
	Local int
	End   float64
}

// errMalformed marks a row that didn't carry five numeric columns; the
// caller skips it silently per spec.md §4.1/§7.
var errMalformed = fmt.Errorf("row malformed")

// parseRow parses one whitespace-separated data row. Lines starting with
// '#' are handled by the caller before this is reached.
func parseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Row{}, errMalformed
	}
	local, err := strconv.Atoi(fields[0])
	if err != nil {
		return Row{}, errMalformed
	}
	for _, f := range fields[1:4] {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return Row{}, errMalformed
		}
	}
	end, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return Row{}, errMalformed
	}
	return Row{Local: local, End: end}, nil
}

// scanRows walks a timing file's data rows in order, invoking fn for every
// row that parses; malformed rows are skipped silently (spec.md §4.1).
// Scanning stops and the read error (if any) is returned once the stream
// is exhausted.
func scanRows(r io.Reader, fn func(Row)) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			continue
		}
		fn(row)
	}
	return s.Err()
}
