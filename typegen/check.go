package typegen

import (
	"bytes"
)

// CheckResult compares freshly generated output with the file on disk
type CheckResult struct {
	// UpToDate is true when the file exists and matches byte for byte
	UpToDate bool

	// Path is the compared output file
	Path string

	// Missing is true when there is no output file yet
	Missing bool

	// FirstDiffLine is the 1-based first line that differs, 0 when up to date
	FirstDiffLine int

	// Expected and Actual are the differing lines at FirstDiffLine
	Expected string
	Actual   string
}

// Compare builds a CheckResult from generated (expected) and current
// (actual) content
func Compare(path string, generated, current []byte, exists bool) CheckResult {
	res := CheckResult{Path: path}
	if !exists {
		res.Missing = true
		res.FirstDiffLine = 1
		return res
	}
	if bytes.Equal(generated, current) {
		res.UpToDate = true
		return res
	}

	want := bytes.Split(generated, []byte("\n"))
	got := bytes.Split(current, []byte("\n"))
	for i := 0; i < len(want) || i < len(got); i++ {
		var w, g []byte
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}
		if i >= len(want) || i >= len(got) || !bytes.Equal(w, g) {
			res.FirstDiffLine = i + 1
			res.Expected = string(w)
			res.Actual = string(g)
			break
		}
	}
	return res
}
