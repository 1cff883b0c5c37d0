package store

// sessionIndex keeps running totals for Summary without re-reading the file.
type sessionIndex struct {
	total     int
	delivered int
	failed    int
	lastError string
}

// onAppend updates the index after rec has been written.
func (idx *sessionIndex) onAppend(rec Record) {
	idx.total++
	if !rec.Failed() {
		idx.delivered++
		return
	}
	idx.failed++
	switch {
	case rec.Detail != "":
		idx.lastError = rec.Detail
	case rec.Reason != "":
		idx.lastError = rec.Reason
	}
}
