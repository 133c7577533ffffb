// Package timing records wall-clock durations of labelled run phases.
package timing

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

type Entry struct {
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
}

// Log is used from the orchestrating goroutine only.
type Log struct {
	entries []Entry
	start   time.Time
	now     func() time.Time
}

func New() *Log {
	return &Log{now: time.Now}
}

func (l *Log) Start() { l.start = l.now() }

// Stop records the time since the last Start under label.
func (l *Log) Stop(label string) time.Duration {
	d := l.now().Sub(l.start)
	l.entries = append(l.entries, Entry{Label: label, Duration: d})
	return d
}

func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Print writes one aligned line per phase.
func (l *Log) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range l.entries {
		fmt.Fprintf(tw, "%s:\t%.3fs\n", e.Label, e.Duration.Seconds())
	}
	return tw.Flush()
}
