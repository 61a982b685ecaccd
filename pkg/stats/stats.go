// Package stats accumulates the counters and errors of a single backup run
// and renders the end-of-run summary.
//
// Every Record call bumps a Total together with exactly one outcome, so for
// both containers and items Downloaded+Skipped+Failed == Total at all times.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MaxReportedErrors is how many error lines the summary prints
const MaxReportedErrors = 5

const errorPreviewLength = 70

// Counts tracks outcomes for one kind of unit
type Counts struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
}

// Consistent reports whether the outcome counters add up to Total
func (c Counts) Consistent() bool {
	return c.Downloaded+c.Skipped+c.Failed == c.Total
}

// Stats holds the counters of one run. It has a single writer.
type Stats struct {
	// Label names the container kind in the report, e.g. "Highlights"
	Label string

	Containers      Counts
	Items           Counts
	ContainersFound int
	BytesDownloaded int64
	Errors          []string

	StartTime time.Time
	EndTime   time.Time

	now func() time.Time
}

// New starts a run
func New(label string) *Stats {
	return newWithClock(label, time.Now)
}

func newWithClock(label string, now func() time.Time) *Stats {
	return &Stats{
		Label:     label,
		StartTime: now(),
		now:       now,
	}
}

// RecordItemDownloaded counts a newly saved item of size bytes
func (s *Stats) RecordItemDownloaded(size int64) {
	s.Items.Total++
	s.Items.Downloaded++
	if size > 0 {
		s.BytesDownloaded += size
	}
}

// RecordItemSkipped counts an item that was not fetched
func (s *Stats) RecordItemSkipped() {
	s.Items.Total++
	s.Items.Skipped++
}

// RecordItemFailed counts an item whose download failed
func (s *Stats) RecordItemFailed() {
	s.Items.Total++
	s.Items.Failed++
}

// SetContainersFound records how many containers were enumerated. It can
// exceed Containers.Total when a run is interrupted.
func (s *Stats) SetContainersFound(n int) {
	s.ContainersFound = n
}

// RecordContainerDownloaded counts a container with at least one new item
func (s *Stats) RecordContainerDownloaded() {
	s.Containers.Total++
	s.Containers.Downloaded++
}

// RecordContainerSkipped counts a container with nothing new in it
func (s *Stats) RecordContainerSkipped() {
	s.Containers.Total++
	s.Containers.Skipped++
}

// RecordContainerFailed counts a container that could not be processed
func (s *Stats) RecordContainerFailed() {
	s.Containers.Total++
	s.Containers.Failed++
}

// AddError appends a message to the error list
func (s *Stats) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Finish stamps the completion time
func (s *Stats) Finish() {
	s.EndTime = s.now()
}

// Finished reports whether Finish has been called
func (s *Stats) Finished() bool {
	return !s.EndTime.IsZero()
}

// Duration is the elapsed time of the run, up to now while it is running
func (s *Stats) Duration() time.Duration {
	end := s.EndTime
	if end.IsZero() {
		end = s.now()
	}
	return end.Sub(s.StartTime)
}

// DurationString formats Duration as "1h 2m 3s", "2m 3s" or "3s"
func (s *Stats) DurationString() string {
	total := int(s.Duration().Seconds())
	hours, rem := total/3600, total%3600
	minutes, seconds := rem/60, rem%60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// SizeString formats BytesDownloaded with binary units
func (s *Stats) SizeString() string {
	if s.BytesDownloaded <= 0 {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(uint64(s.BytesDownloaded))
}

// HasFailures reports whether any container or item failed
func (s *Stats) HasFailures() bool {
	return s.Items.Failed > 0 || s.Containers.Failed > 0
}

// ExitCode is 1 when something failed and nothing was downloaded
func (s *Stats) ExitCode() int {
	if s.HasFailures() && s.Items.Downloaded == 0 {
		return 1
	}
	return 0
}

// Status is the final line of the report
func (s *Stats) Status() string {
	switch {
	case !s.HasFailures():
		return "✓ BACKUP COMPLETED SUCCESSFULLY"
	case s.Items.Downloaded > 0:
		return "⚠ BACKUP COMPLETED WITH SOME ERRORS"
	default:
		return "✗ BACKUP FAILED"
	}
}

// Report renders the summary block
func (s *Stats) Report(target, outputDir string) string {
	sep := strings.Repeat("=", 60)
	label := s.Label
	if label == "" {
		label = "Containers"
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("")
	line(sep)
	line("BACKUP SUMMARY")
	line(sep)
	line("Target: %s", target)
	line("Output: %s", outputDir)
	line("Duration: %s", s.DurationString())
	line("")

	line("%s:", label)
	line("  ✓ Downloaded: %d", s.Containers.Downloaded)
	if s.Containers.Skipped > 0 {
		line("  ⊘ Skipped: %d", s.Containers.Skipped)
	}
	if s.Containers.Failed > 0 {
		line("  ✗ Failed: %d", s.Containers.Failed)
	}
	found := s.ContainersFound
	if s.Containers.Total > found {
		found = s.Containers.Total
	}
	line("  ━ Total found: %d", found)
	line("")

	line("Items:")
	line("  ✓ Downloaded: %d", s.Items.Downloaded)
	if s.Items.Skipped > 0 {
		line("  ⊘ Skipped (already exist): %d", s.Items.Skipped)
	}
	if s.Items.Failed > 0 {
		line("  ✗ Failed: %d", s.Items.Failed)
	}
	line("  ━ Total: %d", s.Items.Total)
	line("")

	if s.BytesDownloaded > 0 {
		line("Downloaded: %s", s.SizeString())
		line("")
	}

	if len(s.Errors) > 0 {
		line("Errors:")
		for i, msg := range s.Errors {
			if i == MaxReportedErrors {
				break
			}
			line("  %d. %s", i+1, preview(msg))
		}
		if extra := len(s.Errors) - MaxReportedErrors; extra > 0 {
			line("  ... and %d more errors", extra)
		}
		line("")
	}

	line(s.Status())
	b.WriteString(sep)
	return b.String()
}

func preview(msg string) string {
	r := []rune(msg)
	if len(r) <= errorPreviewLength {
		return msg
	}
	return string(r[:errorPreviewLength]) + "..."
}
