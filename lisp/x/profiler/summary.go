// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	octrace "go.opencensus.io/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Summary is a span exporter which aggregates the number of calls and the
// total time spent in each function.  It accepts spans from OpenTelemetry
// and OpenCensus.
type Summary struct {
	mu    sync.Mutex
	w     io.Writer
	stats map[string]*FunStats
}

// FunStats aggregates the spans of one function.
type FunStats struct {
	Name  string
	Calls int
	Total time.Duration
}

var (
	_ sdktrace.SpanExporter = (*Summary)(nil)
	_ octrace.Exporter      = (*Summary)(nil)
)

// NewSummary returns a Summary which writes a table to w when it is shut
// down.
func NewSummary(w io.Writer) *Summary {
	return &Summary{
		w:     w,
		stats: make(map[string]*FunStats),
	}
}

func (s *Summary) add(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	if !ok {
		st = &FunStats{Name: name}
		s.stats[name] = st
	}
	st.Calls++
	st.Total += d
}

// ExportSpans implements sdktrace.SpanExporter.
func (s *Summary) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		s.add(span.Name(), span.EndTime().Sub(span.StartTime()))
	}
	return nil
}

// ExportSpan implements the OpenCensus trace.Exporter interface.
func (s *Summary) ExportSpan(sd *octrace.SpanData) {
	s.add(sd.Name, sd.EndTime.Sub(sd.StartTime))
}

// Stats returns the aggregated statistics ordered by decreasing total time.
func (s *Summary) Stats() []FunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := make([]FunStats, 0, len(s.stats))
	for _, st := range s.stats {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// Shutdown implements sdktrace.SpanExporter by writing the summary table.
func (s *Summary) Shutdown(ctx context.Context) error {
	return s.Fprint(s.w)
}

// Fprint writes the summary table to w.
func (s *Summary) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tCALLS\tTOTAL") //nolint:errcheck // checked by Flush
	for _, st := range s.Stats() {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", st.Name, st.Calls, st.Total) //nolint:errcheck // checked by Flush
	}
	return tw.Flush()
}
