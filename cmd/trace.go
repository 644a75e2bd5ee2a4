// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime/pprof"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/x/profiler"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Trace modes accepted by the --trace flag.
const (
	traceNone       = "none"
	traceOtel       = "otel"
	traceOpenCensus = "opencensus"
	tracePprof      = "pprof"
	traceCallgrind  = "callgrind"
)

type traceSettings struct {
	mode        string
	file        string
	filter      string
	skipBuiltin bool
}

// tracing installs a profiler into an environment and flushes its output
// when the program finishes.
type tracing struct {
	settings traceSettings
	stderr   io.Writer
	shutdown []func(context.Context) error
}

func newTracing(settings traceSettings, stderr io.Writer) (*tracing, error) {
	switch settings.mode {
	case "", traceNone, traceOtel, traceOpenCensus, tracePprof, traceCallgrind:
	default:
		return nil, fmt.Errorf("unknown trace mode: %q", settings.mode)
	}
	return &tracing{settings: settings, stderr: stderr}, nil
}

func (t *tracing) options() ([]profiler.Option, error) {
	var opts []profiler.Option
	if t.settings.skipBuiltin {
		opts = append(opts, profiler.WithBuiltinsSkipped())
	}
	if t.settings.filter != "" {
		re, err := regexp.Compile(t.settings.filter)
		if err != nil {
			return nil, fmt.Errorf("trace filter: %w", err)
		}
		opts = append(opts, profiler.WithNameFilter(re))
	}
	return opts, nil
}

// Config returns a lisp.Config which enables the selected profiler.
func (t *tracing) Config(ctx context.Context) lisp.Config {
	return func(env *lisp.LEnv) *lisp.LVal {
		p, err := t.profiler(ctx, env.Runtime)
		if err != nil {
			return lisp.ErrorConditionf(lisp.CondLoadError, "trace: %v", err)
		}
		if p == nil {
			return lisp.Nil()
		}
		t.shutdown = append([]func(context.Context) error{
			func(context.Context) error { return p.Complete() },
		}, t.shutdown...)
		return lisp.WithProfiler(p)(env)
	}
}

func (t *tracing) profiler(ctx context.Context, rt *lisp.Runtime) (lisp.Profiler, error) {
	opts, err := t.options()
	if err != nil {
		return nil, err
	}
	switch t.settings.mode {
	case traceOtel:
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(profiler.NewSummary(t.stderr)),
		)
		otel.SetTracerProvider(tp)
		t.shutdown = append(t.shutdown, tp.Shutdown)
		return profiler.NewOpenTelemetryAnnotator(rt, ctx, opts...), nil
	case traceOpenCensus:
		summary := profiler.NewSummary(t.stderr)
		octrace.RegisterExporter(summary)
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		t.shutdown = append(t.shutdown, func(context.Context) error {
			octrace.UnregisterExporter(summary)
			return summary.Fprint(t.stderr)
		})
		return profiler.NewOpenCensusAnnotator(rt, ctx, opts...), nil
	case tracePprof:
		if t.settings.file == "" {
			return nil, errors.New("pprof tracing requires --profile-file")
		}
		f, err := os.Create(t.settings.file)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		t.shutdown = append(t.shutdown, func(context.Context) error {
			pprof.StopCPUProfile()
			return f.Close()
		})
		return profiler.NewPprofAnnotator(rt, ctx, opts...), nil
	case traceCallgrind:
		p := profiler.NewCallgrindProfiler(rt, opts...)
		file := t.settings.file
		if file == "" {
			file = "callgrind.out"
		}
		if err := p.SetFile(file); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, nil
}

// Shutdown completes the profiler and flushes exporters.  The first error
// encountered is returned.
func (t *tracing) Shutdown(ctx context.Context) error {
	var first error
	for _, fn := range t.shutdown {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	t.shutdown = nil
	return first
}
