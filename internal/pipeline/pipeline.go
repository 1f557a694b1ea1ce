// Package pipeline runs the transcript flow over a whole directory.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/asp616848/live-call-insight/internal/logger"
	"github.com/asp616848/live-call-insight/internal/processor"
)

// TranscriptProcessor is the slice of processor.Processor a run needs.
type TranscriptProcessor interface {
	ProcessTranscript(ctx context.Context, path string) (processor.Result, error)
	OutputPath(source string) string
}

type Options struct {
	Workers int
	// Force reprocesses transcripts whose conversation record exists.
	Force bool
	// Ext selects input files; defaults to ".txt".
	Ext string
}

type Report struct {
	RunID      string             `json:"run_id"`
	Dir        string             `json:"dir"`
	Results    []processor.Result `json:"results"`
	Processed  int                `json:"processed"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	DurationMs int64              `json:"duration_ms"`
}

type Runner struct {
	proc TranscriptProcessor
	opts Options
}

func New(proc TranscriptProcessor, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Ext == "" {
		opts.Ext = ".txt"
	}
	return &Runner{proc: proc, opts: opts}
}

// Run processes every transcript in dir with bounded concurrency. Each
// call is independent: a failure is recorded on its Result and the rest
// of the batch continues. Only an unreadable dir returns an error.
func (r *Runner) Run(ctx context.Context, dir string) (Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := logger.New().WithRun(runID).WithField("component", "pipeline")

	sources, err := r.list(dir)
	if err != nil {
		return Report{RunID: runID, Dir: dir}, err
	}
	log.WithFields(logrus.Fields{"dir": dir, "transcripts": len(sources), "workers": r.opts.Workers}).Info("batch started")

	results := make([]processor.Result, len(sources))
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = r.one(ctx, log, src)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{RunID: runID, Dir: dir, Results: results}
	for _, res := range results {
		switch {
		case res.Skipped:
			rep.Skipped++
		case res.Error != "":
			rep.Failed++
		default:
			rep.Processed++
		}
	}
	rep.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"processed":   rep.Processed,
		"skipped":     rep.Skipped,
		"failed":      rep.Failed,
		"duration_ms": rep.DurationMs,
	}).Info("batch finished")
	return rep, nil
}

func (r *Runner) one(ctx context.Context, log *logrus.Entry, src string) processor.Result {
	if err := ctx.Err(); err != nil {
		return processor.Result{Source: src, Error: err.Error()}
	}
	if !r.opts.Force {
		if out := r.proc.OutputPath(src); exists(out) {
			log.WithField("transcript", filepath.Base(src)).Debug("record exists, skipping")
			return processor.Result{Source: src, Output: out, Skipped: true}
		}
	}
	res, err := r.proc.ProcessTranscript(ctx, src)
	if err != nil {
		log.WithError(err).WithField("transcript", filepath.Base(src)).Warn("transcript failed")
		if res.Error == "" {
			res.Error = err.Error()
		}
	}
	return res
}

func (r *Runner) list(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	var out []string
	for _, d := range dirents {
		if d.IsDir() || filepath.Ext(d.Name()) != r.opts.Ext {
			continue
		}
		out = append(out, filepath.Join(dir, d.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
