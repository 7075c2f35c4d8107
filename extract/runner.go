package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/osti-extract/document"
	"github.com/lehigh-university-libraries/osti-extract/link"
	"github.com/lehigh-university-libraries/osti-extract/pattern"
	"github.com/lehigh-university-libraries/osti-extract/profile"
	"github.com/lehigh-university-libraries/osti-extract/sink"
)

// DocumentResult records what was persisted for one source document.
type DocumentResult struct {
	Name   string
	Values int
}

// Result summarizes a run. On failure it lists the documents that were fully
// persisted before the run stopped.
type Result struct {
	Mode      Mode
	Dir       string
	Documents []DocumentResult
	Started   time.Time
	Finished  time.Time
}

// Total returns the number of values persisted across all documents.
func (r *Result) Total() int {
	n := 0
	for _, d := range r.Documents {
		n += d.Values
	}
	return n
}

// Runner extracts values from every record in a directory.
type Runner struct {
	Matcher  *pattern.Matcher
	Deriver  link.Deriver
	Encoding string

	// Workers bounds how many documents are read and matched concurrently.
	// Values are always persisted one document at a time in enumeration order.
	Workers int

	Logger *slog.Logger

	// OnProcessed is called after all values of a document have been persisted.
	OnProcessed func(DocumentResult)
}

// NewRunner returns a runner configured from an extraction profile.
func NewRunner(p *profile.Profile) *Runner {
	return &Runner{
		Matcher:  pattern.FromProfile(p),
		Deriver:  link.FromProfile(p),
		Encoding: p.GetEncoding(),
		Workers:  p.Workers,
	}
}

type scan struct {
	name   string
	values []string
	dc     bool
	err    error
}

// Run extracts values for mode from each *.xml file in dir, in file name order,
// appending them under dir/<mode>/. It stops at the first document with no
// match, returning a *NoMatchError; values of earlier documents stay on disk.
func (r *Runner) Run(ctx context.Context, mode Mode, dir string) (*Result, error) {
	if _, ok := modeNames[mode]; !ok {
		return nil, &UnknownModeError{Option: mode.Name()}
	}

	paths, err := document.List(dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	res := &Result{Mode: mode, Dir: dir, Started: time.Now()}
	err = r.run(ctx, mode, paths, sink.New(dir), res)
	res.Finished = time.Now()
	return res, err
}

func (r *Runner) run(ctx context.Context, mode Mode, paths []string, out *sink.Sink, res *Result) error {
	logger := r.logger().With("mode", mode.Name())
	logger.Debug("scanning directory", "dir", out.Root(), "documents", len(paths), "workers", r.Workers)

	next, stop := r.scanner(ctx, mode, paths)
	defer stop()

	for i := range paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("extraction stopped before %s: %w", filepath.Base(paths[i]), err)
		}

		sc := next(i)
		if sc.err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("extraction stopped before %s: %w", sc.name, ctx.Err())
			}
			return sc.err
		}
		if len(sc.values) == 0 {
			if !sc.dc {
				logger.Warn("record does not look like Dublin Core XML", "file", sc.name)
			}
			return &NoMatchError{Mode: mode, Document: sc.name}
		}

		for _, v := range sc.values {
			if err := out.Persist(mode.Name(), sc.name, v); err != nil {
				return &IOError{Op: "persist", Path: out.Dir(mode.Name()), Err: err}
			}
			logger.Debug("persisted value", "file", sc.name, "value", v)
		}

		dr := DocumentResult{Name: sc.name, Values: len(sc.values)}
		res.Documents = append(res.Documents, dr)
		logger.Info("processed file", "file", sc.name, "values", dr.Values)
		if r.OnProcessed != nil {
			r.OnProcessed(dr)
		}
	}

	return nil
}

// scanner returns a function yielding the scan of paths[i]. Calls must ask for
// indexes in increasing order. stop releases any background work.
func (r *Runner) scanner(ctx context.Context, mode Mode, paths []string) (next func(int) scan, stop func()) {
	if r.Workers <= 1 {
		return func(i int) scan { return r.scanOne(ctx, mode, paths[i]) }, func() {}
	}
	p := r.prefetch(ctx, mode, paths)
	return p.next, p.stop
}

// prefetcher scans documents ahead of persistence. At most window documents
// are in flight or waiting to be consumed at any time.
type prefetcher struct {
	ctx     context.Context
	cancel  context.CancelFunc
	paths   []string
	results []chan scan
	window  chan struct{}
	g       errgroup.Group
	fed     chan struct{}
}

func (r *Runner) prefetch(ctx context.Context, mode Mode, paths []string) *prefetcher {
	ctx, cancel := context.WithCancel(ctx)
	p := &prefetcher{
		ctx:     ctx,
		cancel:  cancel,
		paths:   paths,
		results: make([]chan scan, len(paths)),
		window:  make(chan struct{}, 2*r.Workers),
		fed:     make(chan struct{}),
	}
	for i := range p.results {
		p.results[i] = make(chan scan, 1)
	}

	// Scans never fail the group: a failing document must not cancel scans of
	// earlier documents, which still have to be persisted.
	p.g.SetLimit(r.Workers)

	go func() {
		defer close(p.fed)
		for i, path := range paths {
			i, path := i, path
			select {
			case p.window <- struct{}{}:
			case <-ctx.Done():
				return
			}
			p.g.Go(func() error {
				p.results[i] <- r.scanOne(ctx, mode, path)
				return nil
			})
		}
	}()
	return p
}

func (p *prefetcher) next(i int) scan {
	select {
	case sc := <-p.results[i]:
		<-p.window
		return sc
	case <-p.ctx.Done():
		return scan{name: filepath.Base(p.paths[i]), err: p.ctx.Err()}
	}
}

func (p *prefetcher) stop() {
	p.cancel()
	<-p.fed
	_ = p.g.Wait()
}

func (r *Runner) scanOne(ctx context.Context, mode Mode, path string) scan {
	sc := scan{name: filepath.Base(path)}
	if err := ctx.Err(); err != nil {
		sc.err = err
		return sc
	}

	doc, err := document.Read(path, r.encoding())
	if err != nil {
		sc.err = &IOError{Op: "read", Path: path, Err: err}
		return sc
	}

	sc.values = mode.values(doc.Content, r.matcher(), r.deriver())
	sc.dc = doc.IsDublinCore()
	return sc
}

func (r *Runner) matcher() *pattern.Matcher {
	if r.Matcher != nil {
		return r.Matcher
	}
	return pattern.Default()
}

func (r *Runner) deriver() link.Deriver {
	if r.Deriver.BaseURL != "" {
		return r.Deriver
	}
	return link.Default()
}

func (r *Runner) encoding() string {
	if r.Encoding != "" {
		return r.Encoding
	}
	return profile.DefaultEncoding
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
