package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/config"
	"golang.org/x/sync/errgroup"
)

// StdinPath selects standard input as the document.
const StdinPath = "-"

// GenerateOptions contains the configuration for the generate command.
type GenerateOptions struct {
	ConfigPath string
	Debug      bool
	// Check reports out-of-date files without writing them.
	Check bool
	// Diff prints a unified diff instead of writing files.
	Diff  bool
	Files []string
	Jobs  int
	In    io.Reader
	Out   io.Writer
}

type generateResult struct {
	path    string
	before  string
	after   string
	stdin   bool
	written bool
	err     error
}

// RunGenerate brings the generated regions of every file up to date.
// Files are processed concurrently; output is printed in argument order.
func RunGenerate(ctx context.Context, opts GenerateOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if len(opts.Files) == 0 {
		opts.Files = []string{StdinPath}
	}

	cfg, err := loadConfig(opts.ConfigPath, ".")
	if err != nil {
		return err
	}
	logger := createLogger(cfg, opts.Debug)

	results := make([]generateResult, len(opts.Files))
	g, gctx := errgroup.WithContext(ctx)
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g.SetLimit(jobs)

	for i, path := range opts.Files {
		i, path := i, path
		if path == StdinPath {
			results[i] = generateStdin(opts, cfg, logger)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = generateFile(path, opts, cfg, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printResults(opts, results)
}

func generateStdin(opts GenerateOptions, cfg config.Config, logger *slog.Logger) generateResult {
	res := generateResult{path: "<stdin>", stdin: true}
	data, err := io.ReadAll(opts.In)
	if err != nil {
		res.err = fmt.Errorf("input error: %w", err)
		return res
	}
	res.before = string(data)
	res.after, res.err = graft.Generate(res.before, createEngineOptions(cfg, logger)...)
	return res
}

func generateFile(path string, opts GenerateOptions, cfg config.Config, logger *slog.Logger) generateResult {
	res := generateResult{path: path}
	doc, err := file.Load(path, memory.WithHistoryLimit(cfg.HistoryLimit))
	if err != nil {
		res.err = err
		return res
	}
	res.before = doc.Text()

	eng, err := graft.Attach(doc, createEngineOptions(cfg, logger.With("file", path))...)
	if err != nil {
		res.err = err
		return res
	}
	defer eng.Close()

	res.after = doc.Text()
	if eng.NeedsRescan() {
		res.err = fmt.Errorf("%s: document structure needs repair", path)
	}
	if opts.Check || opts.Diff || !doc.Modified() {
		return res
	}
	if err := doc.Save(); err != nil {
		res.err = errors.Join(res.err, err)
		return res
	}
	res.written = true
	return res
}

// printResults prints results in order and returns the combined outcome.
func printResults(opts GenerateOptions, results []generateResult) error {
	var errs []error
	stale := 0
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		changed := res.after != "" && res.after != res.before

		switch {
		case res.stdin && !opts.Check && !opts.Diff:
			// A failed run still passes the input through.
			out := res.after
			if out == "" && res.err != nil {
				out = res.before
			}
			fmt.Fprint(opts.Out, out)
		case opts.Diff:
			fmt.Fprint(opts.Out, unifiedDiff(res.path, res.before, res.after))
		case opts.Check && changed:
			fmt.Fprintf(opts.Out, "%s: out of date\n", res.path)
		case res.written:
			printSystemMessage(opts.Out, "Updated '%s'.", res.path)
		}
		if changed {
			stale++
		}
	}

	if opts.Check && stale > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d files", ErrOutOfDate, stale, len(results)))
	}
	return errors.Join(errs...)
}
