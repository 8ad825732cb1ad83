package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/presentation/report"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/domain"
)

// Scan output formats.
const (
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
	FormatJSON     = "json"
)

// ScanOptions contains the configuration for the scan command.
type ScanOptions struct {
	ConfigPath string
	Debug      bool
	Path       string
	Format     string
	// Styled renders markdown for the terminal. It is ignored by other formats.
	Styled bool
	Out    io.Writer
}

// RunScan reports the blocks of a file and whether its regions are up to
// date. The file is never written.
func RunScan(opts ScanOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}

	cfg, err := loadConfig(opts.ConfigPath, ".")
	if err != nil {
		return err
	}
	logger := createLogger(cfg, opts.Debug)

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.Path, err)
	}

	var changes atomic.Int32
	counter := domain.LifecycleHooks{
		OnRegenerate: func(e *domain.BlockEvent) {
			switch e.Outcome {
			case domain.OutcomeInserted, domain.OutcomeReplaced, domain.OutcomeRemoved:
				changes.Add(1)
			}
		},
	}

	eng, buf, err := graft.Open(string(data), createEngineOptions(cfg, logger, counter)...)
	if err != nil {
		return err
	}
	defer eng.Close()

	r := report.Build(opts.Path, buf.Current(), eng.Blocks())
	r.Changes = int(changes.Load())

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMermaid:
		_, err := fmt.Fprint(opts.Out, r.Mermaid())
		return err
	case FormatMarkdown:
		out, err := tui.NewRenderer(opts.Styled)(r.Markdown())
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = fmt.Fprint(opts.Out, out)
		return err
	}
	return fmt.Errorf("unknown format %q (use markdown, mermaid or json)", opts.Format)
}
