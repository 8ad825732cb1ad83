package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/adapters/file"
	httpAdapter "github.com/aretw0/graft/pkg/adapters/http"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/session"
	"golang.org/x/sync/errgroup"
)

// WatchOptions contains the configuration for the watch command.
type WatchOptions struct {
	ConfigPath string
	Debug      bool
	// Listen is the address of the status server. Empty disables it.
	Listen string
	Files  []string
	Quiet  bool
	Out    io.Writer
	// Ready, when set, is called once every file is attached and watched.
	Ready func(addr string)
}

// RunWatch keeps the generated regions of files in sync while they are
// edited on disk, until ctx is done.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	cfg, err := loadConfig(opts.ConfigPath, ".")
	if err != nil {
		return err
	}
	logger := createLogger(cfg, opts.Debug)
	if !opts.Quiet {
		tui.PrintBanner(opts.Out, graft.Version)
	}

	metrics := observability.NewMetrics()
	hooks := []domain.LifecycleHooks{observability.LogHooks(logger), metrics.Hooks()}

	manager := session.NewManager(func(doc ports.Document) (session.Attached, error) {
		eng, err := graft.Attach(doc, createEngineOptions(cfg, logger.With("file", doc.ID()), hooks...)...)
		if err != nil {
			return nil, err
		}
		return eng, nil
	}, session.WithLogger(logger))
	defer manager.Close()

	var (
		srv *http.Server
		ln  net.Listener
	)
	if opts.Listen != "" {
		api := httpAdapter.NewServer(manager,
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLogger(logger),
		)
		hooks = append(hooks, api.Streams.Hooks())
		srv = &http.Server{
			Handler:           api.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		if ln, err = net.Listen("tcp", opts.Listen); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.Listen, err)
		}
		defer ln.Close()
	}

	watcher, err := file.NewWatcher(file.WithDebounce(cfg.Debounce), file.WithLogger(logger))
	if err != nil {
		return err
	}
	defer watcher.Close()

	docs := make(map[string]*file.Document, len(opts.Files))
	for _, path := range opts.Files {
		doc, err := file.Load(path, memory.WithHistoryLimit(cfg.HistoryLimit))
		if err != nil {
			return err
		}
		if _, err := manager.Acquire(doc); err != nil {
			return fmt.Errorf("failed to attach %s: %w", path, err)
		}
		if err := saveIfModified(doc, logger); err != nil {
			return err
		}
		if err := watcher.Add(doc.Path()); err != nil {
			return err
		}
		docs[doc.Path()] = doc
		logger.Info("Watching file", "path", doc.Path())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx, func(path string) {
			doc, ok := docs[path]
			if !ok {
				return
			}
			err := manager.WithDocument(path, func(session.Attached) error {
				changed, err := doc.Sync()
				if err != nil || !changed {
					return err
				}
				return saveIfModified(doc, logger)
			})
			if err != nil {
				logger.Error("Failed to sync file", "path", path, "err", err)
			}
		})
	})

	addr := ""
	if srv != nil {
		addr = ln.Addr().String()
		g.Go(func() error {
			logger.Info("Starting status server", "addr", addr)
			return srv.Serve(ln)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if !opts.Quiet {
		printSystemMessage(opts.Out, "Watching %d files. Press Ctrl+C to stop.", len(docs))
	}
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	if err := g.Wait(); !isShutdown(err) {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(opts.Out, "Stopped watching.")
	}
	return nil
}

func saveIfModified(doc *file.Document, logger *slog.Logger) error {
	if !doc.Modified() {
		return nil
	}
	if err := doc.Save(); err != nil {
		return err
	}
	logger.Info("Updated generated regions", "path", doc.Path())
	return nil
}
