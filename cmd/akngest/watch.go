package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/parser"
)

var (
	watchFl      convFlags
	watchOut     string
	watchSettle  time.Duration
	watchPublish bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert every Final Acts export dropped into a directory",
	Long: `watch converts each supported file created or rewritten in <dir>, once it
has stopped changing, into <out>/<name>/. It runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := watchFl.options(cmd, cfg)
		if err != nil {
			return err
		}
		r, err := newRunner(cmd, cfg, opts, watchPublish, true)
		if err != nil {
			return err
		}
		defer r.Close()

		log := newLogger(cmd.ErrOrStderr())
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(args[0]); err != nil {
			return fmt.Errorf("watching directory %s: %w", args[0], err)
		}
		log.Info("watching", "dir", args[0], "out", watchOut)

		ctx := cmd.Context()
		return watchLoop(ctx, watcher, watchSettle, log, func(path string) {
			job, err := r.convert(ctx, path)
			if err != nil {
				log.Error("conversion failed", "file", path, "error", err)
				return
			}
			dir := filepath.Join(watchOut, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			written, err := convert.WriteOutputs(dir, job.Result(), true, akn.Options{Generated: job.CreatedAt})
			if err != nil {
				log.Error("write failed", "file", path, "error", err)
				return
			}
			renderJob(cmd.OutOrStdout(), job.Snapshot(), written)
		})
	},
}

func init() {
	watchFl.bind(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "akn", "Output directory")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", time.Second, "Quiet period before a changed file is converted")
	watchCmd.Flags().BoolVar(&watchPublish, "publish", false, "Publish the statements to pathstore")
}

// watchLoop calls handle for each supported file once settle has passed
// since its last create or write event. It returns when ctx is done or the
// watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, settle time.Duration, log *slog.Logger, handle func(path string)) error {
	if settle <= 0 {
		settle = time.Second
	}
	pending := make(map[string]time.Time)
	tick := time.NewTicker(settle / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !parser.IsSupportedExtension(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				pending[event.Name] = time.Now()
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				delete(pending, event.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				log.Debug("file settled", "file", path)
				handle(path)
			}
		}
	}
}
