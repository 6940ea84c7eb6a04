// cmd/watch.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/5uh417/blog/internal/config"
)

var debounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-checks settings and routes whenever the config or content changes",
	Long: `The watch command validates the settings and resolves the route table,
then watches the config file, the publish overlay and the content directory.
On every change the settings are reloaded from scratch and checked again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout())
	},
}

// refresh reloads the settings and reports problems without stopping the watch.
func refresh(ctx context.Context, w io.Writer) *config.Settings {
	s, err := loadSettings()
	if err != nil {
		slog.Error("reload failed", "error", err)
		return nil
	}
	if err := runCheck(w, s, rootDir, true); err != nil {
		slog.Error("check failed", "error", err)
		return s
	}
	routes, err := buildRoutes(ctx, s, rootDir)
	if err != nil {
		slog.Error("routing failed", "error", err)
		return s
	}
	fmt.Fprintf(w, "%d routes resolved\n", len(routes))
	return s
}

func runWatch(ctx context.Context, w io.Writer) error {
	slog.Info("performing initial check")
	current := refresh(ctx, w)
	if current == nil {
		current = settings
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range []string{cfgFile, publishFile} {
		if f == "" {
			continue
		}
		// watch the directory: editors replace files on save
		if err := watcher.Add(filepath.Dir(f)); err != nil {
			slog.Warn("failed to watch config directory", "path", f, "error", err)
		}
	}
	// the project directory holds the searched config file and .env
	if err := watcher.Add(rootDir); err != nil {
		slog.Warn("failed to watch project directory", "path", rootDir, "error", err)
	}
	addContentWatches(watcher, current)

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			slog.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			slog.Info("re-checking settings after changes")
			if s := refresh(ctx, w); s != nil {
				current = s
				addContentWatches(watcher, current)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func addContentWatches(watcher *fsnotify.Watcher, s *config.Settings) {
	root := s.Path
	if !filepath.IsAbs(root) {
		root = filepath.Join(rootDir, root)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		slog.Warn("content directory not found, not watching", "path", root)
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("error walking content", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				slog.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("error during content walk", "path", root, "error", err)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before re-checking")
	rootCmd.AddCommand(watchCmd)
}
