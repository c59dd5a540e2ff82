package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// watchDebounce is how long a file must stay quiet before it is
// indexed. Editors and copies emit bursts of Write events; indexing a
// half-written file would waste a delete plus a full re-embed per event.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and index changes",
	Long: `Indexes the directory, then keeps running and re-indexes files as
they are created or modified. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// debouncer coalesces event bursts into one callback per path.
type debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// trigger schedules fn for the path, replacing any pending callback so
// only the last event of a burst fires.
func (d *debouncer) trigger(path string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		fn()
	})
}

// stop cancels all pending callbacks.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	// Initial pass so the watcher only has to keep up with deltas.
	report, err := indexerService.IndexDirectory(cmd.Context(), dir, nil)
	if err != nil {
		return fmt.Errorf("initial index of %s: %w", dir, err)
	}
	cmd.Printf("initial index: %d indexed, %d skipped, %d partial, %d failed\n",
		report.Indexed, report.Skipped, report.Partial, report.Failed)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the tree, not just the top level.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	cmd.Printf("watching %s\n", dir)

	debounce := newDebouncer(watchDebounce)
	defer debounce.stop()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(cmd, watcher, debounce, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func handleWatchEvent(cmd *cobra.Command, watcher *fsnotify.Watcher, debounce *debouncer, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	// New subdirectories join the watch set.
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
		}
		return
	}

	// A write to a known file means new content, so force a re-index
	// once the burst settles.
	path := event.Name
	force := event.Has(fsnotify.Write)
	debounce.trigger(path, func() {
		indexWatchedFile(cmd, path, force)
	})
}

func indexWatchedFile(cmd *cobra.Command, path string, force bool) {
	report, err := indexerService.IndexFile(cmd.Context(), path, force)

	var partial *domain.PartialIndexError
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		// Not a file type we index.
	case errors.As(err, &partial):
		cmd.Printf("%s %s (%d of %d chunks)\n",
			color.YellowString("partial"), report.Path, partial.SuccessfulChunks, report.ChunksTotal)
	case err != nil:
		cmd.Printf("%s %s: %v\n", color.RedString("failed"), path, err)
	case report.Skipped:
		// Unchanged path, nothing to do.
	default:
		cmd.Printf("%s %s (%d chunks)\n", color.GreenString("indexed"), report.Path, report.ChunksTotal)
	}
}
