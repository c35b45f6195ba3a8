package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ctxbench/ctxbench/internal/bench"
	"github.com/ctxbench/ctxbench/internal/config"
	"github.com/ctxbench/ctxbench/internal/project"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

func newWatchCmd() *cobra.Command {
	var (
		debounceMs int
		topK       int
		rootDir    string
	)

	cmd := &cobra.Command{
		Use:   "watch <query>",
		Short: "Re-run the comparison whenever project files change",
		Long: `Start a long-running watcher that re-runs the comparison for a fixed query
every time project files change, so you can see how edits move the numbers.

Changes are debounced so that rapid edits (e.g. saving multiple files at once)
are batched into a single re-run.

Press Ctrl-C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}

			global, projCfg, _ := config.Load(root)
			counter, err := tokens.New(global.Counter)
			if err != nil {
				counter, _ = tokens.New(tokens.DefaultCounter)
			}
			renderer, ok := bench.RendererFor(global.Format)
			if !ok {
				renderer, _ = bench.RendererFor("text")
			}

			rag, naive := buildStrategies(root, global, projCfg, counter, topK)
			comp := &bench.Comparator{
				RAG:         rag,
				Naive:       naive,
				CounterName: counter.Name(),
				Root:        root,
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			ignore := project.NewIgnoreMatcher(root)

			// Add all non-ignored directories recursively.
			if err := addWatchDirs(watcher, root, ignore); err != nil {
				return fmt.Errorf("add watch directories: %w", err)
			}

			debounce := time.Duration(debounceMs) * time.Millisecond

			fmt.Printf("Watching %s for changes (debounce %s). Press Ctrl-C to stop.\n", root, debounce)

			// Baseline run before the first change.
			runAndRender(comp, renderer, query)

			// Handle Ctrl-C gracefully.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			timer := time.NewTimer(debounce)
			timer.Stop() // Don't fire immediately.
			dirty := false

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}

					rel, err := filepath.Rel(root, event.Name)
					if err != nil || rel == "." {
						continue
					}

					if shouldIgnoreEvent(rel, ignore) {
						continue
					}

					// If a new directory was created, start watching it.
					if event.Has(fsnotify.Create) {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							if !project.HardIgnore(filepath.Base(event.Name)) {
								_ = watcher.Add(event.Name)
							}
							continue
						}
					}

					if project.SkipFile(filepath.Base(rel)) {
						continue
					}
					// Our own files never warrant a re-run.
					if isOwnArtifact(filepath.Base(rel)) {
						continue
					}

					dirty = true
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					if !dirty {
						continue
					}
					dirty = false

					ts := time.Now().Format("15:04:05")
					fmt.Printf("\n[%s] change detected, re-running\n", ts)
					runAndRender(comp, renderer, query)
				}
			}
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "debounce interval in milliseconds")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "chunks to retrieve (default from config)")
	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "project root (default: auto-detect from cwd)")

	return cmd
}

// runAndRender executes one comparison and prints the report. Failures are
// diagnostics; the watcher keeps running.
func runAndRender(comp *bench.Comparator, renderer bench.Renderer, query string) {
	report := comp.Run(context.Background(), query)
	warnStrategyErrors(report)

	out, err := renderer.Render(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: render failed: %v\n", err)
		return
	}
	fmt.Print(out)
}

// addWatchDirs recursively adds directories to the watcher, skipping ignored ones.
func addWatchDirs(watcher *fsnotify.Watcher, root string, ignore *project.IgnoreMatcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if project.HardIgnore(name) {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		if rel != "." && ignore.Match(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnoreEvent checks whether a relative path should be ignored by the watcher.
func shouldIgnoreEvent(rel string, ignore *project.IgnoreMatcher) bool {
	parts := strings.Split(rel, string(filepath.Separator))
	for _, p := range parts {
		if project.HardIgnore(p) {
			return true
		}
	}
	return ignore.Match(rel)
}

// isOwnArtifact recognizes the files ctxbench itself writes into a project:
// the config and the context dumps.
func isOwnArtifact(name string) bool {
	if name == ".ctxbench.toml" {
		return true
	}
	return strings.HasPrefix(name, "ctxbench-") && strings.HasSuffix(name, "-context.txt")
}
