package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"rag-tutor/internal/dto"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	watchDir     string
	watchSubject string
	watchYear    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest files dropped into a directory",
	Long: `Watches a directory and ingests every created or rewritten file whose
extension is configured under ingest.watch_extensions. The file name without
its extension becomes the source label.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", ".", "directory to watch")
	watchCmd.Flags().StringVarP(&watchSubject, "subject", "s", "", "subject of the ingested files")
	watchCmd.Flags().IntVarP(&watchYear, "year", "y", 0, "school year of the ingested files")
	_ = watchCmd.MarkFlagRequired("subject")
	_ = watchCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for %s files...\n", watchDir, strings.Join(watchExtensions, ", "))
	return watchLoop(ctx, cmd, watcher.Events, watcher.Errors)
}

func watchLoop(ctx context.Context, cmd *cobra.Command, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := handleWatchEvent(ctx, cmd, event); err != nil {
				cmd.PrintErrf("%s: %v\n", event.Name, err)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		}
	}
}

// handleWatchEvent ingests the file behind a create or write event. Other
// operations and unwatched extensions are ignored.
func handleWatchEvent(ctx context.Context, cmd *cobra.Command, event fsnotify.Event) error {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	if !watchedExtension(event.Name) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}

	text, err := os.ReadFile(event.Name)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	// Editors often create an empty file before writing to it.
	if strings.TrimSpace(string(text)) == "" {
		return nil
	}

	source := sourceFromPath(event.Name)
	resp, err := ingestService.Ingest(ctx, dto.IngestRequest{
		Subject: watchSubject,
		Year:    watchYear,
		Source:  source,
		Text:    string(text),
		File:    fileInfo(event.Name),
	})
	if err != nil {
		return err
	}

	printIngestResult(cmd, source, resp)
	return nil
}

func watchedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(watchExtensions, ext)
}
