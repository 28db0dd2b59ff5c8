package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/logger"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Ingest documents into the knowledge base",
	Long: `Reads the given plain-text files (.txt, .md, .markdown), splits them
into chunks, embeds the chunks and stores them in the vector index.
Files are processed in parallel; one file failing does not abort the
others.

With --watch, takes a single directory and ingests files as they are
created in it, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

// uploadWatch switches upload into directory-watch mode.
var uploadWatch bool

func init() {
	uploadCmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "Watch a directory and ingest files as they appear")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if uploadWatch {
		if len(args) != 1 {
			return errors.New("--watch takes exactly one directory")
		}
		return watchDirectory(cmd, args[0])
	}

	files := make([]domain.FileUpload, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, domain.FileUpload{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	report, err := ingestService.Ingest(context.Background(), files)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	printUploadReport(cmd, report)

	if report.Failed > 0 && report.Succeeded == 0 {
		return errors.New("all files failed")
	}
	return nil
}

func printUploadReport(cmd *cobra.Command, report domain.UploadReport) {
	for _, f := range report.Files {
		if f.Err != nil {
			cmd.Printf("  failed  %s: %v\n", f.Filename, f.Err)
			continue
		}
		cmd.Printf("  ok      %s (%d chunks, id %s)\n", f.Filename, f.ChunkCount, f.DocumentID)
	}
	cmd.Printf("\n%d of %d file(s) ingested\n", report.Succeeded, report.Total)
}

// watchDirectory ingests files as they are created in dir. Runs until
// the process is interrupted.
func watchDirectory(cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if err := ingestWatched(ctx, cmd, event.Name); err != nil {
				cmd.Printf("  failed  %s: %v\n", filepath.Base(event.Name), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	report, err := ingestService.Ingest(ctx, []domain.FileUpload{{
		Filename: filepath.Base(path),
		Content:  content,
	}})
	if err != nil {
		return err
	}

	printUploadReport(cmd, report)
	return nil
}
