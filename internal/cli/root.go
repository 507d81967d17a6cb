// Package cli implements the tutorctl administration commands.
package cli

import (
	"errors"

	"rag-tutor/internal/service"

	"github.com/spf13/cobra"
)

var (
	ingestService    service.IngestService
	retrievalService service.RetrievalService
	watchExtensions  = []string{".txt", ".md"}

	// loader builds the services on first use so that --help works without
	// a database or model provider.
	loader func() error
)

var rootCmd = &cobra.Command{
	Use:   "tutorctl",
	Short: "Administer the tutoring content store",
	Long: `tutorctl ingests syllabus text into the content store and inspects
the topics derived from it.`,
	SilenceUsage: true,
}

// Configure registers the lazy service loader and the file extensions
// picked up by the watch command.
func Configure(load func() error, extensions []string) {
	loader = load
	if len(extensions) > 0 {
		watchExtensions = extensions
	}
}

// SetServices injects ready services. The loader is skipped afterwards.
func SetServices(ingest service.IngestService, retrieval service.RetrievalService) {
	ingestService = ingest
	retrievalService = retrieval
}

func Execute() error {
	return rootCmd.Execute()
}

func ensureServices() error {
	if ingestService != nil && retrievalService != nil {
		return nil
	}
	if loader == nil {
		return errors.New("services not configured")
	}
	if err := loader(); err != nil {
		return err
	}
	if ingestService == nil || retrievalService == nil {
		return errors.New("services not configured")
	}
	return nil
}
