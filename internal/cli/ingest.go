package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"rag-tutor/internal/dto"

	"github.com/spf13/cobra"
)

var (
	ingestFile    string
	ingestSubject string
	ingestYear    int
	ingestSource  string
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest syllabus text",
	Long: `Chunks, embeds and stores syllabus text read from --file or stdin.
The source label defaults to the file name without its extension.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "text file to ingest (default: stdin)")
	ingestCmd.Flags().StringVarP(&ingestSubject, "subject", "s", "", "subject, e.g. BM")
	ingestCmd.Flags().IntVarP(&ingestYear, "year", "y", 0, "school year (1-6)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source label, e.g. \"Unit 3 Haiwan\"")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	_ = ingestCmd.MarkFlagRequired("subject")
	_ = ingestCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	var (
		text []byte
		err  error
	)
	if ingestFile != "" {
		text, err = os.ReadFile(ingestFile)
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	source := ingestSource
	if source == "" {
		if ingestFile == "" {
			return fmt.Errorf("--source is required when reading from stdin")
		}
		source = sourceFromPath(ingestFile)
	}

	req := dto.IngestRequest{
		Subject: ingestSubject,
		Year:    ingestYear,
		Source:  source,
		Text:    string(text),
	}
	if ingestFile != "" {
		req.File = fileInfo(ingestFile)
	}

	resp, err := ingestService.Ingest(context.Background(), req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printIngestResult(cmd, source, resp)
	return nil
}

func printIngestResult(cmd *cobra.Command, source string, resp *dto.IngestResponse) {
	cmd.Printf("%s: stored %d of %d chunks\n", source, resp.InsertedCount, resp.ChunkCount)
	for _, e := range resp.Errors {
		cmd.Printf("  chunk %d: %s\n", e.ChunkIndex, e.Message)
	}
}

func sourceFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fileInfo(path string) *dto.FileInfo {
	return &dto.FileInfo{
		Name:     filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
	}
}
