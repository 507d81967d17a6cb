package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"rag-tutor/internal/dto"

	"github.com/spf13/cobra"
)

var topicsJSON bool

var topicsCmd = &cobra.Command{
	Use:   "topics [subject] [year]",
	Short: "List derived topics",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopics,
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "output topics as JSON")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	var year int
	if _, err := fmt.Sscanf(args[1], "%d", &year); err != nil {
		return fmt.Errorf("invalid year %q", args[1])
	}

	if err := ensureServices(); err != nil {
		return err
	}

	resp, err := retrievalService.RetrieveTopics(context.Background(), dto.TopicsRequest{
		Subject: args[0],
		Year:    year,
	})
	if err != nil {
		return fmt.Errorf("failed to list topics: %w", err)
	}

	if topicsJSON {
		data, err := json.MarshalIndent(resp.Topics, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal topics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(resp.Topics) == 0 {
		cmd.Println("No topics found.")
		return nil
	}
	for _, t := range resp.Topics {
		cmd.Printf("  %-20s %s\n", t.Key, t.Label)
	}
	return nil
}
