package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entrypoint"
)

type Summarizer interface {
	Summarize(ctx context.Context) (*catalog.Summary, error)
}

func newSummaryCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the catalog record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := entrypoint.NewApp(offlineConfig(dbPath))
			if err != nil {
				return err
			}
			defer app.Close()

			return PrintSummary(cmd.Context(), app.Catalog, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the catalog database (default: DATABASE_PATH)")
	return cmd
}

// PrintSummary writes the five catalog counts as an aligned table.
func PrintSummary(ctx context.Context, svc Summarizer, out io.Writer) error {
	summary, err := svc.Summarize(ctx)
	if err != nil {
		return fmt.Errorf("summarize catalog: %w", err)
	}

	rows := []struct {
		label string
		count int64
	}{
		{"Books", summary.BookCount},
		{"Copies", summary.BookInstanceCount},
		{"Copies available", summary.BookInstanceAvailableCount},
		{"Authors", summary.AuthorCount},
		{"Genres", summary.GenreCount},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-18s %d\n", r.label+":", r.count)
	}
	return nil
}
