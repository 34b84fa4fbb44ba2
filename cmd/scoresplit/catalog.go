// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scoresplit/internal/catalog"
	"github.com/pdiddy/scoresplit/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the extraction catalog",
	Long: `Catalog queries the SQLite extraction catalog written by extract runs.
Without flags it lists every recorded exercise; filter by document or
segmentation strategy, or list documents instead.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("out-dir", "", "base output directory containing index/ (default \"output\")")
	catalogCmd.Flags().String("document", "", "filter by document ID")
	catalogCmd.Flags().String("strategy", "", "filter by strategy: labels, visual, or whole-page")
	catalogCmd.Flags().Int("limit", 0, "maximum rows (0 = all)")
	catalogCmd.Flags().Bool("documents", false, "list documents instead of exercises")
	catalogCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	outDir := stringSetting(cmd, "out-dir", types.DefaultConfig().OutDir)

	store, err := catalog.Open(outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	listDocs, _ := cmd.Flags().GetBool("documents")

	if listDocs {
		docs, err := store.Documents(context.Background())
		if err != nil {
			return err
		}
		return formatDocuments(docs, jsonOutput)
	}

	document, _ := cmd.Flags().GetString("document")
	strategy, _ := cmd.Flags().GetString("strategy")
	limit, _ := cmd.Flags().GetInt("limit")

	exercises, err := store.Exercises(context.Background(), catalog.QueryOptions{
		Document: document,
		Strategy: types.Strategy(strategy),
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return formatExercises(exercises, jsonOutput)
}

func formatExercises(exercises []types.Exercise, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(exercises)
	}

	if len(exercises) == 0 {
		fmt.Println("No exercises recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-4s  %-10s  %-6s  %s\n",
		"Document", "Page", "Strategy", "Number", "File")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, ex := range exercises {
		doc := ex.DocumentID
		if len(doc) > 24 {
			doc = doc[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-4d  %-10s  %-6d  %s\n",
			doc, ex.Page, ex.Strategy, ex.Number, ex.File)
	}
	fmt.Fprintf(os.Stdout, "\n%d exercise(s)\n", len(exercises))
	return nil
}

func formatDocuments(docs []types.Document, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-5s  %-5s  %-20s  %s\n",
		"Document", "Pages", "Scale", "Extracted", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, d := range docs {
		doc := d.ID
		if len(doc) > 24 {
			doc = doc[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-5d  %-5.1f  %-20s  %s\n",
			doc, d.Pages, d.Scale, d.ExtractedAt.Format("2006-01-02 15:04:05"), d.Path)
	}
	fmt.Fprintf(os.Stdout, "\n%d document(s)\n", len(docs))
	return nil
}
