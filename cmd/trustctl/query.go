package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trustidity/trustidity-go/model"
)

// addQueryFlags registers the shared list flags on a command.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number (1-based)")
	cmd.Flags().Int("page-size", model.DefaultPageSize, "results per page (max 100)")
	cmd.Flags().String("search", "", "free-text search")
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().String("type", "", "filter by type")
	cmd.Flags().String("role", "", "filter by role")
}

// queryFromFlags builds a QueryRequest from the shared list flags.
func queryFromFlags(cmd *cobra.Command) model.QueryRequest {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	typ, _ := cmd.Flags().GetString("type")
	role, _ := cmd.Flags().GetString("role")

	return model.QueryRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		Status:   status,
		Type:     typ,
		Role:     role,
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

// newTabWriter returns a tabwriter on stdout with the usual settings.
func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// printFooter writes the pagination line under a table.
func printFooter(p model.Pagination) {
	fmt.Printf("\nPage %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
}
