package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trustidity/trustidity-go/internal/resource"
)

var verificationsCmd = &cobra.Command{
	Use:   "verifications",
	Short: "Manage credential verification requests",
}

var verificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List verification requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := verifications.List(cmd.Context(), queryFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("listing verifications: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		w := newTabWriter()
		fmt.Fprintln(w, "REFERENCE\tDOCUMENT\tINSTITUTION\tSTATUS\tSUBMITTED")
		for _, req := range result.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				req.Reference, req.DocumentName, req.Institution, req.Status,
				req.SubmittedAt.Format("2006-01-02"))
		}
		w.Flush()
		printFooter(result.Pagination)
		return nil
	},
}

var verificationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one verification request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := verifications.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching verification: %w", err)
		}
		printJSON(req)
		return nil
	},
}

var verificationsSubmitCmd = &cobra.Command{
	Use:   "submit <document-file>",
	Short: "Submit a document for verification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docType, _ := cmd.Flags().GetString("document-type")
		institutionID, _ := cmd.Flags().GetString("institution")

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		req, err := verifications.Submit(cmd.Context(), resource.SubmitVerification{
			DocumentType:  docType,
			InstitutionID: institutionID,
			Filename:      filepath.Base(args[0]),
			Content:       content,
		})
		if err != nil {
			return fmt.Errorf("submitting verification: %w", err)
		}
		fmt.Printf("Submitted verification %s (status %s).\n", req.Reference, req.Status)
		return nil
	},
}

var verificationsStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Update the status of a verification request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		if err := verifications.UpdateStatus(cmd.Context(), args[0], args[1], note); err != nil {
			return fmt.Errorf("updating verification status: %w", err)
		}
		fmt.Printf("Verification %s is now %s.\n", args[0], args[1])
		return nil
	},
}

func init() {
	addQueryFlags(verificationsListCmd)
	verificationsSubmitCmd.Flags().String("document-type", "", "document type (degree, transcript, certificate)")
	verificationsSubmitCmd.Flags().String("institution", "", "issuing institution ID")
	verificationsSubmitCmd.MarkFlagRequired("document-type")
	verificationsSubmitCmd.MarkFlagRequired("institution")
	verificationsStatusCmd.Flags().String("note", "", "reviewer note")

	verificationsCmd.AddCommand(verificationsListCmd)
	verificationsCmd.AddCommand(verificationsShowCmd)
	verificationsCmd.AddCommand(verificationsSubmitCmd)
	verificationsCmd.AddCommand(verificationsStatusCmd)
}
