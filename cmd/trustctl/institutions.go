package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustidity/trustidity-go/internal/resource"
)

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "Manage credential-issuing institutions",
}

var institutionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List institutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := institutions.List(cmd.Context(), queryFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("listing institutions: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tLOCATION\tSTATUS")
		for _, inst := range result.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				inst.ID, inst.Name, inst.Type, inst.Location, inst.Status)
		}
		w.Flush()
		printFooter(result.Pagination)
		return nil
	},
}

var institutionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := institutions.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching institution: %w", err)
		}
		printJSON(inst)
		return nil
	},
}

var institutionsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := institutions.Approve(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("approving institution: %w", err)
		}
		fmt.Printf("Institution %s approved.\n", args[0])
		return nil
	},
}

var institutionsSuspendCmd = &cobra.Command{
	Use:   "suspend <id>",
	Short: "Suspend an institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		if err := institutions.Suspend(cmd.Context(), args[0], reason); err != nil {
			return fmt.Errorf("suspending institution: %w", err)
		}
		fmt.Printf("Institution %s suspended.\n", args[0])
		return nil
	},
}

var institutionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := institutions.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting institution: %w", err)
		}
		fmt.Println("Institution deleted.")
		return nil
	},
}

var institutionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new institution",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		typ, _ := cmd.Flags().GetString("type")
		email, _ := cmd.Flags().GetString("email")
		location, _ := cmd.Flags().GetString("location")

		inst, err := institutions.Create(cmd.Context(), resource.CreateInstitution{
			Name:     name,
			Type:     typ,
			Email:    email,
			Location: location,
		})
		if err != nil {
			return fmt.Errorf("creating institution: %w", err)
		}
		fmt.Printf("Created institution %s (%s).\n", inst.Name, inst.ID)
		return nil
	},
}

func init() {
	addQueryFlags(institutionsListCmd)
	institutionsSuspendCmd.Flags().String("reason", "", "reason for suspension")
	institutionsCreateCmd.Flags().String("name", "", "institution name")
	institutionsCreateCmd.Flags().String("type", "", "institution type (university, college, professional_body)")
	institutionsCreateCmd.Flags().String("email", "", "contact email")
	institutionsCreateCmd.Flags().String("location", "", "location")
	institutionsCreateCmd.MarkFlagRequired("name")
	institutionsCreateCmd.MarkFlagRequired("type")
	institutionsCreateCmd.MarkFlagRequired("email")

	institutionsCmd.AddCommand(institutionsListCmd)
	institutionsCmd.AddCommand(institutionsShowCmd)
	institutionsCmd.AddCommand(institutionsApproveCmd)
	institutionsCmd.AddCommand(institutionsSuspendCmd)
	institutionsCmd.AddCommand(institutionsDeleteCmd)
	institutionsCmd.AddCommand(institutionsCreateCmd)
}
