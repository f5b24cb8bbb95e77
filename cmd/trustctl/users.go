package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage platform user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := users.List(cmd.Context(), queryFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		w := newTabWriter()
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
		for _, u := range result.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
		}
		w.Flush()
		printFooter(result.Pagination)
		return nil
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := users.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}
		printJSON(u)
		return nil
	},
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <id> <role>",
	Short: "Change a user's platform role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := users.UpdateRole(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("updating role: %w", err)
		}
		fmt.Printf("User %s is now %s.\n", args[0], args[1])
		return nil
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := users.Deactivate(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deactivating user: %w", err)
		}
		fmt.Printf("User %s deactivated.\n", args[0])
		return nil
	},
}

func init() {
	addQueryFlags(usersListCmd)

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersSetRoleCmd)
	usersCmd.AddCommand(usersDeactivateCmd)
}
