package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trustidity/trustidity-go/internal/filter"
	"github.com/trustidity/trustidity-go/model"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Browse the platform audit trail",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := auditLogs.List(cmd.Context(), queryFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("listing audit logs: %w", err)
		}

		window, _ := cmd.Flags().GetString("window")
		items := filter.Apply(result.Items,
			filter.InWindow[model.AuditLog](filter.Window(window), time.Now(),
				func(l model.AuditLog) time.Time { return l.CreatedAt }))

		if jsonOutput {
			printJSON(items)
			return nil
		}

		w := newTabWriter()
		fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tTARGET")
		for _, entry := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				entry.CreatedAt.Format(time.RFC3339), entry.Actor, entry.Action, entry.Target)
		}
		w.Flush()
		printFooter(result.Pagination)
		return nil
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Browse subscription plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscription plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := plans.List(cmd.Context(), queryFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("listing plans: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		w := newTabWriter()
		fmt.Fprintln(w, "NAME\tPRICE\tVERIFICATIONS\tAUDIENCE")
		for _, plan := range result.Items {
			fmt.Fprintf(w, "%s\t%.2f %s/mo\t%d\t%s\n",
				plan.Name, plan.PriceMonthly, plan.Currency, plan.Verifications, plan.Audience)
		}
		w.Flush()
		printFooter(result.Pagination)
		return nil
	},
}

func init() {
	addQueryFlags(logsListCmd)
	logsListCmd.Flags().String("window", "all", "time window (7days, 30days, 90days, all)")
	addQueryFlags(plansListCmd)

	logsCmd.AddCommand(logsListCmd)
	plansCmd.AddCommand(plansListCmd)
}
