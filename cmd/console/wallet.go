package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Args:  cobra.ExactArgs(0),
	Short: "Show pending work and totals",
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Args:  cobra.ExactArgs(0),
	Short: "Show the signed-in account's wallet balance",
	RunE: func(cmd *cobra.Command, _args []string) error {
		res := current.client.Balance(cmd.Context())
		if err := res.Err(); err != nil {
			return requireLogin(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Data)
		return nil
	},
}

var creditCmd = &cobra.Command{
	Use:   "credit USER_ID AMOUNT",
	Args:  cobra.ExactArgs(2),
	Short: "Add funds to a player's wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("amount %q is not a whole number", args[1])
		}
		balance, err := current.admin.Credit(cmd.Context(), args[0], amount)
		if err != nil {
			return requireLogin(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "new balance of %s: %d\n", args[0], balance)
		return nil
	},
}

var depositsCmd = &cobra.Command{
	Use:   "deposits",
	Short: "Review deposit requests",
}

var withdrawalsCmd = &cobra.Command{
	Use:   "withdrawals",
	Short: "Review withdrawal requests",
}

func init() {
	asJSON := dashboardCmd.Flags().Bool("json", false, "print JSON")
	dashboardCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		sum, err := current.admin.Dashboard(cmd.Context())
		if err != nil {
			return requireLogin(err)
		}
		if *asJSON {
			return printJSON(cmd.OutOrStdout(), sum)
		}
		return printSummary(cmd.OutOrStdout(), sum)
	}

	depositsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Args:  cobra.ExactArgs(0),
			Short: "Show pending deposits",
			RunE: func(cmd *cobra.Command, _args []string) error {
				deposits, err := current.admin.PendingDeposits(cmd.Context())
				if err != nil {
					return requireLogin(err)
				}
				return printDeposits(cmd.OutOrStdout(), deposits)
			},
		},
		depositDecisionCmd("approve"),
		depositDecisionCmd("reject"),
	)

	withdrawalsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Args:  cobra.ExactArgs(0),
			Short: "Show pending withdrawals",
			RunE: func(cmd *cobra.Command, _args []string) error {
				withdrawals, err := current.admin.PendingWithdrawals(cmd.Context())
				if err != nil {
					return requireLogin(err)
				}
				return printWithdrawals(cmd.OutOrStdout(), withdrawals)
			},
		},
		withdrawalDecisionCmd("approve"),
		withdrawalDecisionCmd("reject"),
	)
}

func depositDecisionCmd(verb string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " ID",
		Args:  cobra.ExactArgs(1),
		Short: fmt.Sprintf("%s a pending deposit", capitalize(verb)),
	}
	note := cmd.Flags().String("note", "", "note shown to the player")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		decide := current.admin.ApproveDeposit
		if verb == "reject" {
			decide = current.admin.RejectDeposit
		}
		d, err := decide(cmd.Context(), args[0], *note)
		if err != nil {
			return requireLogin(err)
		}
		if d == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "deposit %s: %s\n", args[0], pastTense(verb))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deposit %s: %s\n", d.ID, d.Status)
		return nil
	}
	return cmd
}

func withdrawalDecisionCmd(verb string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " ID",
		Args:  cobra.ExactArgs(1),
		Short: fmt.Sprintf("%s a pending withdrawal", capitalize(verb)),
	}
	notes := cmd.Flags().String("notes", "", "notes shown to the player")
	txID := cmd.Flags().String("transaction-id", "", "payout reference (approve only)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var err error
		id, status := args[0], pastTense(verb)
		if verb == "approve" {
			w, e := current.admin.ApproveWithdrawal(ctx, args[0], *notes, *txID)
			err = e
			if w != nil {
				id, status = w.ID, string(w.Status)
			}
		} else {
			w, e := current.admin.RejectWithdrawal(ctx, args[0], *notes)
			err = e
			if w != nil {
				id, status = w.ID, string(w.Status)
			}
		}
		if err != nil {
			return requireLogin(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "withdrawal %s: %s\n", id, status)
		return nil
	}
	return cmd
}
