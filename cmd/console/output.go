package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Dosada05/arena-admin/console"
	"github.com/Dosada05/arena-admin/models"
)

const timeLayout = "2006-01-02 15:04"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEvents(w io.Writer, events []models.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "no events")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGAME\tSTATUS\tAPPROVAL\tSPOTS\tSTART")
	for _, e := range events {
		start := "-"
		if !e.ScheduleTime.IsZero() {
			start = e.ScheduleTime.Local().Format(timeLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			e.ID, e.Title, e.Game, e.Status, e.ApprovalStatus, e.SpotsLeft, e.MaxPlayers, start)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s console.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "events\t%d\n", s.Events)
	fmt.Fprintf(tw, "awaiting approval\t%d\n", s.PendingApprovals)
	fmt.Fprintf(tw, "live\t%d\n", s.LiveEvents)
	fmt.Fprintf(tw, "upcoming\t%d\n", s.UpcomingEvents)
	fmt.Fprintf(tw, "pending deposits\t%d (%d)\n", s.PendingDeposits, s.PendingDepositTotal)
	fmt.Fprintf(tw, "pending withdrawals\t%d (%d)\n", s.PendingWithdrawals, s.PendingWithdrawalTotal)
	fmt.Fprintf(tw, "balance\t%d\n", s.Balance)
	return tw.Flush()
}

func printDeposits(w io.Writer, deposits []models.Deposit) error {
	if len(deposits) == 0 {
		_, err := fmt.Fprintln(w, "no pending deposits")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tAMOUNT\tTRANSACTION\tREQUESTED")
	for _, d := range deposits {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			d.ID, d.UserID, d.Amount, d.TransactionID, d.CreatedAt.Local().Format(timeLayout))
	}
	return tw.Flush()
}

func printWithdrawals(w io.Writer, withdrawals []models.Withdrawal) error {
	if len(withdrawals) == 0 {
		_, err := fmt.Fprintln(w, "no pending withdrawals")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tAMOUNT\tMETHOD\tACCOUNT\tREQUESTED")
	for _, wd := range withdrawals {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			wd.ID, wd.UserID, wd.Amount, wd.Method, wd.AccountRef, wd.CreatedAt.Local().Format(timeLayout))
	}
	return tw.Flush()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pastTense(verb string) string {
	return strings.TrimSuffix(verb, "e") + "ed"
}
