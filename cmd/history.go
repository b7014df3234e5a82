package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the cross-run dedup history",
}

// -- history show --

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List company fingerprints seen in prior runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fingerprints, ok, err := st.GetHistory(ctx, cfg.Dedup.HistoryKey)
		if err != nil {
			return eris.Wrap(err, "history show")
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "No history recorded yet.")
			return nil
		}

		for _, fp := range fingerprints {
			fmt.Println(fp)
		}
		fmt.Fprintf(os.Stderr, "%d companies remembered under %s\n", len(fingerprints), cfg.Dedup.HistoryKey)
		return nil
	},
}

// -- history clear --

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all previously scraped companies",
	Long:  "Deletes the dedup history so the next run treats every discovered company as new.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.ClearHistory(ctx, cfg.Dedup.HistoryKey); err != nil {
			return eris.Wrap(err, "history clear")
		}
		fmt.Fprintf(os.Stderr, "History %s cleared.\n", cfg.Dedup.HistoryKey)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
