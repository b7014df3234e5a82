package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List collected leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runID, _ := cmd.Flags().GetString("run")
		industry, _ := cmd.Flags().GetString("industry")
		minScore, _ := cmd.Flags().GetInt("min-score")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			RunID:    runID,
			Industry: industry,
			MinScore: minScore,
			Limit:    limit,
		})
		if err != nil {
			return eris.Wrap(err, "leads list")
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}

		formatLeadsList(os.Stdout, leads)
		return nil
	},
}

func init() {
	leadsCmd.Flags().String("run", "", "filter by run id")
	leadsCmd.Flags().String("industry", "", "filter by classified industry")
	leadsCmd.Flags().Int("min-score", 0, "only leads at or above this score")
	leadsCmd.Flags().Int("limit", 50, "max number of leads to display")
	leadsCmd.Flags().Bool("json", false, "emit full records as JSON")
	rootCmd.AddCommand(leadsCmd)
}

// formatLeadsList writes a tabular list of leads to w, best scores first.
func formatLeadsList(out io.Writer, leads []model.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tCOMPANY\tINDUSTRY\tEMAIL\tPHONE\tQUALITY")
	_, _ = fmt.Fprintln(w, "-----\t-------\t--------\t-----\t-----\t-------")

	for _, l := range leads {
		name := l.CompanyName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		quality := "-"
		if l.QualityScore != nil {
			quality = fmt.Sprintf("%d (%s)", *l.QualityScore, l.QualityRating)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.LeadScore, name, l.Industry, l.Email, l.Phone, quality,
		)
	}
	_ = w.Flush()
}
