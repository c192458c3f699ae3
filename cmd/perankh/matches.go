// Matches commands for the perankh CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagMatchesCollection int64

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List and manage imported matches",
	RunE:  runMatchesList,
}

var matchesDeleteCmd = &cobra.Command{
	Use:   "delete <match-id>",
	Short: "Delete a match and all its data",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchesDelete,
}

func init() {
	matchesCmd.Flags().Int64Var(&flagMatchesCollection, "collection", 0, "restrict to one collection (0 = all)")
	matchesCmd.AddCommand(matchesDeleteCmd)
}

func runMatchesList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := st.ListMatches(flagMatchesCollection)
	if err != nil {
		return err
	}

	if flagJSON {
		out, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTURNS\tSAVED\tWINNER\tVICTORY")
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			m.MatchID, strOr(m.GameName, m.GameID), m.TotalTurns,
			strOr(m.SaveDate, ""), strOr(m.WinnerName, "-"), strOr(m.VictoryType, "-"))
	}
	return w.Flush()
}

func runMatchesDelete(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteMatch(matchID); err != nil {
		return err
	}
	fmt.Printf("Deleted match %d\n", matchID)
	return nil
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
