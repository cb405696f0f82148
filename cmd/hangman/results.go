package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcrodman/hangman/internal/core/data"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Lists recently finished games from the configured database",
	Run:   ResultsCommand,
}

var LimitFlag int

func ResultsCommand(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if cfg.Database.Engine == "" {
		fmt.Println("no database engine configured (set database.engine)")
		os.Exit(1)
	}

	db, err := data.Open(cfg.Database.Engine, cfg.Database.Filename, cfg.DatabaseURL(), cfg.Debugging.DatabaseLoggingEnabled)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer data.Close(db)

	records, err := data.FindRecentGameRecords(db, LimitFlag)
	if err != nil {
		fmt.Println("error loading results:", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENDED\tREMOTE\tWORD\tOUTCOME\tGUESSED\tREMAINING")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.EndedAt.Format(time.DateTime), r.RemoteAddr, r.Word, r.Outcome, r.Guessed, r.Remaining)
	}
	w.Flush()

	counts, err := data.CountOutcomes(db)
	if err != nil {
		fmt.Println("error counting outcomes:", err)
		os.Exit(1)
	}
	outcomes := make([]string, 0, len(counts))
	for outcome := range counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		fmt.Printf("%s: %d\n", outcome, counts[outcome])
	}
}
