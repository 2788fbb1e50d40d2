package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/zimjson"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Index.FindRuns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimjson.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'zimjson --sqlite <path>' to index one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d records  %s\n",
			r.ID, r.CommittedAt.Format(time.RFC3339), r.RecordCount, r.Source)
	}

	return nil
}
