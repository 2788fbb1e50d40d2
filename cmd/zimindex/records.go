package main

import (
	"fmt"

	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/fs"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	if c.Limit < 0 || c.Offset < 0 {
		return zimjson.Errorf(zimjson.EINVALID, "limit and offset must not be negative")
	}

	runID, err := c.resolveRun(deps)
	if err != nil {
		return err
	}

	filter := zimjson.RecordFilter{RunID: &runID, Limit: c.Limit, Offset: c.Offset}
	if c.Type != "" {
		filter.Type = &c.Type
	}
	if c.Path != "" {
		filter.Path = &c.Path
	}

	records, err := deps.Index.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimjson.ErrorMessage(err))
		return err
	}

	if c.JSON {
		out := make([]*zimjson.Record, len(records))
		for i, r := range records {
			out[i] = r.Record
		}
		return fs.EncodeRecords(deps.Stdout, out)
	}

	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No records found in run %s.\n", runID)
		return nil
	}

	if c.Markdown {
		for _, r := range records {
			if r.Markdown == "" {
				continue
			}
			fmt.Fprintf(deps.Stdout, "## %s\n\n%s\n\n", r.Path, r.Markdown)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Records of run %s (%d shown):\n\n", runID, len(records))
	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "  %d. [%s] %s\n     %s  %s\n", r.ID, r.Type, r.Title, r.Path, r.ContentHash)
	}

	return nil
}

// resolveRun returns the requested run id, or the most recent run.
func (c *RecordsCmd) resolveRun(deps *Dependencies) (string, error) {
	if c.RunID != "" {
		return c.RunID, nil
	}

	runs, err := deps.Index.FindRuns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimjson.ErrorMessage(err))
		return "", err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no runs found. Use 'zimjson --sqlite <path>' to index one.")
		return "", zimjson.Errorf(zimjson.ENOTFOUND, "no runs found")
	}
	return runs[0].ID, nil
}
