package main

import (
	"encoding/json"
	"fmt"

	"github.com/koomastudio/postvault"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	candidate, err := deps.Extractor.ExtractInput(deps.Ctx, c.Input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if candidate == nil {
		fmt.Fprintln(deps.Stderr, "No post could be extracted. The input may not be a supported post URL or embed snippet.")
		return postvault.Errorf(postvault.ENOTFOUND, "no post could be extracted")
	}

	out, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
