package main

import (
	"fmt"

	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/ingest"
)

// Run executes the save command.
func (c *SaveCmd) Run(deps *Dependencies) error {
	result, err := deps.Ingest.SaveForUser(deps.Ctx, c.User, ingest.SaveRequest{
		Input: c.Input,
		Tags:  c.Tags,
		Notes: c.Notes,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		if postvault.ErrorCode(err) == postvault.EQUOTA {
			fmt.Fprintln(deps.Stderr, "Hint: the monthly save limit resets 30 days after the first counted save")
		}
		return err
	}

	post := result.SavedPost.Post
	if result.Created {
		fmt.Fprintf(deps.Stdout, "Saved post %s\n", result.SavedPost.ID)
	} else {
		fmt.Fprintf(deps.Stdout, "Saved post %s (already captured as %s)\n", result.SavedPost.ID, post.ID)
	}
	if post.AuthorName != "" {
		fmt.Fprintf(deps.Stdout, "  author: %s\n", post.AuthorName)
	}
	if post.PostURL != "" {
		fmt.Fprintf(deps.Stdout, "  url: %s\n", post.PostURL)
	}

	return nil
}
