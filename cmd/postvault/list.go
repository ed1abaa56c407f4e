package main

import (
	"fmt"
	"strings"

	"github.com/koomastudio/postvault"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	saves, err := deps.SavedPosts.FindSavedPosts(deps.Ctx, c.User, postvault.SavedPostFilter{
		Search: c.Search,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if len(saves) == 0 {
		fmt.Fprintln(deps.Stdout, "No saved posts found. Use 'postvault save' to capture one.")
		return nil
	}

	for _, saved := range saves {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", saved.ID, saved.CreatedAt.Format("2006-01-02"), summarize(saved, c.Full))
		if len(saved.Tags) > 0 {
			fmt.Fprintf(deps.Stdout, "    tags: %s\n", strings.Join(saved.Tags, ", "))
		}
	}

	return nil
}

// summarize renders one line of post content unless full output is requested.
func summarize(saved *postvault.SavedPost, full bool) string {
	if saved.Post == nil {
		return "(post missing)"
	}
	content := saved.Post.Content
	if full {
		return content
	}
	if line, _, found := strings.Cut(content, "\n"); found {
		content = line
	}
	const maxLen = 80
	if runes := []rune(content); len(runes) > maxLen {
		content = string(runes[:maxLen-3]) + "..."
	}
	return content
}
