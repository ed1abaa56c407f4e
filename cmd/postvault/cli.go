package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/ingest"
	"github.com/koomastudio/postvault/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB          *sqlite.DB
	Users       postvault.UserService
	Posts       postvault.PostService
	SavedPosts  postvault.SavedPostService
	Collections postvault.CollectionService
	Tokens      postvault.TokenService
	Extractor   postvault.Extractor
	Ingest      *ingest.Service

	// Addr is the listen address for the serve command.
	Addr string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server"`
	Extract ExtractCmd `cmd:"" help:"Extract a post from a URL or pasted snippet and print it as JSON"`
	Save    SaveCmd    `cmd:"" help:"Extract a post and save it into a user's library"`
	List    ListCmd    `cmd:"" help:"List a user's saved posts"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr  string `help:"Listen address (overrides POSTVAULT_ADDR)"`
	Debug bool   `help:"Enable verbose request logging"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Input   string `arg:"" help:"Post URL, embed URL, or pasted embed snippet"`
	Browser bool   `help:"Fetch pages through a headless browser (for script-rendered pages)"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct {
	Input   string   `arg:"" help:"Post URL, embed URL, or pasted embed snippet"`
	User    string   `required:"" help:"ID of the user saving the post"`
	Tags    []string `short:"t" help:"Tags to attach (repeatable)"`
	Notes   string   `short:"n" help:"Notes to attach"`
	Browser bool     `help:"Fetch pages through a headless browser (for script-rendered pages)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	User   string `required:"" help:"ID of the user whose library to list"`
	Search string `short:"s" help:"Filter by a search term"`
	Full   bool   `help:"Show full post content"`
}
