package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/api"
	"github.com/hktitof/newsdigest/pipeline"
)

// Dependencies holds all services and configuration for command execution.
// Main.Run fills in only what the selected command uses.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Pipeline     newsdigest.Pipeline
	Bulk         *pipeline.Bulk
	Acquirer     newsdigest.Acquirer
	Extractor    newsdigest.Extractor
	Isolator     ArticleIsolator
	Converter    ArticleConverter
	TokenCounter newsdigest.TokenCounter
	Links        newsdigest.LinkService
	Linker       *pipeline.Links
	Server       *api.Server
}

// ArticleIsolator returns the main article of a page as HTML.
type ArticleIsolator interface {
	ExtractHTML(rawHTML string) (string, error)
}

// ArticleConverter renders article HTML as Markdown under a title heading.
type ArticleConverter interface {
	ConvertArticle(title, html string) (string, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Summarize SummarizeCmd `cmd:"" help:"Summarize one or more article URLs, or a saved HTML file"`
	Extract   ExtractCmd   `cmd:"" help:"Print the readable text of a page"`
	Render    RenderCmd    `cmd:"" help:"Acquire a page and print its display-ready HTML"`
	Batch     BatchCmd     `cmd:"" help:"Write one digest for a category of summarized articles"`
	Links     LinksCmd     `cmd:"" help:"Manage saved links"`
	Rescan    RescanCmd    `cmd:"" help:"Retry saved links whose summary is a placeholder"`
	Serve     ServeCmd     `cmd:"" help:"Serve the JSON API"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Article URLs"`
	HTMLFile    string   `name:"html-file" type:"existingfile" help:"Summarize HTML read from a file instead of fetching"`
	BaseURL     string   `name:"base-url" help:"Where the HTML file came from"`
	Title       string   `help:"Fallback title when the model returns none"`
	ForceRender bool     `name:"force-render" help:"Skip the plain fetch and render in the browser"`
	JSON        bool     `name:"json" help:"Print the JSON envelope"`
	Content     bool     `help:"Also print the extracted text"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL         string `arg:"" help:"Page URL"`
	Markdown    bool   `short:"m" help:"Print the main article as Markdown"`
	ForceRender bool   `name:"force-render" help:"Skip the plain fetch and render in the browser"`
	Tokens      bool   `help:"Report the token count of the extracted text"`
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	URL        string `arg:"" help:"Page URL"`
	Fetch      bool   `help:"Try the plain fetch first instead of rendering"`
	Output     string `short:"o" type:"path" help:"Write HTML to a file instead of stdout"`
	Screenshot string `type:"path" help:"Write the screenshot JPEG to a file"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File     string `arg:"" type:"existingfile" help:"JSON file with an array of {title, summary} articles, or a full batch request"`
	Category string `short:"c" help:"Category name (overrides the file)"`
	Template string `short:"t" help:"Prompt template; {category} and {maxWords} are replaced"`
	JSON     bool   `name:"json" help:"Print the JSON result"`
}

// LinksCmd groups link management subcommands.
type LinksCmd struct {
	Add    LinksAddCmd    `cmd:"" help:"Summarize URLs and save them under a category"`
	List   LinksListCmd   `cmd:"" help:"List saved links"`
	Delete LinksDeleteCmd `cmd:"" help:"Delete a saved link"`
}

// LinksAddCmd is the "links add" subcommand.
type LinksAddCmd struct {
	Category    string   `arg:"" help:"Category name"`
	URLs        []string `arg:"" name:"url" help:"Article URLs"`
	ForceRender bool     `name:"force-render" help:"Skip the plain fetch and render in the browser"`
}

// LinksListCmd is the "links list" subcommand.
type LinksListCmd struct {
	Category string `short:"c" help:"Only list this category"`
	Failed   bool   `help:"Only list links holding a placeholder summary"`
	Limit    int    `help:"Maximum number of links"`
}

// LinksDeleteCmd is the "links delete" subcommand.
type LinksDeleteCmd struct {
	ID string `arg:"" help:"Link ID"`
}

// RescanCmd is the "rescan" subcommand.
type RescanCmd struct {
	Category string `short:"c" help:"Only rescan this category"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"NEWSDIGEST_ADDR" help:"Listen address"`
}
