package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not set. Set before calling Run().
	DBPath string

	// SQLite database used by the link store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsdigest"),
		kong.Description("Fetch news articles, extract their text and summarize them with a language model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsdigest --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	w := newWiring(&cli.Config, stderr)
	defer w.Close()
	defer m.Close()
	deps.Logger = w.logger

	if err := m.wire(ctx, commandPath(kongCtx.Command()), cli, deps, w); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the dependencies the selected command needs. Nothing else is
// started, so commands that never fetch do not launch a browser.
func (m *Main) wire(ctx context.Context, cmd []string, cli *CLI, deps *Dependencies, w *wiring) error {
	switch cmd[0] {
	case "summarize":
		p, err := w.pipeline(ctx, cli.Summarize.HTMLFile == "")
		if err != nil {
			return err
		}
		deps.Pipeline = p
		deps.Bulk = w.bulk(p)

	case "extract":
		deps.Acquirer = w.acquirer()
		deps.Extractor = w.extractor()
		deps.Isolator = w.isolator()
		deps.Converter = w.converter()
		deps.TokenCounter = w.tokenCounter()

	case "render":
		deps.Acquirer = w.acquirer()

	case "batch":
		p, err := w.pipeline(ctx, false)
		if err != nil {
			return err
		}
		deps.Pipeline = p

	case "links", "rescan", "serve":
		if err := m.openDB(cli.DB, deps.Stderr); err != nil {
			return err
		}
		deps.Links = sqlite.NewLinkService(m.DB)

		if len(cmd) > 1 && (cmd[1] == "list" || cmd[1] == "delete") {
			return nil
		}

		p, err := w.pipeline(ctx, true)
		if err != nil {
			return err
		}
		deps.Pipeline = p
		deps.Linker = w.linker(deps.Links, p)

		if cmd[0] == "serve" {
			deps.Acquirer = w.acquirer()
			deps.Server = w.server(p, deps.Acquirer, deps.Linker)
		}
	}
	return nil
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	if path == "" {
		path = m.DBPath
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set NEWSDIGEST_DB to use a different database path\n")
		return newsdigest.Errorf(newsdigest.ECONFIG, "failed to open database at %q: %v", path, err)
	}
	return nil
}

// commandPath returns the command words of a kong command string, such as
// ["links", "add"] for "links add <category> <urls>".
func commandPath(cmd string) []string {
	var path []string
	for _, f := range strings.Fields(cmd) {
		if strings.HasPrefix(f, "<") {
			break
		}
		path = append(path, f)
	}
	if len(path) == 0 {
		return []string{""}
	}
	return path
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsdigest.db"
	}
	dir := filepath.Join(home, ".newsdigest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsdigest.db")
}
