// Package runtime provides application runtime context for staffboard.
package runtime

import (
	"context"

	"google.golang.org/api/option"

	"github.com/andst/staffboard/internal/config"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	Store     *storage.Store
	Cache     *storage.Cache
	Formatter *output.Formatter

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// Config is the resolved configuration. Nil uses config.Default.
	Config    *config.Config
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// ClientOptions are passed to the spreadsheet client.
	ClientOptions []option.ClientOption
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Config:    config.Default(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New opens the configured backend and creates a runtime context.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	backend, err := OpenBackend(ctx, cfg, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	logging.DebugContext(ctx, "backend opened", logging.KeyBackend, backend.Name())

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	store := storage.NewStore(backend)
	return &Context{
		Config:    cfg,
		Store:     store,
		Cache:     storage.NewCache(store),
		Formatter: formatter,
		Debug:     opts.Debug,
	}, nil
}

// Close closes the backend.
func (c *Context) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}
