// Package cli implements the forge command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/config"
	"github.com/mesh-intelligence/forge/internal/kv"
	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/internal/paths"
	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/internal/tui"
	"github.com/mesh-intelligence/forge/pkg/forge"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	dsn       string
	logLevel  string
	jsonMode  bool
}

// app carries the resolved settings and the collaborators commands use.
// Tests replace the collaborators through Option.
type app struct {
	flags rootFlags

	settings  config.Settings
	configDir string
	dataDir   string

	openKV       func(ctx context.Context, cfg types.Config) (kv.Store, error)
	newSuggester func(apiKey, model string) suggest.Suggester
	copyText     func(text string) error
	readSecret   func() (string, error)
	isTerminal   func() bool
	runTUI       func(ctx context.Context, st *catalog.Store, opts tui.Options) error
}

// Option replaces a collaborator of the root command.
type Option func(*app)

// WithKVOpener replaces the key-value store constructor.
func WithKVOpener(open func(ctx context.Context, cfg types.Config) (kv.Store, error)) Option {
	return func(a *app) { a.openKV = open }
}

// WithSuggester replaces the suggestion client constructor.
func WithSuggester(newSuggester func(apiKey, model string) suggest.Suggester) Option {
	return func(a *app) { a.newSuggester = newSuggester }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(copyText func(text string) error) Option {
	return func(a *app) { a.copyText = copyText }
}

// WithTUI replaces the interactive browser.
func WithTUI(run func(ctx context.Context, st *catalog.Store, opts tui.Options) error) Option {
	return func(a *app) { a.runTUI = run }
}

func newApp(opts ...Option) *app {
	a := &app{
		openKV: kv.Open,
		newSuggester: func(apiKey, model string) suggest.Suggester {
			return suggest.NewGemini(apiKey, model)
		},
		copyText: clipboard.WriteAll,
		readSecret: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		runTUI:     tui.Run,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewRootCmd creates the top-level "forge" command with global flags
// and all subcommands registered.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := newApp(opts...)

	root := &cobra.Command{
		Use:     "forge",
		Short:   "A personal catalogue of 3D model and mod assets",
		Long:    "Forge keeps a local catalogue of externally hosted 3D models and mods:\nlinks, thumbnails, categories and tags, with optional AI-suggested metadata.",
		Version: forge.Version,
		// Errors are reported by Execute with the matching exit code.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: "+paths.AppName+" under the user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: "+paths.AppName+" under the user data dir)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: file, sqlite, postgres, mysql or memory")
	pf.StringVar(&a.flags.dsn, "dsn", "", "database connection string for postgres or mysql")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newAddCmd(),
		a.newEditCmd(),
		a.newDeleteCmd(),
		a.newShowCmd(),
		a.newListCmd(),
		a.newTagsCmd(),
		a.newCategoryCmd(),
		a.newSuggestCmd(),
		a.newConfigCmd(),
		a.newThemeCmd(),
		a.newCopyCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newBrowseCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	os.Exit(report(root.ErrOrStderr(), err))
}

// setup resolves directories and settings before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}

	if a.flags.backend != "" {
		settings.Backend = a.flags.backend
	}
	if a.flags.dsn != "" {
		settings.DSN = a.flags.dsn
	}
	if a.flags.logLevel != "" {
		settings.LogLevel = a.flags.logLevel
	}
	if err := logging.SetLevel(settings.LogLevel); err != nil {
		return usageError{err}
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, settings.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	a.settings, a.configDir, a.dataDir = settings, configDir, dataDir
	logging.Debugf("cli: config %s, data %s, backend %s", configDir, dataDir, settings.Backend)
	return nil
}

// open connects to the configured backend and loads the catalogue. The
// returned function closes the backend.
func (a *app) open(ctx context.Context) (*catalog.Store, func(), error) {
	store, err := a.openKV(ctx, a.settings.StoreConfig(a.dataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logging.Warnf("cli: close store: %v", err)
		}
	}
	st, err := catalog.Load(ctx, store)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return st, closeFn, nil
}

// suggester returns the suggestion client for st. A key stored with
// 'config set-key' takes precedence over the suggest.api_key setting.
func (a *app) suggester(st *catalog.Store) suggest.Suggester {
	key := st.APIKey()
	if key == "" {
		key = a.settings.Suggest.APIKey
	}
	return a.newSuggester(key, a.settings.Suggest.Model)
}

// usageError marks errors caused by invalid input.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// userErrors are sentinel errors that map to exitUserError.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidName,
	types.ErrInvalidSort,
	types.ErrDeclined,
	types.ErrEmptyPrompt,
	types.ErrMissingAPIKey,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrDSNRequired,
}

// exitCode maps err to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var verr *types.ValidationError
	var uerr usageError
	if errors.As(err, &verr) || errors.As(err, &uerr) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// report prints err to w and returns the exit code for it. Validation
// failures print one line per missing field.
func report(w io.Writer, err error) int {
	if err == nil {
		return exitSuccess
	}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "Error: %s is required\n", types.FieldLabel(f))
		}
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return exitCode(err)
}

// args wraps a cobra positional-argument validator so violations count as
// user errors.
func args(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}
