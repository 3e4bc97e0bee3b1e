// Package cli wires the larder commands: scriptable JSON/EDN commands for
// automation plus the interactive TUI when invoked bare.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"larder-cli/internal/format"
	"larder-cli/internal/store"
	"larder-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	ActorID    string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "larder",
		Short:        "Larder: local-first storefront manager (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI (storefront preview + live editor)
  larder

  # Scriptable commands
  larder products list
  larder copy set hero_title "Harvest Week Specials"

  # Serve the web preview
  larder web --addr 127.0.0.1:7337

  # Direct product lookup (shortcut for: larder products show <product-id>)
  larder prod-vth
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LARDER_DIR", ""), "Path to store dir (advanced: overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("LARDER_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.ActorID, "actor", envOr("LARDER_ACTOR", ""), "Actor id (overrides currentActorId in the store)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LARDER_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newIdentityCmd(app))
	cmd.AddCommand(newProductsCmd(app))
	cmd.AddCommand(newOrdersCmd(app))
	cmd.AddCommand(newReviewsCmd(app))
	cmd.AddCommand(newCopyCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newChatCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func runTUI(app *App) error {
	if _, _, err := loadDB(app); err != nil {
		return err
	}
	return tui.Run(app.Dir, app.Workspace, app.ActorID)
}

// loadDB resolves the workspace directory (flag, config, default) and loads
// the aggregate.
func loadDB(app *App) (*store.DB, store.Store, error) {
	if app.Dir == "" {
		if app.Workspace == "" {
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				app.Workspace = cfg.CurrentWorkspace
			} else {
				app.Workspace = "default"
			}
		}
		dir, err := workspaceDirFor(app.Workspace)
		if err != nil {
			return nil, store.Store{}, err
		}
		app.Dir = dir
	}

	s := store.Store{Dir: app.Dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// workspaceDirFor prefers a registry entry in config.json over the default
// ~/.larder/workspaces/<name> layout.
func workspaceDirFor(name string) (string, error) {
	if cfg, err := store.LoadConfig(); err == nil {
		if ref, ok := cfg.Workspaces[name]; ok && strings.TrimSpace(ref.Path) != "" {
			return ref.Path, nil
		}
	}
	return store.WorkspaceDir(name)
}

func currentActorID(app *App, db *store.DB) (string, error) {
	if app.ActorID != "" {
		return app.ActorID, nil
	}
	if db.CurrentActorID != "" {
		return db.CurrentActorID, nil
	}
	return "", errors.New("no current actor; run `larder identity create ... --use` or pass --actor")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func errNotFound(kind, id string) error {
	return fmt.Errorf("%s not found: %s", kind, id)
}
