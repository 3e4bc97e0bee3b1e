package cli

import (
	"larder-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newCopyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Site copy (hero text, button labels, footer, ...)",
	}
	cmd.AddCommand(newCopySetCmd(app))
	cmd.AddCommand(newCopyGetCmd(app))
	cmd.AddCommand(newCopyListCmd(app))
	return cmd
}

func newCopySetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one copy string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetCopyValue(db, actorID, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "copy.set", res.Key, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": res.Key, "value": res.Value}})
		},
	}
	return cmd
}

func newCopyGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get one copy string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			key := args[0]
			v, ok := db.Copy[key]
			if !ok {
				return writeErr(cmd, errNotFound("copy key", key))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": key, "value": v}})
		},
	}
	return cmd
}

func newCopyListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all copy strings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Copy})
		},
	}
	return cmd
}
