package cli

import (
	"fmt"

	"larder-cli/internal/model"

	"github.com/spf13/cobra"
)

func newIdentityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage local identities (operators)",
	}

	cmd.AddCommand(newIdentityCreateCmd(app))
	cmd.AddCommand(newIdentityUseCmd(app))
	cmd.AddCommand(newIdentityListCmd(app))
	cmd.AddCommand(newIdentityWhoamiCmd(app))

	return cmd
}

func normalizeRole(s string) (model.Role, error) {
	switch model.Role(s) {
	case model.RoleAdmin, model.RoleManager, model.RoleStaff:
		return model.Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (want admin|manager|staff)", s)
}

func newIdentityCreateCmd(app *App) *cobra.Command {
	var name string
	var role string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new identity (operator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			r, err := normalizeRole(role)
			if err != nil {
				return writeErr(cmd, err)
			}

			actor, err := db.NewActor(name, r)
			if err != nil {
				return writeErr(cmd, err)
			}
			db.Actors = append(db.Actors, actor)
			if use {
				db.CurrentActorID = actor.ID
				app.ActorID = actor.ID
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actor.ID, "identity.create", actor.ID, map[string]any{"name": actor.Name, "role": string(r), "use": use})

			return writeOut(cmd, app, map[string]any{"data": actor})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "staff", "Role (admin|manager|staff)")
	cmd.Flags().BoolVar(&use, "use", false, "Set as current actor")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newIdentityUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <actor-id>",
		Short: "Set the current actor for this store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if _, ok := db.FindActor(id); !ok {
				return writeErr(cmd, errNotFound("actor", id))
			}
			db.CurrentActorID = id
			app.ActorID = id
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(id, "identity.use", id, map[string]any{"actorId": id})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentActorId": id}})
		},
	}
	return cmd
}

func newIdentityListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List identities (operators)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"currentActorId": db.CurrentActorID,
					"actors":         db.Actors,
				},
			})
		},
	}
	return cmd
}

func newIdentityWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			actor, ok := db.FindActor(id)
			if !ok {
				return writeErr(cmd, errNotFound("actor", id))
			}
			return writeOut(cmd, app, map[string]any{"data": actor})
		},
	}
	return cmd
}
