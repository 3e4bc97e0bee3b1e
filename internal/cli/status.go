package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local store status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			evs, err := s.ListEvents(0)
			if err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":            s.Dir,
					"workspace":      app.Workspace,
					"currentActorId": db.CurrentActorID,
					"actors":         len(db.Actors),
					"products":       len(db.Products),
					"orders":         len(db.Orders),
					"reviews":        len(db.Reviews),
					"chatRules":      len(db.ChatRules),
					"events":         len(evs),
				},
			})
		},
	}
	return cmd
}
