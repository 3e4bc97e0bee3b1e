package cli

import (
	"errors"
	"strings"

	"larder-cli/internal/chat"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"

	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Keyword-matched chat auto-replies",
	}
	cmd.AddCommand(newChatRulesCmd(app))
	cmd.AddCommand(newChatTestCmd(app))
	return cmd
}

func newChatRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage reply rules",
	}
	cmd.AddCommand(newChatRulesAddCmd(app))
	cmd.AddCommand(newChatRulesListCmd(app))
	cmd.AddCommand(newChatRulesRemoveCmd(app))
	return cmd
}

func newChatRulesAddCmd(app *App) *cobra.Command {
	var keywords []string
	var reply string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reply rule",
		Example: strings.TrimSpace(`
  larder chat rules add --keyword delivery --keyword shipping --reply "We deliver Mon-Sat before noon."
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !perm.CanEditStorefront(db, actorID) {
				return writeErr(cmd, errors.New("actor is not allowed to edit chat rules"))
			}

			kws := make([]string, 0, len(keywords))
			for _, k := range keywords {
				if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
					kws = append(kws, k)
				}
			}
			if len(kws) == 0 {
				return writeErr(cmd, errors.New("missing --keyword"))
			}
			if strings.TrimSpace(reply) == "" {
				return writeErr(cmd, errors.New("missing --reply"))
			}

			rule, err := db.NewChatRule(kws, reply)
			if err != nil {
				return writeErr(cmd, err)
			}
			db.ChatRules = append(db.ChatRules, rule)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "chat.rule_add", rule.ID, map[string]any{"keywords": rule.Keywords})
			return writeOut(cmd, app, map[string]any{"data": rule})
		},
	}

	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Trigger keyword (repeatable)")
	cmd.Flags().StringVar(&reply, "reply", "", "Reply text")
	_ = cmd.MarkFlagRequired("reply")
	return cmd
}

func newChatRulesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reply rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.ChatRules})
		},
	}
	return cmd
}

func newChatRulesRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <rule-id>",
		Short: "Remove a reply rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !perm.CanEditStorefront(db, actorID) {
				return writeErr(cmd, errors.New("actor is not allowed to edit chat rules"))
			}

			id := strings.TrimSpace(args[0])
			kept := db.ChatRules[:0]
			removed := false
			for _, r := range db.ChatRules {
				if r.ID == id {
					removed = true
					continue
				}
				kept = append(kept, r)
			}
			if !removed {
				return writeErr(cmd, errNotFound("chat rule", id))
			}
			db.ChatRules = kept
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "chat.rule_remove", id, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": id}})
		},
	}
	return cmd
}

func newChatTestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <message>",
		Short: "Show the reply a customer message would get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			r := chat.NewResponder(db.ChatRules, db.Copy[store.CopyChatGreeting])
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"message": args[0],
					"reply":   r.Reply(args[0]),
					"matched": r.Matches(args[0]),
				},
			})
		},
	}
	return cmd
}
