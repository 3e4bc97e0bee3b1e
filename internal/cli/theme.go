package cli

import (
	"errors"

	"larder-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Storefront theme (colors, fonts, radii)",
	}
	cmd.AddCommand(newThemeShowCmd(app))
	cmd.AddCommand(newThemeSetCmd(app))
	return cmd
}

func newThemeShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Theme})
		},
	}
	return cmd
}

func newThemeSetCmd(app *App) *cobra.Command {
	var primary, accent, background, text string
	var headingFont, bodyFont string
	var cardRadius, buttonRadius int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update theme fields (only the flags you pass change)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}

			theme := db.Theme
			changed := false
			set := func(flag string, apply func()) {
				if cmd.Flags().Changed(flag) {
					apply()
					changed = true
				}
			}
			set("primary-color", func() { theme.PrimaryColor = primary })
			set("accent-color", func() { theme.AccentColor = accent })
			set("background-color", func() { theme.BackgroundColor = background })
			set("text-color", func() { theme.TextColor = text })
			set("heading-font", func() { theme.HeadingFont = headingFont })
			set("body-font", func() { theme.BodyFont = bodyFont })
			set("card-radius", func() { theme.CardRadius = cardRadius })
			set("button-radius", func() { theme.ButtonRadius = buttonRadius })
			if !changed {
				return writeErr(cmd, errors.New("nothing to set (pass at least one theme flag)"))
			}

			res, err := mutate.SetTheme(db, actorID, theme)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "theme.set", "theme", res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Theme})
		},
	}

	cmd.Flags().StringVar(&primary, "primary-color", "", "Primary brand color, e.g. #2f6f4f")
	cmd.Flags().StringVar(&accent, "accent-color", "", "Accent color")
	cmd.Flags().StringVar(&background, "background-color", "", "Page background color")
	cmd.Flags().StringVar(&text, "text-color", "", "Body text color")
	cmd.Flags().StringVar(&headingFont, "heading-font", "", "Heading font family")
	cmd.Flags().StringVar(&bodyFont, "body-font", "", "Body font family")
	cmd.Flags().IntVar(&cardRadius, "card-radius", 0, "Card corner radius in px")
	cmd.Flags().IntVar(&buttonRadius, "button-radius", 0, "Button corner radius in px")
	return cmd
}
