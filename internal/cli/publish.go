package cli

import (
	"larder-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool
	var includeArchived bool
	var includeReviews bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the catalog as static markdown",
	}

	opts := func() publish.WriteOptions {
		return publish.WriteOptions{
			IncludeArchived: includeArchived,
			IncludeReviews:  includeReviews,
			Overwrite:       overwrite,
		}
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write index.md plus one page per product",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteCatalog(db, to, opts())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	productCmd := &cobra.Command{
		Use:   "product <product-id>",
		Short: "Write one product page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteProduct(db, args[0], to, opts())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.PersistentFlags().StringVar(&to, "to", "", "Output directory")
	cmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.PersistentFlags().BoolVar(&includeArchived, "include-archived", false, "Include archived products")
	cmd.PersistentFlags().BoolVar(&includeReviews, "include-reviews", true, "Include published reviews on product pages")
	_ = cmd.MarkPersistentFlagRequired("to")

	cmd.AddCommand(catalogCmd)
	cmd.AddCommand(productCmd)
	return cmd
}
