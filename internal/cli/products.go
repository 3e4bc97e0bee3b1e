package cli

import (
	"strings"

	"larder-cli/internal/mutate"
	"larder-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Catalog commands",
	}
	cmd.AddCommand(newProductsCreateCmd(app))
	cmd.AddCommand(newProductsListCmd(app))
	cmd.AddCommand(newProductsShowCmd(app))
	cmd.AddCommand(newProductsSetNameCmd(app))
	cmd.AddCommand(newProductsSetPriceCmd(app))
	cmd.AddCommand(newProductsArchiveCmd(app, true))
	cmd.AddCommand(newProductsArchiveCmd(app, false))
	return cmd
}

func newProductsCreateCmd(app *App) *cobra.Command {
	var name string
	var price string
	var category string
	var unit string
	var description string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindActor(actorID); !ok {
				return writeErr(cmd, errNotFound("actor", actorID))
			}

			cents, err := publish.ParsePrice(price)
			if err != nil {
				return writeErr(cmd, err)
			}

			p, err := db.NewProduct(name, cents, actorID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if v := strings.TrimSpace(category); v != "" {
				p.Category = v
			}
			if v := strings.TrimSpace(unit); v != "" {
				p.Unit = v
			}
			p.Description = strings.TrimSpace(description)
			for _, tag := range tags {
				if tag = strings.TrimSpace(tag); tag != "" {
					p.Tags = append(p.Tags, tag)
				}
			}

			db.Products = append(db.Products, p)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "product.create", p.ID, map[string]any{"name": p.Name, "priceCents": p.PriceCents})
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&price, "price", "", "Unit price, e.g. 4.50")
	cmd.Flags().StringVar(&category, "category", "", "Category, e.g. fruit")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit of sale (each, kg, bunch, ...)")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newProductsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products (active only unless --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if all {
				return writeOut(cmd, app, map[string]any{"data": db.Products})
			}
			return writeOut(cmd, app, map[string]any{"data": db.ActiveProducts()})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived products")
	return cmd
}

func newProductsShowCmd(app *App) *cobra.Command {
	var withReviews bool

	cmd := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := db.FindProduct(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("product", args[0]))
			}
			out := map[string]any{"product": p}
			if withReviews {
				out["reviews"] = db.PublishedReviews(p.ID)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&withReviews, "reviews", false, "Include published reviews")
	return cmd
}

func newProductsSetNameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-name <product-id> <name>",
		Short: "Rename a product",
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
			res, err := mutate.SetProductName(db, actorID, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "product.set_name", res.Product.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Product})
		},
	}
	return cmd
}

func newProductsSetPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-price <product-id> <price>",
		Short: "Reprice a product (e.g. 4.50)",
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
			cents, err := publish.ParsePrice(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetProductPrice(db, actorID, args[0], cents)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "product.set_price", res.Product.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Product})
		},
	}
	return cmd
}

func newProductsArchiveCmd(app *App, archive bool) *cobra.Command {
	use, short, event := "archive", "Archive a product (hides it from the storefront)", "product.archive"
	if !archive {
		use, short, event = "unarchive", "Restore an archived product", "product.unarchive"
	}

	cmd := &cobra.Command{
		Use:   use + " <product-id>",
		Short: short,
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
			res, err := mutate.SetProductArchived(db, actorID, args[0], archive)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, event, res.Product.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Product})
		},
	}
	return cmd
}
