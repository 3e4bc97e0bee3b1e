package cli

import (
	"larder-cli/internal/model"
	"larder-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newReviewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Customer review moderation",
	}
	cmd.AddCommand(newReviewsAddCmd(app))
	cmd.AddCommand(newReviewsListCmd(app))
	cmd.AddCommand(newReviewsPublishCmd(app, true))
	cmd.AddCommand(newReviewsPublishCmd(app, false))
	return cmd
}

func newReviewsAddCmd(app *App) *cobra.Command {
	var productID string
	var author string
	var rating int
	var body string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a customer review (unpublished until moderated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.AddReview(db, actorID, productID, author, rating, body)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "review.add", res.Review.ID, res.EventPayload)
			return writeOut(cmd, app, map[string]any{"data": res.Review})
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product id")
	cmd.Flags().StringVar(&author, "author", "", "Reviewer name")
	cmd.Flags().IntVar(&rating, "rating", 5, "Rating 1..5")
	cmd.Flags().StringVar(&body, "body", "", "Review text")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newReviewsListCmd(app *App) *cobra.Command {
	var productID string
	var publishedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]model.Review, 0, len(db.Reviews))
			for _, r := range db.Reviews {
				if productID != "" && r.ProductID != productID {
					continue
				}
				if publishedOnly && !r.Published {
					continue
				}
				out = append(out, r)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "Filter by product id")
	cmd.Flags().BoolVar(&publishedOnly, "published", false, "Published reviews only")
	return cmd
}

func newReviewsPublishCmd(app *App, published bool) *cobra.Command {
	use, short := "publish", "Publish a review on the storefront"
	if !published {
		use, short = "unpublish", "Take a review off the storefront"
	}

	cmd := &cobra.Command{
		Use:   use + " <review-id>",
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
			res, err := mutate.SetReviewPublished(db, actorID, args[0], published)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "review.set_published", res.Review.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Review})
		},
	}
	return cmd
}
