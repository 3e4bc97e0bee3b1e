package mutate

import (
	"errors"
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

var ErrInvalidRating = errors.New("rating must be 1..5")

type ReviewResult struct {
	Review       *model.Review
	Changed      bool
	EventPayload map[string]any
}

// AddReview appends an unpublished review for moderation.
func AddReview(db *store.DB, actorID, productID, author string, rating int, body string) (ReviewResult, error) {
	actorID = strings.TrimSpace(actorID)
	productID = strings.TrimSpace(productID)
	if db == nil || actorID == "" || productID == "" {
		return ReviewResult{}, nil
	}
	if rating < 1 || rating > 5 {
		return ReviewResult{}, ErrInvalidRating
	}
	if _, ok := db.FindProduct(productID); !ok {
		return ReviewResult{}, NotFoundError{Kind: "product", ID: productID}
	}

	r, err := db.NewReview(productID, author, rating, body)
	if err != nil {
		return ReviewResult{}, err
	}
	db.Reviews = append(db.Reviews, r)
	rv := &db.Reviews[len(db.Reviews)-1]
	return ReviewResult{
		Review:       rv,
		Changed:      true,
		EventPayload: map[string]any{"productId": productID, "rating": rating},
	}, nil
}

// SetReviewPublished publishes or unpublishes a review.
func SetReviewPublished(db *store.DB, actorID, reviewID string, published bool) (ReviewResult, error) {
	actorID = strings.TrimSpace(actorID)
	reviewID = strings.TrimSpace(reviewID)
	if db == nil || actorID == "" || reviewID == "" {
		return ReviewResult{}, nil
	}

	r, ok := db.FindReview(reviewID)
	if !ok {
		return ReviewResult{}, NotFoundError{Kind: "review", ID: reviewID}
	}
	if !perm.CanManageOrders(db, actorID) {
		return ReviewResult{}, PermissionError{ActorID: actorID, Action: "review.publish"}
	}

	if r.Published == published {
		return ReviewResult{Review: r, Changed: false}, nil
	}
	r.Published = published
	return ReviewResult{
		Review:       r,
		Changed:      true,
		EventPayload: map[string]any{"published": published},
	}, nil
}
