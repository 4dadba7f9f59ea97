package schema

import (
	"database/sql"
	"time"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// ReviewCreateRequest is the payload for posting a review.
type ReviewCreateRequest struct {
	UserID    int64   `json:"user_id"`
	ProductID int64   `json:"product_id"`
	Rating    int     `json:"rating"`
	Text      *string `json:"text"`
}

func (r *ReviewCreateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.UserID <= 0 {
		v.Add("user_id", "is required")
	}
	if r.ProductID <= 0 {
		v.Add("product_id", "is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		v.Add("rating", "must be 1-5")
	}
	if r.Text != nil {
		*r.Text = checkLen(v, "text", *r.Text, 10, 2000)
	}

	return v.OrNil()
}

// ReviewUpdateRequest carries the optional fields of a partial review update.
type ReviewUpdateRequest struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

func (r *ReviewUpdateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		v.Add("rating", "must be 1-5")
	}
	if r.Text != nil {
		*r.Text = checkLen(v, "text", *r.Text, 10, 2000)
	}

	return v.OrNil()
}

// ApplyTo copies only the supplied fields onto the stored review.
func (r *ReviewUpdateRequest) ApplyTo(rev *models.Review) {
	if r.Rating != nil {
		rev.Rating = *r.Rating
	}
	if r.Text != nil {
		rev.Text = sql.NullString{String: *r.Text, Valid: true}
	}
}

// ReviewResponse is the output projection of a review.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
}

// NewReviewResponse projects a stored review into its response shape.
func NewReviewResponse(rev *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        rev.ID,
		Rating:    rev.Rating,
		CreatedAt: rev.CreatedAt,
		UserID:    rev.UserID,
		ProductID: rev.ProductID,
	}
	if rev.Text.Valid {
		resp.Text = &rev.Text.String
	}
	return resp
}

// NewReviewResponses projects a page of reviews.
func NewReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReviewResponse(&reviews[i]))
	}
	return out
}
