package schema

import (
	"database/sql"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// CategoryCreateRequest is the payload for creating a category.
type CategoryCreateRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (r *CategoryCreateRequest) Validate() error {
	v := &fault.ValidationError{}

	r.Name = checkName(v, "name", r.Name, 100)
	r.Slug = checkSlug(v, "slug", r.Slug, 100)
	if r.Description != nil {
		*r.Description = checkLen(v, "description", *r.Description, 0, 2000)
	}

	return v.OrNil()
}

// CategoryUpdateRequest carries the optional fields of a partial category
// update. The slug is immutable once created.
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r *CategoryUpdateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.Name != nil {
		*r.Name = checkName(v, "name", *r.Name, 100)
	}
	if r.Description != nil {
		*r.Description = checkLen(v, "description", *r.Description, 0, 2000)
	}

	return v.OrNil()
}

// ApplyTo copies only the supplied fields onto the stored category.
func (r *CategoryUpdateRequest) ApplyTo(c *models.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = sql.NullString{String: *r.Description, Valid: true}
	}
}

// CategoryResponse is the output projection of a category.
type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// NewCategoryResponse projects a stored category into its response shape.
func NewCategoryResponse(c *models.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
	}
	if c.Description.Valid {
		resp.Description = &c.Description.String
	}
	return resp
}

// NewCategoryResponses projects a page of categories.
func NewCategoryResponses(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}
