package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/fault"
)

func TestNormalizeListParams(t *testing.T) {
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 0, 0, 10},
		{0, 10, 0, 10},
		{-5, 10, 0, 10},
		{10, 100, 10, 100},
		{10, 500, 10, 100},
		{3, -1, 3, 10},
	}

	for _, tt := range tests {
		skip, limit := NormalizeListParams(tt.skip, tt.limit)
		assert.Equal(t, tt.wantSkip, skip)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestDateRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1990-01-15"`), &d))
	assert.Equal(t, 1990, d.Year())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-01-15"`, string(out))
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15.01.1990"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

func TestCategoryCreateValidate(t *testing.T) {
	req := CategoryCreateRequest{Name: "Electronics", Slug: "electronics"}
	assert.NoError(t, req.Validate())

	req = CategoryCreateRequest{Name: "Electronics", Slug: "Electronics!"}
	assert.True(t, fault.IsValidation(req.Validate()))

	req = CategoryCreateRequest{Name: "E", Slug: "electronics"}
	assert.True(t, fault.IsValidation(req.Validate()))
}

func TestReviewCreateValidate(t *testing.T) {
	text := "Great product, recommended!"
	req := ReviewCreateRequest{UserID: 1, ProductID: 2, Rating: 5, Text: &text}
	assert.NoError(t, req.Validate())

	req.Rating = 6
	assert.True(t, fault.IsValidation(req.Validate()))

	req.Rating = 3
	short := "too short"
	req.Text = &short
	assert.True(t, fault.IsValidation(req.Validate()))

	// text is optional
	req.Text = nil
	assert.NoError(t, req.Validate())
}

func TestReviewTextLengthCountsCharacters(t *testing.T) {
	// 7 characters (14 bytes): below the 10-character minimum
	short := "Отлично"
	req := ReviewCreateRequest{UserID: 1, ProductID: 2, Rating: 5, Text: &short}
	assert.True(t, fault.IsValidation(req.Validate()))

	long := "Отличный товар, рекомендую"
	req.Text = &long
	assert.NoError(t, req.Validate())
}

func TestSlugNormalization(t *testing.T) {
	req := CategoryCreateRequest{Name: "Electronics", Slug: "  ELECTRONICS  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "electronics", req.Slug)
}
