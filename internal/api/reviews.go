package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-service/internal/schema"
)

// createReview handles posting a review
func (h *Handler) createReview(c *gin.Context) {
	var req schema.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.reviews.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getReview handles get review by ID
func (h *Handler) getReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	resp, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listProductReviews handles listing a product's reviews
func (h *Handler) listProductReviews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	skip, limit := listParams(c)

	resp, err := h.reviews.ListByProduct(c.Request.Context(), id, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateReview handles partial review updates
func (h *Handler) updateReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req schema.ReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.reviews.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deleteReview handles review deletion
func (h *Handler) deleteReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
