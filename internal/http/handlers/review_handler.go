// README: Review submission and listing handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxigo/internal/modules/review"
)

type ReviewHandler struct {
	review *review.Service
	log    *zap.Logger
}

func NewReviewHandler(svc *review.Service, log *zap.Logger) *ReviewHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewHandler{review: svc, log: log}
}

func (h *ReviewHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	reviews, err := h.review.ListApproved(c.Request.Context(), limit)
	if err != nil {
		h.logInternal("list reviews", err)
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) GetByOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	r, err := h.review.GetByOrder(c.Request.Context(), id)
	if err != nil {
		h.logInternal("get review", err)
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": r})
}

type submitReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req submitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.review.Submit(c.Request.Context(), review.SubmitCommand{
		OrderID: id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.logInternal("submit review", err)
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"review":   r,
		"next_url": "/reviews/",
	})
}

func (h *ReviewHandler) logInternal(op string, err error) {
	if review.IsExpected(err) {
		return
	}
	h.log.Error(op, zap.Error(err))
}
