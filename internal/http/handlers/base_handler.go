// README: Base handler utilities (JSON error responses, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxigo/internal/modules/customer"
	"taxigo/internal/modules/order"
	"taxigo/internal/modules/review"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeOrderError maps order service errors onto HTTP statuses. Unknown
// errors stay generic; the middleware has already logged them.
func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrTariffUnknown),
		errors.Is(err, order.ErrMethodUnknown):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrConflict),
		errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrAlreadyPaid),
		errors.Is(err, order.ErrPaymentMissing):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrPaymentFailed):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, review.ErrOrderNotFound), errors.Is(err, review.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, review.ErrNoDriver), errors.Is(err, review.ErrAlreadyReviewed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customer.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, customer.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, customer.ErrPhoneTaken):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, customer.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
