// README: Booking and payment flow handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxigo/internal/modules/order"
	"taxigo/internal/types"
)

type OrderHandler struct {
	order *order.Service
	log   *zap.Logger
}

func NewOrderHandler(svc *order.Service, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{order: svc, log: log}
}

type createOrderReq struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	PickupAddress   string  `json:"pickup_address"`
	Destination     string  `json:"destination"`
	TariffID        int64   `json:"tariff_id"`
	PaymentMethodID int64   `json:"payment_method_id"`
	DistanceKm      float64 `json:"distance_km"`
	EstimatedMin    float64 `json:"estimated_minutes"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		CustomerName:    req.Name,
		CustomerPhone:   req.Phone,
		PickupAddress:   req.PickupAddress,
		Destination:     req.Destination,
		TariffID:        types.ID(req.TariffID),
		PaymentMethodID: types.ID(req.PaymentMethodID),
		DistanceKm:      req.DistanceKm,
		EstimatedMin:    req.EstimatedMin,
	})
	if err != nil {
		h.logInternal("create order", err)
		writeOrderError(c, err)
		return
	}
	// The client follows this to the payment page.
	c.JSON(http.StatusCreated, gin.H{
		"order":    o,
		"next_url": "/payment/" + o.ID.String() + "/",
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := h.order.Get(c.Request.Context(), id)
	if err != nil {
		h.logInternal("get order", err)
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h *OrderHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	orders, err := h.order.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logInternal("list orders", err)
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.order.Cancel(c.Request.Context(), id, "customer"); err != nil {
		h.logInternal("cancel order", err)
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusCancelled})
}

func (h *OrderHandler) GetPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	p, err := h.order.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.logInternal("get payment", err)
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	p, err := h.order.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		h.logInternal("process payment", err)
		writeOrderError(c, err)
		return
	}
	// The client follows this to the review form.
	c.JSON(http.StatusOK, gin.H{
		"payment":  p,
		"next_url": "/reviews/" + id.String() + "/",
	})
}

func orderID(c *gin.Context) (types.ID, bool) {
	id, ok := types.ParseID(c.Param("order_id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// logInternal records unexpected errors with cause; mapped errors carry
// their own user-facing message.
func (h *OrderHandler) logInternal(op string, err error) {
	if order.IsExpected(err) {
		return
	}
	h.log.Error(op, zap.Error(err))
}
