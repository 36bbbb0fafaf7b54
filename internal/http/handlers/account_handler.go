// README: Account handlers: register, login, profile.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxigo/internal/auth"
	"taxigo/internal/http/middleware"
	"taxigo/internal/modules/customer"
)

type AccountHandler struct {
	customer *customer.Service
	jwt      *auth.JWTService
	log      *zap.Logger
}

func NewAccountHandler(svc *customer.Service, jwt *auth.JWTService, log *zap.Logger) *AccountHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountHandler{customer: svc, jwt: jwt, log: log}
}

type registerReq struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.customer.Register(c.Request.Context(), req.Phone, req.Name, req.Password)
	if err != nil {
		h.logInternal("register", err)
		writeAccountError(c, err)
		return
	}
	token, err := h.jwt.GenerateToken(id, req.Phone)
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer_id": id, "token": token})
}

type loginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cust, err := h.customer.Authenticate(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		h.logInternal("login", err)
		writeAccountError(c, err)
		return
	}
	token, err := h.jwt.GenerateToken(cust.ID, cust.Phone)
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": cust.ID, "token": token})
}

func (h *AccountHandler) Profile(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	cust, err := h.customer.Get(c.Request.Context(), claims.CustomerID)
	if err != nil {
		h.logInternal("profile", err)
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": cust})
}

func (h *AccountHandler) logInternal(op string, err error) {
	if customer.IsExpected(err) {
		return
	}
	h.log.Error(op, zap.Error(err))
}
