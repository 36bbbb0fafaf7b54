// README: Landing page stats, driver listing, fare calculator, payment methods.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxigo/internal/modules/catalog"
	"taxigo/internal/modules/fleet"
	"taxigo/internal/modules/pricing"
	"taxigo/internal/types"
)

type SiteHandler struct {
	catalog *catalog.Service
	pricing *pricing.Service
	fleet   *fleet.Service
}

func NewSiteHandler(c *catalog.Service, p *pricing.Service, f *fleet.Service) *SiteHandler {
	return &SiteHandler{catalog: c, pricing: p, fleet: f}
}

// Index serves the landing-page aggregates: driver availability breakdown,
// the best available drivers, and the active tariffs.
func (h *SiteHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.fleet.Stats(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	tariffs, err := h.catalog.ActiveTariffs(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	available, _, err := h.fleet.List(ctx, string(fleet.StatusAvailable))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	// Listing comes back rating-descending; the landing page shows the top 5.
	if len(available) > 5 {
		available = available[:5]
	}
	c.JSON(http.StatusOK, gin.H{
		"total_drivers": stats.Total,
		"status_stats": gin.H{
			"available": stats.Available,
			"busy":      stats.Busy,
			"offline":   stats.Offline,
		},
		"top_drivers": available,
		"tariffs":     tariffs,
	})
}

func (h *SiteHandler) Drivers(c *gin.Context) {
	drivers, filter, err := h.fleet.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers, "status_filter": filter})
}

// Calculate lists active tariffs and, when tariff + distance query params
// are present, returns a quote for them.
func (h *SiteHandler) Calculate(c *gin.Context) {
	ctx := c.Request.Context()
	tariffs, err := h.catalog.ActiveTariffs(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp := gin.H{"tariffs": tariffs}

	selector := c.Query("tariff")
	distStr := c.Query("distance")
	if selector != "" && distStr != "" {
		distance, err := strconv.ParseFloat(distStr, 64)
		if err != nil || distance <= 0 {
			writeError(c, http.StatusBadRequest, "invalid distance")
			return
		}
		t, err := h.resolveTariff(c, selector)
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(c, http.StatusNotFound, "tariff not found")
			return
		}
		if err != nil {
			writeError(c, http.StatusInternalServerError, "internal error")
			return
		}
		// Retired tariffs stay resolvable by id but are not quotable,
		// matching the booking flow.
		if !t.Active {
			writeError(c, http.StatusNotFound, "tariff not found")
			return
		}
		minutes := h.pricing.EstimateMinutes(distance)
		price := h.pricing.Quote(t, distance, minutes)
		resp["quote"] = gin.H{
			"tariff":            t.Name,
			"distance_km":       distance,
			"estimated_minutes": minutes,
			"price":             price.Float(),
			"currency":          price.Currency,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// resolveTariff accepts either a numeric id or a tariff type tag.
func (h *SiteHandler) resolveTariff(c *gin.Context, selector string) (catalog.Tariff, error) {
	if id, ok := types.ParseID(selector); ok {
		return h.catalog.TariffByID(c.Request.Context(), id)
	}
	return h.catalog.TariffByName(c.Request.Context(), selector)
}

func (h *SiteHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.catalog.ActivePaymentMethods(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}
