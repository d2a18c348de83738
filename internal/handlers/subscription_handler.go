package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trove/internal/services"
)

// SubscriptionHandler handles the subscriptions panel request.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// GetSubscriptions returns the subscriptions panel.
// @Summary     Get subscriptions
// @Description Get the user's subscriptions with price alerts, least-used entries, monthly total, and next bill
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SubscriptionPanel "Subscriptions panel"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	panel, err := h.subscriptionService.Panel(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, panel)
}
