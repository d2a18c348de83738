package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "trove/internal/errors"
	"trove/internal/pagination"
	"trove/internal/services"
)

// CardHandler handles card catalog, wallet, and deal requests.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService}
}

// AddCardRequest represents the request payload for adding a card to the wallet.
type AddCardRequest struct {
	CardName       string  `json:"card_name" binding:"required,min=1,max=200"`
	Issuer         string  `json:"issuer" binding:"required,min=1,max=100"`
	AnnualFee      float64 `json:"annual_fee" binding:"gte=0"`
	Type           string  `json:"type" binding:"max=50"`
	BaseRewardRate float64 `json:"base_reward_rate" binding:"gte=0"`
	PAN            string  `json:"pan" binding:"required,pan"`
}

// AddCard verifies and adds a card to the user's wallet.
// @Summary     Add a card
// @Description Verify a card number with the card network and add the card to the wallet
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddCardRequest true "Card details"
// @Success     201 {object} models.Card "Card added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Card could not be verified"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CardHandler) AddCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.AddCard(c.Request.Context(), userID,
		req.CardName, req.Issuer, req.AnnualFee, req.Type, req.BaseRewardRate, req.PAN)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_CARD", "card", card.ID, c.ClientIP(),
		map[string]interface{}{"card_name": req.CardName, "issuer": req.Issuer})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetCards lists the card catalog.
// @Summary     Get cards
// @Description Get a paginated list of catalog cards
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Card] "Paginated cards"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CardHandler) GetCards(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.cardService.GetCards(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCard returns one card with its deals.
// @Summary     Get a card
// @Description Get a single card with its deals, soonest expiry first
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.Card "Card with deals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard removes a card from the user's wallet.
// @Summary     Delete a card
// @Description Remove a card and its deals from the wallet
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     204 "Card deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CARD", "card", cardID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetWallet returns the user's cards with the combined annual fee.
// @Summary     Get wallet
// @Description Get the authenticated user's cards and total annual fee
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WalletSummary "Wallet summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet [get]
func (h *CardHandler) GetWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.cardService.WalletSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetDeals lists deals across the catalog.
// @Summary     Get deals
// @Description Get deals ordered by expiry, optionally filtered by issuer and merchant names
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       issuer   query string false "Filter by issuer"
// @Param       merchant query string false "Comma-separated merchant titles"
// @Success     200 {array} models.Deal "Deals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [get]
func (h *CardHandler) GetDeals(c *gin.Context) {
	filter := services.DealFilter{Issuer: c.Query("issuer")}
	if merchants := c.Query("merchant"); merchants != "" {
		for _, m := range strings.Split(merchants, ",") {
			if m = strings.TrimSpace(m); m != "" {
				filter.Merchants = append(filter.Merchants, m)
			}
		}
	}

	deals, err := h.cardService.GetDeals(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals, "count": len(deals)})
}
