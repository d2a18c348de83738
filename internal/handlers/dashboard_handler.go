package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trove/internal/config"
	apperrors "trove/internal/errors"
	"trove/internal/ingest"
	"trove/internal/services"
)

// Syncer reloads the transaction tables from provider export files.
type Syncer interface {
	Sync(primaryPath, billsPath string, wipe bool) (ingest.Counts, error)
}

// DashboardHandler handles the spending dashboard, transaction listing,
// recap, and sync requests.
type DashboardHandler struct {
	txService    services.TransactionServicer
	syncer       Syncer
	auditService services.AuditServicer
	cfg          *config.Config
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(txService services.TransactionServicer, syncer Syncer, auditService services.AuditServicer, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{txService: txService, syncer: syncer, auditService: auditService, cfg: cfg}
}

// Sync wipes and reloads the transaction tables from the configured exports.
// @Summary     Sync transactions
// @Description Reload the transaction tables from the provider export files and return per-table row counts
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Row counts per table"
// @Failure     400 {object} ErrorResponse "Export file not found"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sync [post]
func (h *DashboardHandler) Sync(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	counts, err := h.syncer.Sync(h.cfg.PlaidExportPath, h.cfg.BillsExportPath, true)
	if err != nil {
		if errors.Is(err, ingest.ErrExportNotFound) {
			respondWithError(c, apperrors.Wrap(apperrors.ErrExportNotFound, err))
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrSyncFailed, err))
		return
	}

	h.auditService.Log(userID, "SYNC_TRANSACTIONS", "transaction", 0, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "ok", "counts": counts})
}

// GetDashboard returns the spending dashboard view model.
// @Summary     Get dashboard
// @Description Get recent transactions and the seven-day spending chart
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Dashboard data"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	transactions, err := h.txService.Recent(5)
	if err != nil {
		respondWithError(c, err)
		return
	}

	labels, series, err := h.txService.DailyTotals(7)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"chart": gin.H{
			"labels": labels,
			"series": series,
		},
	})
}

// GetTransactions lists recent transactions.
// @Summary     Get transactions
// @Description Get recent transactions, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum rows to return (default 100)"
// @Success     200 {array} services.TransactionRow "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *DashboardHandler) GetTransactions(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = parsed
	}

	transactions, err := h.txService.Recent(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// GetWrapped returns the categorized spending recap.
// @Summary     Get spending recap
// @Description Get total, average, category breakdown, top merchants, and biggest purchase
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WrappedStats "Spending recap"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wrapped [get]
func (h *DashboardHandler) GetWrapped(c *gin.Context) {
	wrapped, err := h.txService.Wrapped()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapped)
}
