package handlers

import (
	"log/slog"
	"net/http"

	"wallet-dashboard/internal/dto"
	"wallet-dashboard/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the read-only dashboard views
type DashboardHandler struct {
	service services.DashboardServiceInterface
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service services.DashboardServiceInterface, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetUser returns the account holder profile
// @Summary Get user
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Upstream circuit open"
// @Router /user [get]
func (h *DashboardHandler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "user", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

// GetWallet returns the wallet balance figures
// @Summary Get wallet
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.Wallet}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Router /wallet [get]
func (h *DashboardHandler) GetWallet(c echo.Context) error {
	wallet, err := h.service.GetWallet(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "wallet", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: wallet})
}

// GetOverview returns the user, the wallet and the transaction counts
// @Summary Get dashboard overview
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.DashboardOverview}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Router /overview [get]
func (h *DashboardHandler) GetOverview(c echo.Context) error {
	overview, err := h.service.GetOverview(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "overview", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: overview})
}

// ListTransactions returns the filtered transactions as display rows
// @Summary List transactions
// @Description Transactions passing the applied filter, rendered for the list panel
// @Tags Transactions
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.TransactionList}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Router /transactions [get]
func (h *DashboardHandler) ListTransactions(c echo.Context) error {
	list, err := h.service.GetTransactionList(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "transactions", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: list})
}

// ListRawTransactions returns the filtered transactions as the API sent them
// @Summary List raw transactions
// @Tags Transactions
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.RawTransactionsResponse}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Router /transactions/raw [get]
func (h *DashboardHandler) ListRawTransactions(c echo.Context) error {
	transactions, err := h.service.GetFilteredTransactions(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "transactions", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.RawTransactionsResponse{
		Count:        len(transactions),
		Applied:      h.service.Filters().IsApplied(),
		Transactions: transactions,
	}})
}

// GetBalanceHistory returns the balance chart built from every transaction
// @Summary Get balance history
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.BalanceHistory}
// @Failure 502 {object} errors.ErrorResponse "UPSTREAM_001 - Wallet data unavailable"
// @Router /balance-history [get]
func (h *DashboardHandler) GetBalanceHistory(c echo.Context) error {
	history, err := h.service.GetBalanceHistory(c.Request().Context())
	if err != nil {
		h.logFetchFailure(c, "balance_history", err)
		return SendUpstreamError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: history})
}

// Refresh marks every cached resource stale so the next read refetches it
// @Summary Refresh wallet data
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.RefreshResponse}
// @Router /refresh [post]
func (h *DashboardHandler) Refresh(c echo.Context) error {
	h.service.Invalidate()

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.RefreshResponse{Invalidated: len(h.service.CacheStates())},
		Message: "Cached wallet data marked stale",
	})
}

func (h *DashboardHandler) logFetchFailure(c echo.Context, view string, err error) {
	h.logger.WarnContext(c.Request().Context(), "dashboard view unavailable",
		"view", view,
		"trace_id", getTraceID(c),
		"error", err,
	)
}
