package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"wallet-dashboard/internal/dto"
	"wallet-dashboard/internal/errors"
	"wallet-dashboard/internal/filter"

	"github.com/labstack/echo/v4"
)

// FilterHandler exposes the filter store operations
type FilterHandler struct {
	store  *filter.Store
	logger *slog.Logger
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(store *filter.Store, logger *slog.Logger) *FilterHandler {
	return &FilterHandler{
		store:  store,
		logger: logger,
	}
}

// GetFilters returns the current filter state
// @Summary Get filter state
// @Tags Filters
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Router /filters [get]
func (h *FilterHandler) GetFilters(c echo.Context) error {
	return h.respondWithState(c, "")
}

// GetOptions lists the quick presets and the type and status labels
// @Summary Get filter options
// @Tags Filters
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.FilterOptionsResponse}
// @Router /filters/options [get]
func (h *FilterHandler) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.NewFilterOptionsResponse()})
}

// SetStartDate sets or clears the lower date bound. Any type, status or preset
// selection is cleared.
// @Summary Set start date
// @Tags Filters
// @Accept json
// @Produce json
// @Param request body dto.DateRequest true "Start date, null to clear"
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 422 {object} errors.ErrorResponse "FILTER_002 - Date could not be parsed"
// @Router /filters/start-date [put]
func (h *FilterHandler) SetStartDate(c echo.Context) error {
	return h.setDate(c, "start_date", h.store.SetStartDate)
}

// SetEndDate sets or clears the upper date bound. Any type, status or preset
// selection is cleared.
// @Summary Set end date
// @Tags Filters
// @Accept json
// @Produce json
// @Param request body dto.DateRequest true "End date, null to clear"
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Failure 422 {object} errors.ErrorResponse "FILTER_002 - Date could not be parsed"
// @Router /filters/end-date [put]
func (h *FilterHandler) SetEndDate(c echo.Context) error {
	return h.setDate(c, "end_date", h.store.SetEndDate)
}

// SetTypes replaces the selected transaction types and clears the date range
// @Summary Set transaction types
// @Tags Filters
// @Accept json
// @Produce json
// @Param request body dto.TypesRequest true "Type labels"
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Router /filters/types [put]
func (h *FilterHandler) SetTypes(c echo.Context) error {
	var req dto.TypesRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	h.logUnknownLabels(c, "type", filter.UnknownTypeLabels(req.Labels))
	h.store.SetSelectedTypes(req.Labels)
	return h.respondWithState(c, "")
}

// SetStatuses replaces the selected transaction statuses and clears the date range
// @Summary Set transaction statuses
// @Tags Filters
// @Accept json
// @Produce json
// @Param request body dto.StatusesRequest true "Status labels"
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Router /filters/statuses [put]
func (h *FilterHandler) SetStatuses(c echo.Context) error {
	var req dto.StatusesRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	h.logUnknownLabels(c, "status", filter.UnknownStatusLabels(req.Labels))
	h.store.SetSelectedStatuses(req.Labels)
	return h.respondWithState(c, "")
}

// logUnknownLabels notes labels that match no code. They are stored as given
// and never narrow the list.
func (h *FilterHandler) logUnknownLabels(c echo.Context, kind string, unknown []string) {
	if len(unknown) == 0 {
		return
	}
	h.logger.DebugContext(c.Request().Context(), "ignoring unknown filter labels",
		slog.String("kind", kind),
		slog.Any("labels", unknown),
	)
}

// SetQuickFilter derives the date range from a preset. The filter is not applied.
// @Summary Select quick filter
// @Tags Filters
// @Accept json
// @Produce json
// @Param request body dto.QuickRequest true "Preset name"
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Failure 422 {object} errors.ErrorResponse "FILTER_001 - Unknown quick filter period"
// @Router /filters/quick [put]
func (h *FilterHandler) SetQuickFilter(c echo.Context) error {
	var req dto.QuickRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	period, err := filter.ParseQuickPeriod(req.Period)
	if err == nil {
		err = h.store.SetQuickFilter(period)
	}
	if err != nil {
		return SendError(c, errors.FilterUnknownQuickPeriod, errors.WithDetails("period: "+req.Period))
	}

	return h.respondWithState(c, "")
}

// ApplyFilters opens the applied gate
// @Summary Apply filters
// @Tags Filters
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Router /filters/apply [post]
func (h *FilterHandler) ApplyFilters(c echo.Context) error {
	h.store.ApplyFilters()
	return h.respondWithState(c, "Filters applied")
}

// ClearFilters restores the default last-7-days state, not applied
// @Summary Clear filters
// @Tags Filters
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.FilterStateResponse}
// @Router /filters/clear [post]
func (h *FilterHandler) ClearFilters(c echo.Context) error {
	h.store.ClearFilters()
	return h.respondWithState(c, "Filters cleared")
}

func (h *FilterHandler) setDate(c echo.Context, field string, set func(*time.Time)) error {
	var req dto.DateRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	day, ok := parseDateBound(req.Date)
	if !ok {
		h.logger.InfoContext(c.Request().Context(), "rejected unparseable filter date",
			"field", field,
			"value", *req.Date,
		)
		return SendError(c, errors.FilterUnparseableDate, errors.WithDetails(field+": "+*req.Date))
	}

	set(day)
	return h.respondWithState(c, "")
}

// bind decodes and validates the request body. When it fails the error response
// has already been written and handled is true.
func (h *FilterHandler) bind(c echo.Context, req interface{}) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		code, details := validationFailure(err)
		return true, SendError(c, code, errors.WithDetails(details...))
	}

	return false, nil
}

func (h *FilterHandler) respondWithState(c echo.Context, message string) error {
	st, active := h.store.View()
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewFilterStateResponse(st, active),
		Message: message,
	})
}
