package dto

import (
	"time"

	"wallet-dashboard/internal/filter"
)

// DateRequest sets or clears one date bound. A null or missing date clears it.
type DateRequest struct {
	Date *string `json:"date" validate:"omitempty,max=64"`
}

// TypesRequest replaces the selected transaction-type labels
type TypesRequest struct {
	Labels []string `json:"labels" validate:"max=10,dive,max=64"`
}

// StatusesRequest replaces the selected transaction-status labels
type StatusesRequest struct {
	Labels []string `json:"labels" validate:"max=10,dive,max=64"`
}

// QuickRequest selects a quick preset
type QuickRequest struct {
	Period string `json:"period" validate:"required,quick_period"`
}

// FilterStateResponse is the filter panel as the dashboard shows it
type FilterStateResponse struct {
	StartDate         *string  `json:"start_date"`
	EndDate           *string  `json:"end_date"`
	SelectedTypes     []string `json:"selected_types"`
	SelectedStatuses  []string `json:"selected_statuses"`
	QuickFilter       string   `json:"quick_filter"`
	IsApplied         bool     `json:"is_applied"`
	ActiveFilterCount int      `json:"active_filter_count"`
}

// FilterOptionsResponse lists the choices offered by the filter panel
type FilterOptionsResponse struct {
	QuickPeriods []string `json:"quick_periods"`
	Types        []string `json:"types"`
	Statuses     []string `json:"statuses"`
}

// DateLayout is how date bounds are echoed back to clients
const DateLayout = "2006-01-02"

// NewFilterStateResponse renders st with its active filter count
func NewFilterStateResponse(st filter.State, activeCount int) FilterStateResponse {
	return FilterStateResponse{
		StartDate:         formatDate(st.StartDate),
		EndDate:           formatDate(st.EndDate),
		SelectedTypes:     st.SelectedTypes,
		SelectedStatuses:  st.SelectedStatuses,
		QuickFilter:       string(st.QuickFilter),
		IsApplied:         st.IsApplied,
		ActiveFilterCount: activeCount,
	}
}

// NewFilterOptionsResponse lists the presets and labels in display order
func NewFilterOptionsResponse() FilterOptionsResponse {
	periods := filter.QuickPeriods()
	names := make([]string, 0, len(periods))
	for _, p := range periods {
		names = append(names, string(p))
	}
	return FilterOptionsResponse{
		QuickPeriods: names,
		Types:        filter.TypeOptions(),
		Statuses:     filter.StatusOptions(),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
