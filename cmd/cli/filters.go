package main

import (
	"fmt"
	"log/slog"
	"time"

	"wallet-dashboard/internal/filter"

	"github.com/spf13/cobra"
)

type filters struct {
	startDate string
	endDate   string
	types     []string
	statuses  []string
	quick     string
	all       bool
}

// register adds the filter flags to cmd. Date flags and label flags belong to
// different families and cannot be combined.
func (f *filters) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.startDate, "start", "", "Start date, inclusive (e.g. 2022-03-01, 03/01/2022, March 1, 2022)")
	flags.StringVar(&f.endDate, "end", "", "End date, inclusive")
	flags.StringSliceVar(&f.types, "type", nil, "Transaction type label, repeatable (e.g. \"Store Transaction\")")
	flags.StringSliceVar(&f.statuses, "status", nil, "Transaction status label, repeatable (e.g. Successful)")
	flags.StringVar(&f.quick, "quick", "", "Quick period: Today, \"Last 7 days\", \"This month\", \"Last 3 months\", \"All Time\"")
	flags.BoolVar(&f.all, "all", false, "Show every transaction without filtering")

	for _, dates := range []string{"start", "end", "quick"} {
		for _, labels := range []string{"type", "status"} {
			cmd.MarkFlagsMutuallyExclusive(dates, labels)
		}
	}
	cmd.MarkFlagsMutuallyExclusive("quick", "start")
	cmd.MarkFlagsMutuallyExclusive("quick", "end")
	for _, name := range []string{"start", "end", "type", "status", "quick"} {
		cmd.MarkFlagsMutuallyExclusive("all", name)
	}
}

// applyTo moves the flag values into the store and applies them. Without any
// filter flag the default last-7-days window is applied, unless --all is set.
func (f *filters) applyTo(store *filter.Store) error {
	if f.quick != "" {
		period, err := filter.ParseQuickPeriod(f.quick)
		if err != nil {
			return fmt.Errorf("--quick %q: %w", f.quick, err)
		}
		if err := store.SetQuickFilter(period); err != nil {
			return err
		}
	}

	if f.startDate != "" {
		start, err := parseDateFlag("start", f.startDate)
		if err != nil {
			return err
		}
		store.SetStartDate(&start)
	}
	if f.endDate != "" {
		end, err := parseDateFlag("end", f.endDate)
		if err != nil {
			return err
		}
		store.SetEndDate(&end)
	}

	if len(f.types) > 0 {
		store.SetSelectedTypes(f.types)
	}
	if len(f.statuses) > 0 {
		store.SetSelectedStatuses(f.statuses)
	}

	if !f.all {
		store.ApplyFilters()
	}
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	parsed, ok := filter.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("--%s %q: unrecognised date", name, value)
	}
	return filter.NormalizeToDate(parsed), nil
}

// logUnknownLabels reports label flags that match no code. They are passed to
// the store anyway and leave their dimension inactive.
func (f *filters) logUnknownLabels(logger *slog.Logger) {
	if unknown := filter.UnknownTypeLabels(f.types); len(unknown) > 0 {
		logger.Debug("Ignoring unknown labels", "flag", "--type", "labels", unknown)
	}
	if unknown := filter.UnknownStatusLabels(f.statuses); len(unknown) > 0 {
		logger.Debug("Ignoring unknown labels", "flag", "--status", "labels", unknown)
	}
}
