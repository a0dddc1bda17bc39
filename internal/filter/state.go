package filter

import (
	"errors"
	"time"

	"github.com/jinzhu/now"
)

// QuickPeriod is a named preset that derives a date range from the current moment
type QuickPeriod string

const (
	QuickNone        QuickPeriod = ""
	QuickToday       QuickPeriod = "Today"
	QuickLast7Days   QuickPeriod = "Last 7 days"
	QuickThisMonth   QuickPeriod = "This month"
	QuickLast3Months QuickPeriod = "Last 3 months"
	QuickAllTime     QuickPeriod = "All Time"
)

// DefaultQuickPeriod is the preset the dashboard starts with and returns to on clear
const DefaultQuickPeriod = QuickLast7Days

var ErrUnknownQuickPeriod = errors.New("unknown quick filter period")

var quickPeriods = []QuickPeriod{
	QuickToday,
	QuickLast7Days,
	QuickThisMonth,
	QuickLast3Months,
	QuickAllTime,
}

// QuickPeriods lists the presets in the order the filter panel shows them
func QuickPeriods() []QuickPeriod {
	return append([]QuickPeriod(nil), quickPeriods...)
}

// ParseQuickPeriod converts a preset name into a QuickPeriod
func ParseQuickPeriod(name string) (QuickPeriod, error) {
	for _, p := range quickPeriods {
		if string(p) == name {
			return p, nil
		}
	}
	return QuickNone, ErrUnknownQuickPeriod
}

// Range computes the date bounds of the preset relative to at.
// A nil bound means the side is unbounded.
func (p QuickPeriod) Range(at time.Time) (start, end *time.Time, err error) {
	switch p {
	case QuickToday:
		return timePtr(at), timePtr(at), nil
	case QuickLast7Days:
		return timePtr(at.AddDate(0, 0, -7)), timePtr(at), nil
	case QuickThisMonth:
		return timePtr(now.With(at).BeginningOfMonth()), timePtr(at), nil
	case QuickLast3Months:
		return timePtr(at.AddDate(0, -3, 0)), timePtr(at), nil
	case QuickAllTime:
		return nil, nil, nil
	default:
		return nil, nil, ErrUnknownQuickPeriod
	}
}

// State is a snapshot of the five filter dimensions.
// SelectedTypes and SelectedStatuses hold UI labels, not API codes.
type State struct {
	StartDate        *time.Time
	EndDate          *time.Time
	SelectedTypes    []string
	SelectedStatuses []string
	QuickFilter      QuickPeriod
	IsApplied        bool
}

// DefaultState returns the last-7-days window ending at at, not applied
func DefaultState(at time.Time) State {
	start, end, _ := DefaultQuickPeriod.Range(at)
	return State{
		StartDate:        start,
		EndDate:          end,
		SelectedTypes:    []string{},
		SelectedStatuses: []string{},
		QuickFilter:      DefaultQuickPeriod,
	}
}

// HasDateRange reports whether either date bound is set
func (s State) HasDateRange() bool {
	return s.StartDate != nil || s.EndDate != nil
}

// Clone returns a deep copy that shares no memory with s
func (s State) Clone() State {
	c := s
	c.StartDate = copyTime(s.StartDate)
	c.EndDate = copyTime(s.EndDate)
	c.SelectedTypes = append([]string{}, s.SelectedTypes...)
	c.SelectedStatuses = append([]string{}, s.SelectedStatuses...)
	return c
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return timePtr(*t)
}

// uniqueLabels drops duplicates and empty labels, keeping first-seen order
func uniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
