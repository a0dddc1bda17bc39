package filter

import (
	"slices"
	"time"

	"wallet-dashboard/internal/models"
)

// ExclusionReason explains why a transaction was dropped by the engine
type ExclusionReason string

const (
	ReasonNone            ExclusionReason = ""
	ReasonUnparseableDate ExclusionReason = "unparseable_date"
	ReasonBeforeStart     ExclusionReason = "before_start"
	ReasonAfterEnd        ExclusionReason = "after_end"
	ReasonTypeMismatch    ExclusionReason = "type_mismatch"
	ReasonStatusMismatch  ExclusionReason = "status_mismatch"
)

// Decision is the engine's verdict for a single transaction
type Decision struct {
	Included bool
	Reason   ExclusionReason
}

// criteria is a State resolved once per evaluation: bounds normalized to
// calendar days and labels mapped to API codes.
type criteria struct {
	applied     bool
	hasDates    bool
	start       *time.Time
	end         *time.Time
	typeCodes   []string
	statusCodes []string
}

func resolve(st State) criteria {
	c := criteria{
		applied:  st.IsApplied,
		hasDates: st.HasDateRange(),
	}
	if st.StartDate != nil {
		c.start = timePtr(NormalizeToDate(*st.StartDate))
	}
	if st.EndDate != nil {
		c.end = timePtr(NormalizeToDate(*st.EndDate))
	}
	// No recognized codes means the dimension is inactive.
	if len(st.SelectedTypes) > 0 {
		c.typeCodes = TypeCodes(st.SelectedTypes)
	}
	if len(st.SelectedStatuses) > 0 {
		c.statusCodes = StatusCodes(st.SelectedStatuses)
	}
	return c
}

// Filter returns the transactions that survive every active dimension of st.
//
// When st is not applied the input slice is returned as is. Otherwise the date,
// type and status checks are ANDed and the input order is preserved. Filter has
// no side effects and never fails: bad dates exclude a record, unknown labels
// disable their dimension.
func Filter(transactions []models.Transaction, st State) []models.Transaction {
	if !st.IsApplied {
		return transactions
	}

	c := resolve(st)
	kept := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		if c.decide(&transactions[i]).Included {
			kept = append(kept, transactions[i])
		}
	}
	return kept
}

// Decide evaluates a single transaction against st
func Decide(txn models.Transaction, st State) Decision {
	return resolve(st).decide(&txn)
}

func (c criteria) decide(txn *models.Transaction) Decision {
	if !c.applied {
		return Decision{Included: true}
	}

	if c.hasDates {
		parsed, ok := ParseDate(txn.Date)
		if !ok {
			return excluded(ReasonUnparseableDate)
		}
		day := NormalizeToDate(parsed)
		if c.start != nil && day.Before(*c.start) {
			return excluded(ReasonBeforeStart)
		}
		if c.end != nil && day.After(*c.end) {
			return excluded(ReasonAfterEnd)
		}
	}

	if len(c.typeCodes) > 0 && !slices.Contains(c.typeCodes, txn.Type) {
		return excluded(ReasonTypeMismatch)
	}

	if len(c.statusCodes) > 0 && !slices.Contains(c.statusCodes, txn.Status) {
		return excluded(ReasonStatusMismatch)
	}

	return Decision{Included: true}
}

func excluded(reason ExclusionReason) Decision {
	return Decision{Included: false, Reason: reason}
}
