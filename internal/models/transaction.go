package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"

	TransactionStatusSuccessful = "successful"
	TransactionStatusPending    = "pending"
	TransactionStatusFailed     = "failed"
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
)

// TransactionMetadata carries the optional customer and product details attached to a payment
type TransactionMetadata struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Email       string `json:"email,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Country     string `json:"country,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// Transaction is a wallet transaction exactly as returned by the remote API.
// Date is kept opaque: the API mixes ISO strings, month-name dates and Unix timestamps.
type Transaction struct {
	Amount           decimal.Decimal      `json:"amount"`
	Metadata         *TransactionMetadata `json:"metadata,omitempty"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	Status           string               `json:"status"`
	Type             string               `json:"type"`
	Date             string               `json:"date"`
}

// UnmarshalJSON accepts the date either as a JSON string or as a bare number
// (a Unix timestamp), keeping the number's literal text.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	aux := struct {
		*plain
		Date json.RawMessage `json:"date"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Date)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		t.Date = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &t.Date)
	default:
		t.Date = string(raw)
	}
	return nil
}

// Key returns the identity of the transaction: its payment reference when present,
// otherwise a positional fallback derived from index.
func (t *Transaction) Key(index int) string {
	if t.PaymentReference != "" {
		return t.PaymentReference
	}
	return fmt.Sprintf("transaction-%d", index)
}

// IsDeposit reports whether the transaction credits the wallet
func (t *Transaction) IsDeposit() bool {
	return t.Type == TransactionTypeDeposit
}

// SignedAmount returns the amount with withdrawals (and every non-deposit type) negated
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsDeposit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// MetadataValue returns the named metadata field, or an empty string when metadata is absent
func (t *Transaction) MetadataValue(field string) string {
	if t.Metadata == nil {
		return ""
	}
	switch field {
	case "name":
		return t.Metadata.Name
	case "type":
		return t.Metadata.Type
	case "email":
		return t.Metadata.Email
	case "country":
		return t.Metadata.Country
	case "product_name":
		return t.Metadata.ProductName
	default:
		return ""
	}
}

// Validate checks the enumerated fields of a transaction
func (t *Transaction) Validate() error {
	if !IsValidTransactionStatus(t.Status) {
		return ErrInvalidTransactionStatus
	}
	if t.Type == "" {
		return ErrInvalidTransactionType
	}
	return nil
}

// IsValidTransactionStatus checks if the status is one the API is known to return
func IsValidTransactionStatus(status string) bool {
	switch status {
	case TransactionStatusSuccessful, TransactionStatusPending, TransactionStatusFailed:
		return true
	default:
		return false
	}
}
