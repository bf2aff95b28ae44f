package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

// TransactionType classifies a credit ledger entry
type TransactionType string

const (
	// TransactionTypeDeduct spends credits; its amount is always negative
	TransactionTypeDeduct TransactionType = "deduct"
	// TransactionTypeAdd grants credits; its amount is always positive
	TransactionTypeAdd TransactionType = "add"
	// TransactionTypeRefund compensates a failed deduction; its amount is always positive
	TransactionTypeRefund TransactionType = "refund"
	// TransactionTypeAdminAdjustment is a manual correction; either sign
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

var transactionTypes = map[TransactionType]bool{
	TransactionTypeDeduct:          true,
	TransactionTypeAdd:             true,
	TransactionTypeRefund:          true,
	TransactionTypeAdminAdjustment: true,
}

// ParseTransactionType validates a raw string against the fixed type set
func ParseTransactionType(s string) (TransactionType, error) {
	tt := TransactionType(s)
	if !transactionTypes[tt] {
		return "", pkgerrors.NewInvalidValueError("unknown transaction type: " + s).
			WithCode("INVALID_TRANSACTION_TYPE").
			WithDetail("type", s)
	}
	return tt, nil
}

// IsValid reports whether the transaction type is in the fixed set
func (tt TransactionType) IsValid() bool {
	return transactionTypes[tt]
}

// AllowsAmount reports whether the signed amount is legal for this type
func (tt TransactionType) AllowsAmount(amount int) bool {
	switch tt {
	case TransactionTypeDeduct:
		return amount < 0
	case TransactionTypeAdd, TransactionTypeRefund:
		return amount > 0
	case TransactionTypeAdminAdjustment:
		return amount != 0
	default:
		return false
	}
}

// String returns the transaction type as a string
func (tt TransactionType) String() string {
	return string(tt)
}
