// Package billing holds the arithmetic and validation rules for bill money
// fields. All amounts use decimal.Decimal; float64 is never used for money.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// NetPayable computes the amount actually disbursed for a bill:
// bill amount minus TDS minus other deductions.
func NetPayable(billAmount, tdsAmount, otherDeductions decimal.Decimal) decimal.Decimal {
	return billAmount.Sub(tdsAmount).Sub(otherDeductions)
}

// ValidateAmounts checks the money fields of a bill before it is persisted.
// The bill amount must be positive; deductions must be non-negative and may
// not exceed the bill amount; the taxable and GST components may not exceed
// the bill amount individually.
func ValidateAmounts(d *domain.BillDetails) error {
	if d.BillAmount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewAppError(400, "bill amount must be positive", apperrors.ErrValidation)
	}
	for _, f := range []struct {
		name string
		amt  decimal.Decimal
	}{
		{"taxable amount", d.TaxableAmount},
		{"GST amount", d.GSTAmount},
		{"TDS amount", d.TDSAmount},
		{"other deductions", d.OtherDeductions},
	} {
		if f.amt.IsNegative() {
			return apperrors.NewAppError(400, fmt.Sprintf("%s cannot be negative", f.name), apperrors.ErrValidation)
		}
	}
	if d.TaxableAmount.GreaterThan(d.BillAmount) {
		return apperrors.NewAppError(400, "taxable amount cannot exceed bill amount", apperrors.ErrValidation)
	}
	if d.GSTAmount.GreaterThan(d.BillAmount) {
		return apperrors.NewAppError(400, "GST amount cannot exceed bill amount", apperrors.ErrValidation)
	}
	if d.TDSAmount.Add(d.OtherDeductions).GreaterThan(d.BillAmount) {
		return apperrors.NewAppError(400, "deductions cannot exceed bill amount", apperrors.ErrValidation)
	}
	return nil
}

// Finalize validates the money fields and fills in the derived net payable.
func Finalize(d *domain.BillDetails) error {
	if err := ValidateAmounts(d); err != nil {
		return err
	}
	d.NetPayable = NetPayable(d.BillAmount, d.TDSAmount, d.OtherDeductions)
	return nil
}
