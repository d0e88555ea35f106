package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNetPayable(t *testing.T) {
	got := NetPayable(dec("11800.00"), dec("236.00"), dec("64.00"))
	assert.True(t, got.Equal(dec("11500.00")), "got %s", got)
}

func TestNetPayable_NoDeductions(t *testing.T) {
	got := NetPayable(dec("500"), decimal.Zero, decimal.Zero)
	assert.True(t, got.Equal(dec("500")))
}

func TestFinalize_SetsNetPayable(t *testing.T) {
	d := &domain.BillDetails{
		BillAmount:      dec("1180.00"),
		TaxableAmount:   dec("1000.00"),
		GSTAmount:       dec("180.00"),
		TDSAmount:       dec("20.00"),
		OtherDeductions: dec("10.00"),
	}
	require.NoError(t, Finalize(d))
	assert.True(t, d.NetPayable.Equal(dec("1150.00")), "got %s", d.NetPayable)
}

func TestValidateAmounts_Errors(t *testing.T) {
	tests := []struct {
		name string
		bill domain.BillDetails
	}{
		{"zero bill amount", domain.BillDetails{BillAmount: decimal.Zero}},
		{"negative bill amount", domain.BillDetails{BillAmount: dec("-1")}},
		{"negative tds", domain.BillDetails{BillAmount: dec("100"), TDSAmount: dec("-5")}},
		{"negative other deductions", domain.BillDetails{BillAmount: dec("100"), OtherDeductions: dec("-5")}},
		{"taxable exceeds bill", domain.BillDetails{BillAmount: dec("100"), TaxableAmount: dec("101")}},
		{"gst exceeds bill", domain.BillDetails{BillAmount: dec("100"), GSTAmount: dec("101")}},
		{"deductions exceed bill", domain.BillDetails{BillAmount: dec("100"), TDSAmount: dec("60"), OtherDeductions: dec("41")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmounts(&tt.bill)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestValidateAmounts_OK(t *testing.T) {
	d := domain.BillDetails{
		BillAmount:      dec("100"),
		TaxableAmount:   dec("100"),
		TDSAmount:       dec("50"),
		OtherDeductions: dec("50"),
	}
	assert.NoError(t, ValidateAmounts(&d))
}
