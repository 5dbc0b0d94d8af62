package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeForCategory(t *testing.T) {
	cases := []struct {
		category string
		wantType string
		wantOK   bool
	}{
		{TxCategoryDonation, TxTypeIncome, true},
		{TxCategoryDisbursement, TxTypeExpense, true},
		{TxCategoryRefund, TxTypeExpense, true},
		{"fee", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			got, ok := TypeForCategory(tc.category)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantType, got)
		})
	}
}

func TestIsPublicCategory(t *testing.T) {
	for _, c := range PublicCategories {
		assert.True(t, IsPublicCategory(c))
	}
	assert.False(t, IsPublicCategory("fee_adjustment"))
	assert.False(t, IsPublicCategory(""))
	assert.False(t, IsPublicCategory("Donation"), "matching is exact, not case folded")
}

func TestOriginRoundTrip(t *testing.T) {
	o := DonationOrigin(42)
	assert.Equal(t, OriginDonation, o.Kind)
	assert.Equal(t, uint(42), o.ID)

	r := RefundOrigin(7)
	assert.Equal(t, OriginRefund, r.Kind)
}
