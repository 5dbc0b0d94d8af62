package domain

// Campaign lifecycle.
const (
	CampaignStatusPending   = "pending"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusRejected  = "rejected"
	CampaignStatusCancelled = "cancelled"
)

// Donation lifecycle.
const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

// Ledger entry types.
const (
	TxTypeIncome  = "income"
	TxTypeExpense = "expense"
)

// Ledger entry categories.
const (
	TxCategoryDonation     = "donation"
	TxCategoryDisbursement = "disbursement"
	TxCategoryRefund       = "refund"
)

// Ledger entry statuses.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

const (
	RoleAdmin = "ADMIN"
	RoleDonor = "DONOR"
)

// No-fee policy. These are fixed platform guarantees, not derived state:
// every donation is recorded at face value and counted toward the cause.
const (
	PlatformFeeRate    = 0
	ProcessingFeeRate  = 0
	DonationEfficiency = 100
)

// OriginKind tags the event a ledger entry was recorded for.
type OriginKind string

const (
	OriginDonation     OriginKind = "donation_event"
	OriginDisbursement OriginKind = "disbursement_event"
	OriginRefund       OriginKind = "refund_event"
)

// Origin is a typed back-reference from a ledger entry to the event that
// produced it. The (kind, id, category) triple is unique per entry.
type Origin struct {
	Kind OriginKind
	ID   uint
}

func DonationOrigin(donationID uint) Origin {
	return Origin{Kind: OriginDonation, ID: donationID}
}

func RefundOrigin(donationID uint) Origin {
	return Origin{Kind: OriginRefund, ID: donationID}
}

// TypeForCategory derives the ledger entry type from its category.
func TypeForCategory(category string) (string, bool) {
	switch category {
	case TxCategoryDonation:
		return TxTypeIncome, true
	case TxCategoryDisbursement, TxCategoryRefund:
		return TxTypeExpense, true
	}
	return "", false
}

// PublicCategories is the closed set of categories the transparency view may
// expose. Anything else never leaves storage through public endpoints.
var PublicCategories = []string{TxCategoryDonation, TxCategoryDisbursement, TxCategoryRefund}

func IsPublicCategory(category string) bool {
	for _, c := range PublicCategories {
		if c == category {
			return true
		}
	}
	return false
}
