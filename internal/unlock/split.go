package unlock

import "github.com/YobelBerhe/CoachOS-sub000/internal/domain"

// platformFeePercent is the platform's share of every unlock. The original
// 85/15 split is a fixed platform-wide constant, not a per-record override.
const platformFeePercent = 15

// ComputeSplit divides an amount between platform and creator in minor
// currency units. The fee is rounded half up; the payout is always the exact
// remainder, never computed independently, so AmountPaid == PlatformFee +
// CreatorPayout holds without rounding drift.
func ComputeSplit(amountMinor int64) domain.RevenueSplit {
	fee := (amountMinor*platformFeePercent + 50) / 100
	return domain.RevenueSplit{
		AmountPaid:    amountMinor,
		PlatformFee:   fee,
		CreatorPayout: amountMinor - fee,
	}
}
