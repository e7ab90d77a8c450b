package unlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		fee    int64
		payout int64
	}{
		{"spec example", 499, 75, 424}, // 74.85 rounds up, not down
		{"exact split", 1000, 150, 850},
		{"one cent", 1, 0, 1}, // 0.15 rounds down
		{"three cents", 3, 0, 3},
		{"four cents", 4, 1, 3}, // 0.60 rounds up
		{"round half up", 10, 2, 8},
		{"large amount", 1_000_000, 150_000, 850_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ComputeSplit(tt.amount)
			assert.Equal(t, tt.amount, split.AmountPaid)
			assert.Equal(t, tt.fee, split.PlatformFee)
			assert.Equal(t, tt.payout, split.CreatorPayout)
		})
	}
}

func TestComputeSplit_ConservesEveryCent(t *testing.T) {
	for amount := int64(1); amount <= 10_000; amount++ {
		split := ComputeSplit(amount)
		assert.Equal(t, amount, split.PlatformFee+split.CreatorPayout, "amount %d", amount)
		assert.GreaterOrEqual(t, split.PlatformFee, int64(0), "amount %d", amount)
		assert.GreaterOrEqual(t, split.CreatorPayout, int64(0), "amount %d", amount)
	}
}
