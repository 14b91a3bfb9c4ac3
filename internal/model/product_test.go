package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name      string
		stock     int
		threshold int
		want      string
	}{
		{"empty", 0, 10, StatusOutOfStock},
		{"at threshold", 10, 10, StatusLowStock},
		{"below threshold", 3, 10, StatusLowStock},
		{"above threshold", 11, 10, StatusInStock},
		{"zero threshold", 1, 0, StatusInStock},
		{"negative stock", -4, 10, StatusOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.stock, tc.threshold))
		})
	}
}

// Random stock/threshold pairs: the status written by ApplyDerivedStatus always
// matches the derivation rule, whatever status the caller supplied.
func TestApplyDerivedStatusProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []string{StatusInStock, StatusLowStock, StatusOutOfStock, "bogus"}

	for i := 0; i < 5000; i++ {
		p := &Product{
			Stock:             rng.Intn(200),
			LowStockThreshold: rng.Intn(50),
			Status:            statuses[rng.Intn(len(statuses))],
		}
		p.ApplyDerivedStatus()

		var want string
		switch {
		case p.Stock == 0:
			want = StatusOutOfStock
		case p.Stock <= p.LowStockThreshold:
			want = StatusLowStock
		default:
			want = StatusInStock
		}
		if !assert.Equal(t, want, p.Status, "stock=%d threshold=%d", p.Stock, p.LowStockThreshold) {
			return
		}
		assert.Equal(t, p.Stock <= p.LowStockThreshold, p.IsLowStock())
	}
}

func TestApplyMovement(t *testing.T) {
	assert.Equal(t, 25, ApplyMovement(5, TransactionIn, 20))
	assert.Equal(t, 2, ApplyMovement(5, TransactionOut, 3))
}
