package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
)

// TestProductQuantity 库存视图：可用量+预留量=在库总量
func TestProductQuantity(t *testing.T) {
	s := &stubStore{quantity: 120.5}
	s.ledger = append(s.ledger,
		&inventory.Transaction{ProductID: 1, InvoiceID: 7, Kind: inventory.KindReserve, Delta: -30},
		&inventory.Transaction{ProductID: 1, InvoiceID: 8, Kind: inventory.KindReserve, Delta: -10},
		&inventory.Transaction{ProductID: 1, InvoiceID: 8, Kind: inventory.KindRelease, Delta: 10}, // 已取消，相抵
		&inventory.Transaction{ProductID: 2, InvoiceID: 9, Kind: inventory.KindReserve, Delta: -5}, // 其他产品
	)
	uc := NewProductQuantityUseCase(&stubProductRepo{s: s}, &stubInventoryRepo{s: s})

	view, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, float64(120.5), view.Available)
	assert.Equal(t, float64(30), view.Reserved)
	assert.Equal(t, float64(150.5), view.Total)
}
