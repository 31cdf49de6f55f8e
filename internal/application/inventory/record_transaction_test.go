package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// stubStore 手工台账测试用的最小内存实现
// 回滚语义：事务失败时恢复库存并截断台账
type stubStore struct {
	quantity float64
	ledger   []*inventory.Transaction
}

type stubProductRepo struct{ s *stubStore }

func (r *stubProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }
func (r *stubProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	return &product.Product{ID: id, QuantityAvailable: r.s.quantity}, nil
}
func (r *stubProductRepo) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}
func (r *stubProductRepo) UpdateQuantity(ctx context.Context, id uint, delta float64) error {
	if r.s.quantity+delta < 0 {
		return product.ErrInsufficientStock
	}
	r.s.quantity += delta
	return nil
}
func (r *stubProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *stubProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

type stubInventoryRepo struct{ s *stubStore }

func (r *stubInventoryRepo) Append(ctx context.Context, t *inventory.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.s.ledger = append(r.s.ledger, t)
	return nil
}
func (r *stubInventoryRepo) NetReservedForInvoice(ctx context.Context, invoiceID, productID uint) (float64, error) {
	return 0, nil
}
func (r *stubInventoryRepo) ReservedForProduct(ctx context.Context, productID uint) (float64, error) {
	var reserved float64
	for _, t := range r.s.ledger {
		if t.ProductID == productID && (t.Kind == inventory.KindReserve || t.Kind == inventory.KindRelease) {
			reserved -= t.Delta
		}
	}
	return reserved, nil
}
func (r *stubInventoryRepo) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Transaction, int64, error) {
	return r.s.ledger, int64(len(r.s.ledger)), nil
}

type stubTxManager struct{ s *stubStore }

func (m *stubTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	quantity, ledgerLen := m.s.quantity, len(m.s.ledger)
	if err := fn(ctx); err != nil {
		m.s.quantity = quantity
		m.s.ledger = m.s.ledger[:ledgerLen]
		return err
	}
	return nil
}

func newRecordFixture(quantity float64) (*stubStore, *RecordTransactionUseCase) {
	s := &stubStore{quantity: quantity}
	uc := NewRecordTransactionUseCase(
		&stubProductRepo{s: s},
		&stubInventoryRepo{s: s},
		&stubTxManager{s: s},
	)
	return s, uc
}

// TestRecordTransaction 手工台账：进货入库与盘点调整
func TestRecordTransaction(t *testing.T) {
	t.Run("进货入库", func(t *testing.T) {
		s, uc := newRecordFixture(10)
		entry, err := uc.Execute(context.Background(), RecordRequest{
			ProductID:    1,
			Kind:         inventory.KindRestock,
			Delta:        25.5,
			Note:         "新到货",
			OperatorID:   1,
			OperatorRole: user.RoleWarehouse,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(35.5), s.quantity)
		assert.Equal(t, inventory.KindRestock, entry.Kind)
		require.Len(t, s.ledger, 1)
	})

	t.Run("盘点调减", func(t *testing.T) {
		s, uc := newRecordFixture(10)
		_, err := uc.Execute(context.Background(), RecordRequest{
			ProductID:    1,
			Kind:         inventory.KindAdjust,
			Delta:        -3,
			Note:         "盘亏",
			OperatorID:   1,
			OperatorRole: user.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(7), s.quantity)
	})

	t.Run("调减不能使库存为负_整体回滚", func(t *testing.T) {
		s, uc := newRecordFixture(10)
		_, err := uc.Execute(context.Background(), RecordRequest{
			ProductID:    1,
			Kind:         inventory.KindAdjust,
			Delta:        -12,
			OperatorID:   1,
			OperatorRole: user.RoleAdmin,
		})
		assert.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Equal(t, float64(10), s.quantity)
		assert.Empty(t, s.ledger) // 台账追加已随事务回滚
	})

	t.Run("手工入口只接受restock和adjust", func(t *testing.T) {
		s, uc := newRecordFixture(10)
		for _, kind := range []inventory.Kind{inventory.KindReserve, inventory.KindRelease, inventory.KindShipMark} {
			_, err := uc.Execute(context.Background(), RecordRequest{
				ProductID:    1,
				Kind:         kind,
				Delta:        -1,
				OperatorID:   1,
				OperatorRole: user.RoleAdmin,
			})
			assert.ErrorIs(t, err, inventory.ErrInvalidKind)
		}
		assert.Empty(t, s.ledger)
	})

	t.Run("进货量必须为正", func(t *testing.T) {
		_, uc := newRecordFixture(10)
		_, err := uc.Execute(context.Background(), RecordRequest{
			ProductID:    1,
			Kind:         inventory.KindRestock,
			Delta:        -5,
			OperatorID:   1,
			OperatorRole: user.RoleWarehouse,
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidDelta)
	})

	t.Run("财务角色不能操作库存", func(t *testing.T) {
		_, uc := newRecordFixture(10)
		_, err := uc.Execute(context.Background(), RecordRequest{
			ProductID:    1,
			Kind:         inventory.KindRestock,
			Delta:        5,
			OperatorID:   1,
			OperatorRole: user.RoleAccountant,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
