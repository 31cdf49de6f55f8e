package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// fixture 发票生命周期测试夹具：内存仓储 + 全部用例
type fixture struct {
	store *memStore

	create  *CreateInvoiceUseCase
	reserve *ReserveInvoiceUseCase
	approve *ApproveInvoiceUseCase
	ship    *ShipInvoiceUseCase
	deliver *DeliverInvoiceUseCase
	cancel  *CancelInvoiceUseCase
	query   *QueryInvoicesUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	invoiceRepo := &memInvoiceRepo{store: store}
	productRepo := &memProductRepo{store: store}
	inventoryRepo := &memInventoryRepo{store: store}
	customerRepo := &memCustomerRepo{store: store}
	txManager := &memTxManager{store: store}
	events := NewEventPublisher(nil) // MQ关闭时的空操作路径

	return &fixture{
		store:   store,
		create:  NewCreateInvoiceUseCase(invoiceRepo, productRepo, customerRepo, txManager, events),
		reserve: NewReserveInvoiceUseCase(invoiceRepo, productRepo, inventoryRepo, txManager, events),
		approve: NewApproveInvoiceUseCase(invoiceRepo, txManager, events),
		ship:    NewShipInvoiceUseCase(invoiceRepo, inventoryRepo, txManager, events),
		deliver: NewDeliverInvoiceUseCase(invoiceRepo, txManager, events),
		cancel:  NewCancelInvoiceUseCase(invoiceRepo, productRepo, inventoryRepo, txManager, events),
		query:   NewQueryInvoicesUseCase(invoiceRepo),
	}
}

// addProduct 预置产品
func (f *fixture) addProduct(id uint, code string, quantity float64) {
	f.store.products[id] = &product.Product{
		ID:                id,
		Code:              code,
		Name:              "测试布料" + code,
		Unit:              "米",
		PurchasePrice:     2000,
		SalePrice:         3500,
		QuantityAvailable: quantity,
	}
}

// addCustomer 预置客户
func (f *fixture) addCustomer(id uint) {
	f.store.customers[id] = &customer.Customer{ID: id, FirstName: "测试", LastName: "客户"}
}

type itemSpec struct {
	productID uint
	quantity  float64
}

// addInvoice 预置指定状态的发票
func (f *fixture) addInvoice(id uint, status invoice.Status, items ...itemSpec) {
	lineItems := make([]invoice.LineItem, len(items))
	var total int64
	for i, it := range items {
		lineItems[i] = invoice.LineItem{
			InvoiceID: id,
			ProductID: it.productID,
			Quantity:  it.quantity,
			Unit:      "米",
			UnitPrice: 3500,
		}
		total += lineItems[i].Subtotal()
	}
	f.store.invoices[id] = &invoice.Invoice{
		ID:          id,
		InvoiceNo:   invoice.GenerateInvoiceNo(),
		CustomerID:  1,
		Status:      status,
		PaymentType: invoice.PaymentCash,
		TotalAmount: total,
		Items:       lineItems,
		CreatedBy:   1,
	}
	if id > f.store.nextInvoiceID {
		f.store.nextInvoiceID = id
	}
}

// stock 读取当前库存
func (f *fixture) stock(productID uint) float64 {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.products[productID].QuantityAvailable
}

// ledgerRows 读取指定发票+产品的台账行
func (f *fixture) ledgerRows(invoiceID uint) []*inventory.Transaction {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*inventory.Transaction
	for _, t := range f.store.ledger {
		if t.InvoiceID == invoiceID {
			out = append(out, t)
		}
	}
	return out
}

func validTracking() *invoice.TrackingInfo {
	shippedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	return &invoice.TrackingInfo{
		Carrier:      "顺丰速运",
		TrackingCode: "SF123456789",
		ShippedAt:    &shippedAt,
		PackageCount: 2,
	}
}

// TestCreateInvoice 创建发票：单价取产品当前售价快照，不触碰库存
func TestCreateInvoice(t *testing.T) {
	f := newFixture()
	f.addCustomer(1)
	f.addProduct(1, "FB-001", 100)

	t.Run("创建成功_单价快照", func(t *testing.T) {
		inv, err := f.create.Execute(context.Background(), CreateInvoiceRequest{
			CustomerID:  1,
			PaymentType: invoice.PaymentCash,
			Items:       []CreateInvoiceItem{{ProductID: 1, Quantity: 12.5}},
			CreatorID:   1,
			CreatorRole: user.RoleAccountant,
		})
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusWarehousePending, inv.Status)
		assert.Equal(t, int64(3500), inv.Items[0].UnitPrice)
		assert.Equal(t, int64(43750), inv.TotalAmount) // 12.5 * 3500
		assert.Equal(t, float64(100), f.stock(1))      // 创建不扣库存
	})

	t.Run("仓库角色不能开票", func(t *testing.T) {
		_, err := f.create.Execute(context.Background(), CreateInvoiceRequest{
			CustomerID:  1,
			PaymentType: invoice.PaymentCash,
			Items:       []CreateInvoiceItem{{ProductID: 1, Quantity: 1}},
			CreatorID:   2,
			CreatorRole: user.RoleWarehouse,
		})
		assert.ErrorIs(t, err, invoice.ErrForbidden)
	})

	t.Run("混合结算拆分必须等于总额", func(t *testing.T) {
		_, err := f.create.Execute(context.Background(), CreateInvoiceRequest{
			CustomerID:  1,
			PaymentType: invoice.PaymentMixed,
			Breakdown:   invoice.PaymentBreakdown{CashAmount: 1000, TransferAmount: 2000},
			Items:       []CreateInvoiceItem{{ProductID: 1, Quantity: 2}}, // 总额7000
			CreatorID:   1,
			CreatorRole: user.RoleAccountant,
		})
		assert.ErrorIs(t, err, invoice.ErrBreakdownMismatch)
	})
}

// TestReserveInvoice_Success 预留成功：台账与计数器同时变动，状态推进
func TestReserveInvoice_Success(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addProduct(2, "FB-002", 5)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 4}, itemSpec{2, 2})

	inv, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse)
	require.NoError(t, err)

	assert.Equal(t, invoice.StatusAccountantPending, inv.Status)
	assert.Equal(t, float64(6), f.stock(1))
	assert.Equal(t, float64(3), f.stock(2))

	rows := f.ledgerRows(1)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, inventory.KindReserve, row.Kind)
		assert.Negative(t, row.Delta)
	}
}

// TestReserveInvoice_AllOrNothing 任一产品不足时整单失败，不扣任何产品
func TestReserveInvoice_AllOrNothing(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addProduct(2, "FB-002", 2)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 5}, itemSpec{2, 3})

	_, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse)
	require.Error(t, err)

	// 错误携带全部缺口明细
	var insufficient *inventory.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	require.Len(t, insufficient.Shortages, 1)
	assert.Equal(t, uint(2), insufficient.Shortages[0].ProductID)
	assert.Equal(t, float64(3), insufficient.Shortages[0].Requested)
	assert.Equal(t, float64(2), insufficient.Shortages[0].Available)

	// 库存充足的产品1也未被扣减，台账无任何记录
	assert.Equal(t, float64(10), f.stock(1))
	assert.Equal(t, float64(2), f.stock(2))
	assert.Empty(t, f.ledgerRows(1))

	// 发票停留在待预留状态
	got, err := f.query.Get(context.Background(), 1, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusWarehousePending, got.Status)
}

// TestReserveInvoice_NoOversell 并发预留不超卖：库存15，20张单各要1
func TestReserveInvoice_NoOversell(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 15)
	for i := uint(1); i <= 20; i++ {
		f.addInvoice(i, invoice.StatusWarehousePending, itemSpec{1, 1})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, insufficient := 0, 0

	for i := uint(1); i <= 20; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.reserve.Execute(context.Background(), id, 10, user.RoleWarehouse)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			var e *inventory.InsufficientStockError
			if errors.As(err, &e) {
				insufficient++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 15, succeeded)
	assert.Equal(t, 5, insufficient)
	assert.Equal(t, float64(0), f.stock(1))

	// 台账reserve行数与成功数一致
	f.store.mu.Lock()
	assert.Len(t, f.store.ledger, 15)
	f.store.mu.Unlock()
}

// TestReserveInvoice_ConcurrentSameInvoice 同一发票并发预留只成功一次
func TestReserveInvoice_ConcurrentSameInvoice(t *testing.T) {
	f := newFixture()
	// 库存恰好够一次完整预留
	f.addProduct(1, "FB-001", 5)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 5})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 落败方可能在状态门、持锁库存检查或条件更新处被拒，
	// 无论哪条路径都必须回滚：库存只扣一次，台账只有一行
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, float64(0), f.stock(1))
	assert.Len(t, f.ledgerRows(1), 1)
}

// TestReserveInvoice_WrongStatus 非待预留状态的预留请求不产生任何台账
func TestReserveInvoice_WrongStatus(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusApproved, itemSpec{1, 5})

	_, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
	assert.Equal(t, float64(10), f.stock(1))
	assert.Empty(t, f.ledgerRows(1))
}

// TestReserveInvoice_RoleForbidden 财务角色不能执行仓库动作
func TestReserveInvoice_RoleForbidden(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 5})

	_, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleAccountant)
	assert.ErrorIs(t, err, invoice.ErrForbidden)
	assert.Empty(t, f.ledgerRows(1))
}

// TestCancelInvoice_ExactCompensation 取消归还的量恰好等于净预留量
func TestCancelInvoice_ExactCompensation(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 8})

	_, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse)
	require.NoError(t, err)
	require.Equal(t, float64(2), f.stock(1))

	inv, err := f.cancel.Execute(context.Background(), 1, 1, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusCancelled, inv.Status)
	assert.Equal(t, float64(10), f.stock(1)) // 完整归还

	rows := f.ledgerRows(1)
	require.Len(t, rows, 2)
	assert.Equal(t, inventory.KindReserve, rows[0].Kind)
	assert.Equal(t, float64(-8), rows[0].Delta)
	assert.Equal(t, inventory.KindRelease, rows[1].Kind)
	assert.Equal(t, float64(8), rows[1].Delta)
}

// TestCancelInvoice_BeforeReserve 未预留的发票取消时不写任何台账
func TestCancelInvoice_BeforeReserve(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 8})

	inv, err := f.cancel.Execute(context.Background(), 1, 1, user.RoleAccountant)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusCancelled, inv.Status)
	assert.Equal(t, float64(10), f.stock(1))
	assert.Empty(t, f.ledgerRows(1))
}

// TestCancelInvoice_Twice 二次取消被拒绝，不产生双重释放
func TestCancelInvoice_Twice(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 8})

	_, err := f.reserve.Execute(context.Background(), 1, 10, user.RoleWarehouse)
	require.NoError(t, err)
	_, err = f.cancel.Execute(context.Background(), 1, 1, user.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, float64(10), f.stock(1))

	_, err = f.cancel.Execute(context.Background(), 1, 1, user.RoleAdmin)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)

	// 库存与台账不变：一条reserve一条release
	assert.Equal(t, float64(10), f.stock(1))
	assert.Len(t, f.ledgerRows(1), 2)
}

// TestCancelInvoice_AfterShip 发货后不可取消
func TestCancelInvoice_AfterShip(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 10)
	f.addInvoice(1, invoice.StatusShipped, itemSpec{1, 8})

	_, err := f.cancel.Execute(context.Background(), 1, 1, user.RoleAdmin)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
}

// TestShipInvoice_StockNeutral 发货不动计数器，只留ship_mark审计行
func TestShipInvoice_StockNeutral(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 2) // 预留已扣走8
	f.addInvoice(1, invoice.StatusApproved, itemSpec{1, 8})

	inv, err := f.ship.Execute(context.Background(), 1, validTracking(), 10, user.RoleWarehouse)
	require.NoError(t, err)

	assert.Equal(t, invoice.StatusShipped, inv.Status)
	require.NotNil(t, inv.Tracking)
	assert.Equal(t, "顺丰速运", inv.Tracking.Carrier)
	assert.Equal(t, float64(2), f.stock(1)) // 库存中性

	rows := f.ledgerRows(1)
	require.Len(t, rows, 1)
	assert.Equal(t, inventory.KindShipMark, rows[0].Kind)
	assert.Equal(t, float64(0), rows[0].Delta)

	// 物流信息已持久化
	got, err := f.query.Get(context.Background(), 1, user.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, got.Tracking)
	assert.Equal(t, "SF123456789", got.Tracking.TrackingCode)
}

// TestShipInvoice_TrackingValidatedFirst 物流信息不完整时发货被拒，无任何副作用
func TestShipInvoice_TrackingValidatedFirst(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 2)
	f.addInvoice(1, invoice.StatusApproved, itemSpec{1, 8})

	cases := []struct {
		name     string
		mutate   func(*invoice.TrackingInfo)
		expected error
	}{
		{"缺承运方", func(t *invoice.TrackingInfo) { t.Carrier = "" }, invoice.ErrMissingCarrier},
		{"缺运单号", func(t *invoice.TrackingInfo) { t.TrackingCode = "" }, invoice.ErrMissingTrackingCode},
		{"缺发货日期", func(t *invoice.TrackingInfo) { t.ShippedAt = nil }, invoice.ErrMissingShipDate},
		{"件数为0", func(t *invoice.TrackingInfo) { t.PackageCount = 0 }, invoice.ErrInvalidPackageCount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracking := validTracking()
			tc.mutate(tracking)

			_, err := f.ship.Execute(context.Background(), 1, tracking, 10, user.RoleWarehouse)
			assert.ErrorIs(t, err, tc.expected)
			assert.Empty(t, f.ledgerRows(1))
		})
	}

	// 发票仍处于已审核，可以用完整信息重新发货
	got, err := f.query.Get(context.Background(), 1, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusApproved, got.Status)
}

// TestFullLifecycle 完整生命周期：创建→预留→审核→发货→送达
func TestFullLifecycle(t *testing.T) {
	f := newFixture()
	f.addCustomer(1)
	f.addProduct(1, "FB-001", 20)

	ctx := context.Background()

	inv, err := f.create.Execute(ctx, CreateInvoiceRequest{
		CustomerID:  1,
		PaymentType: invoice.PaymentTransfer,
		Items:       []CreateInvoiceItem{{ProductID: 1, Quantity: 6}},
		CreatorID:   1,
		CreatorRole: user.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = f.reserve.Execute(ctx, inv.ID, 2, user.RoleWarehouse)
	require.NoError(t, err)
	_, err = f.approve.Execute(ctx, inv.ID, 3, user.RoleAccountant)
	require.NoError(t, err)
	_, err = f.ship.Execute(ctx, inv.ID, validTracking(), 2, user.RoleWarehouse)
	require.NoError(t, err)
	final, err := f.deliver.Execute(ctx, inv.ID, 2, user.RoleWarehouse)
	require.NoError(t, err)

	assert.Equal(t, invoice.StatusDelivered, final.Status)
	assert.Equal(t, float64(14), f.stock(1)) // 整个流程库存只扣一次

	// 台账：一条reserve + 一条ship_mark
	rows := f.ledgerRows(inv.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, inventory.KindReserve, rows[0].Kind)
	assert.Equal(t, inventory.KindShipMark, rows[1].Kind)

	// 终态后任何转移都被拒绝
	_, err = f.cancel.Execute(ctx, inv.ID, 1, user.RoleAdmin)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
}

// TestQueryInvoices_RoleVisibility 仓库角色的可见性过滤
func TestQueryInvoices_RoleVisibility(t *testing.T) {
	f := newFixture()
	f.addProduct(1, "FB-001", 100)
	f.addInvoice(1, invoice.StatusWarehousePending, itemSpec{1, 1})
	f.addInvoice(2, invoice.StatusAccountantPending, itemSpec{1, 1})
	f.addInvoice(3, invoice.StatusApproved, itemSpec{1, 1})
	f.addInvoice(4, invoice.StatusCancelled, itemSpec{1, 1})

	t.Run("仓库看不到财务流程中的发票", func(t *testing.T) {
		_, err := f.query.Get(context.Background(), 2, user.RoleWarehouse)
		assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)

		_, err = f.query.Get(context.Background(), 4, user.RoleWarehouse)
		assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)
	})

	t.Run("仓库列表只含可见状态", func(t *testing.T) {
		list, total, err := f.query.List(context.Background(), ListRequest{Role: user.RoleWarehouse})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total) // 待预留 + 已审核
		for _, inv := range list {
			assert.Contains(t, []invoice.Status{
				invoice.StatusWarehousePending,
				invoice.StatusApproved,
				invoice.StatusShipped,
			}, inv.Status)
		}
	})

	t.Run("财务看到全部", func(t *testing.T) {
		_, total, err := f.query.List(context.Background(), ListRequest{Role: user.RoleAccountant})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})
}
