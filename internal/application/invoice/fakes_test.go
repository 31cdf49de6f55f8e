package invoice

import (
	"context"
	"sync"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// memStore 内存数据存储
// 模拟数据库的两个关键性质：
// 1. 事务串行提交（txMu，相当于行锁争用的最坏情况）
// 2. 事务内任何错误整体回滚（快照恢复）
type memStore struct {
	mu   sync.Mutex // 保护数据字段
	txMu sync.Mutex // 串行化事务

	products  map[uint]*product.Product
	invoices  map[uint]*invoice.Invoice
	customers map[uint]*customer.Customer
	ledger    []*inventory.Transaction

	nextInvoiceID uint
	nextLedgerID  uint
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uint]*product.Product),
		invoices:  make(map[uint]*invoice.Invoice),
		customers: make(map[uint]*customer.Customer),
	}
}

type storeSnapshot struct {
	products  map[uint]product.Product
	invoices  map[uint]invoice.Invoice
	ledgerLen int
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storeSnapshot{
		products:  make(map[uint]product.Product, len(s.products)),
		invoices:  make(map[uint]invoice.Invoice, len(s.invoices)),
		ledgerLen: len(s.ledger),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, inv := range s.invoices {
		snap.invoices[id] = *copyInvoice(inv)
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range snap.products {
		p := snap.products[id]
		s.products[id] = &p
	}
	for id := range snap.invoices {
		inv := snap.invoices[id]
		s.invoices[id] = &inv
	}
	s.ledger = s.ledger[:snap.ledgerLen]
}

// copyInvoice 返回发票的独立副本，避免并发用例共享可变状态
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	cp := *inv
	cp.Items = make([]invoice.LineItem, len(inv.Items))
	copy(cp.Items, inv.Items)
	if inv.Tracking != nil {
		t := *inv.Tracking
		cp.Tracking = &t
	}
	return &cp
}

// memTxManager 内存事务管理器（tx.Manager实现）
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// memProductRepo 内存产品仓储
type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[p.ID] = p
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

// LockByID 事务已由memTxManager串行化，加锁读等价于普通读
func (r *memProductRepo) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) UpdateQuantity(ctx context.Context, id uint, delta float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.QuantityAvailable+delta < 0 {
		return product.ErrInsufficientStock
	}
	p.QuantityAvailable += delta
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[p.ID] = p
	return nil
}

func (r *memProductRepo) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*product.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// memInvoiceRepo 内存发票仓储
type memInvoiceRepo struct {
	store *memStore
}

func (r *memInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextInvoiceID++
	inv.ID = r.store.nextInvoiceID
	r.store.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *memInvoiceRepo) FindByID(ctx context.Context, id uint) (*invoice.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}
	return copyInvoice(inv), nil
}

func (r *memInvoiceRepo) UpdateStatus(ctx context.Context, id uint, from, to invoice.Status, tracking *invoice.TrackingInfo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return invoice.ErrInvoiceNotFound
	}
	if inv.Status != from {
		return invoice.ErrConflict
	}
	inv.Status = to
	if tracking != nil {
		t := *tracking
		inv.Tracking = &t
	}
	return nil
}

func (r *memInvoiceRepo) List(ctx context.Context, params invoice.ListParams) ([]*invoice.Invoice, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*invoice.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		if params.Statuses != nil {
			visible := false
			for _, s := range params.Statuses {
				if s == inv.Status {
					visible = true
					break
				}
			}
			if !visible {
				continue
			}
		}
		if params.Status != 0 && inv.Status != params.Status {
			continue
		}
		if params.CustomerID != 0 && inv.CustomerID != params.CustomerID {
			continue
		}
		out = append(out, copyInvoice(inv))
	}
	return out, int64(len(out)), nil
}

// memInventoryRepo 内存库存台账仓储（只追加）
type memInventoryRepo struct {
	store *memStore
}

func (r *memInventoryRepo) Append(ctx context.Context, t *inventory.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextLedgerID++
	cp := *t
	cp.ID = r.store.nextLedgerID
	r.store.ledger = append(r.store.ledger, &cp)
	return nil
}

func (r *memInventoryRepo) NetReservedForInvoice(ctx context.Context, invoiceID, productID uint) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var net float64
	for _, t := range r.store.ledger {
		if t.InvoiceID != invoiceID || t.ProductID != productID {
			continue
		}
		if t.Kind == inventory.KindReserve || t.Kind == inventory.KindRelease {
			net -= t.Delta
		}
	}
	return net, nil
}

func (r *memInventoryRepo) ReservedForProduct(ctx context.Context, productID uint) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reserved float64
	for _, t := range r.store.ledger {
		if t.ProductID != productID {
			continue
		}
		if t.Kind != inventory.KindReserve && t.Kind != inventory.KindRelease {
			continue
		}
		inv, ok := r.store.invoices[t.InvoiceID]
		if !ok {
			continue
		}
		// 只统计仍持有预留的发票
		if inv.Status == invoice.StatusAccountantPending || inv.Status == invoice.StatusApproved {
			reserved -= t.Delta
		}
	}
	return reserved, nil
}

func (r *memInventoryRepo) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Transaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*inventory.Transaction, 0, len(r.store.ledger))
	for _, t := range r.store.ledger {
		if params.ProductID != 0 && t.ProductID != params.ProductID {
			continue
		}
		if params.InvoiceID != 0 && t.InvoiceID != params.InvoiceID {
			continue
		}
		if params.Kind != "" && t.Kind != params.Kind {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// memCustomerRepo 内存客户仓储
type memCustomerRepo struct {
	store *memStore
}

func (r *memCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, apperrors.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) List(ctx context.Context, params customer.ListParams) ([]*customer.Customer, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*customer.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}
