package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// inventoryRepository 库存台账仓储实现(MySQL)
// 设计说明:台账只追加,本仓储没有任何UPDATE/DELETE
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建台账仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// Append 追加台账记录
// 必须通过getDB(ctx)参与事务:台账与库存计数器同生共死
func (r *inventoryRepository) Append(ctx context.Context, t *inventory.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	model := &InventoryTransactionModel{
		ProductID: t.ProductID,
		InvoiceID: t.InvoiceID,
		Kind:      string(t.Kind),
		Delta:     t.Delta,
		Note:      t.Note,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入台账失败")
	}

	t.ID = model.ID
	return nil
}

// NetReservedForInvoice 计算发票在某产品上的净未释放预留量
// SUM(reserve的|delta|) - SUM(release的delta),结果>=0
// 取消发票时以此判断需要归还多少库存,而不是猜测状态
func (r *inventoryRepository) NetReservedForInvoice(ctx context.Context, invoiceID, productID uint) (float64, error) {
	var net float64
	db := getDB(ctx, r.db)

	// reserve的delta为负,release的delta为正,
	// 净未释放量 = -(SUM(delta) where kind in (reserve, release))
	err := db.Model(&InventoryTransactionModel{}).
		Select("COALESCE(-SUM(delta), 0)").
		Where("invoice_id = ? AND product_id = ?", invoiceID, productID).
		Where("kind IN ?", []string{string(inventory.KindReserve), string(inventory.KindRelease)}).
		Scan(&net).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "查询预留净值失败")
	}

	return net, nil
}

// ReservedForProduct 计算产品被全部发票预留的净总量
// 只统计仍持有预留的发票（待审核/已审核）：
// 已发货发票的货物已经离库，不再计入"预留中"；
// 已取消发票的reserve与release相抵为零
func (r *inventoryRepository) ReservedForProduct(ctx context.Context, productID uint) (float64, error) {
	var reserved float64

	err := r.db.WithContext(ctx).Model(&InventoryTransactionModel{}).
		Select("COALESCE(-SUM(inventory_transactions.delta), 0)").
		Joins("JOIN invoices ON invoices.id = inventory_transactions.invoice_id").
		Where("inventory_transactions.product_id = ?", productID).
		Where("inventory_transactions.kind IN ?", []string{string(inventory.KindReserve), string(inventory.KindRelease)}).
		Where("invoices.status IN ?", []int{int(invoice.StatusAccountantPending), int(invoice.StatusApproved)}).
		Scan(&reserved).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "查询产品预留总量失败")
	}

	return reserved, nil
}

// List 分页查询台账(按创建时间倒序)
func (r *inventoryRepository) List(ctx context.Context, params inventory.ListParams) ([]*inventory.Transaction, int64, error) {
	var models []InventoryTransactionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&InventoryTransactionModel{})

	if params.ProductID != 0 {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.InvoiceID != 0 {
		query = query.Where("invoice_id = ?", params.InvoiceID)
	}
	if params.Kind != "" {
		query = query.Where("kind = ?", string(params.Kind))
	}
	if !params.From.IsZero() {
		query = query.Where("created_at >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("created_at <= ?", params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询台账总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("created_at DESC, id DESC").
		Limit(params.PageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询台账列表失败")
	}

	items := make([]*inventory.Transaction, len(models))
	for i := range models {
		items[i] = toTransactionEntity(&models[i])
	}

	return items, total, nil
}

func toTransactionEntity(model *InventoryTransactionModel) *inventory.Transaction {
	return &inventory.Transaction{
		ID:        model.ID,
		ProductID: model.ProductID,
		InvoiceID: model.InvoiceID,
		Kind:      inventory.Kind(model.Kind),
		Delta:     model.Delta,
		Note:      model.Note,
		CreatedBy: model.CreatedBy,
		CreatedAt: model.CreatedAt,
	}
}
