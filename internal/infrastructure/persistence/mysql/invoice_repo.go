package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// invoiceRepository 发票仓储实现(MySQL)
// 设计说明:
// 1. Invoice和InvoiceItem是聚合关系,创建时一起保存
// 2. 查询时Preload明细(含产品)、客户(含收款账户),
//    返回完整聚合,响应中不留未解析的引用
// 3. UpdateStatus用(id, status)条件UPDATE实现乐观并发控制:
//    两个并发转移只有一个能命中前置状态,另一个0行受影响
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓储
func NewInvoiceRepository(db *gorm.DB) invoice.Repository {
	return &invoiceRepository{db: db}
}

// Create 创建发票(含明细,同一事务)
func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	model := toInvoiceModel(inv)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "发票编号已存在")
		}
		return apperrors.Wrap(err, "创建发票失败")
	}

	inv.ID = model.ID
	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	for i := range inv.Items {
		inv.Items[i].ID = model.Items[i].ID
		inv.Items[i].InvoiceID = model.ID
	}

	return nil
}

// FindByID 根据ID查找发票(急加载完整聚合)
func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*invoice.Invoice, error) {
	var model InvoiceModel
	db := getDB(ctx, r.db)

	err := db.Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(err, "查询发票失败")
	}

	inv := toInvoiceEntity(&model)
	if err := r.resolveAggregates(ctx, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}

	return inv, nil
}

// UpdateStatus 条件更新发票状态(乐观并发控制)
// UPDATE invoices SET status = to WHERE id = ? AND status = from
// 0行受影响时区分两种情况:发票不存在→NotFound,
// 状态已被并发修改→Conflict(调用方刷新后重试)
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uint, from, to invoice.Status, tracking *invoice.TrackingInfo) error {
	db := getDB(ctx, r.db)

	updates := map[string]interface{}{
		"status": int(to),
	}
	if tracking != nil {
		updates["carrier"] = tracking.Carrier
		updates["tracking_code"] = tracking.TrackingCode
		updates["shipped_at"] = tracking.ShippedAt
		updates["package_count"] = tracking.PackageCount
	}

	result := db.Model(&InvoiceModel{}).
		Where("id = ? AND status = ?", id, int(from)).
		Updates(updates)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新发票状态失败")
	}

	if result.RowsAffected == 0 {
		var model InvoiceModel
		if err := db.Select("id").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invoice.ErrInvoiceNotFound
			}
			return apperrors.Wrap(err, "查询发票失败")
		}
		// 发票存在但前置状态不匹配:并发转移抢先了
		return invoice.ErrConflict
	}

	return nil
}

// List 分页查询发票列表
// Statuses过滤下推到SQL条件中执行,分页总数不泄露被过滤记录
func (r *invoiceRepository) List(ctx context.Context, params invoice.ListParams) ([]*invoice.Invoice, int64, error) {
	var models []InvoiceModel
	var total int64

	query := r.db.WithContext(ctx).Model(&InvoiceModel{})

	if len(params.Statuses) > 0 {
		statuses := make([]int, len(params.Statuses))
		for i, s := range params.Statuses {
			statuses[i] = int(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if params.Status != 0 {
		query = query.Where("status = ?", int(params.Status))
	}
	if params.CustomerID != 0 {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.CreatedBy != 0 {
		query = query.Where("created_by = ?", params.CreatedBy)
	}
	if params.PaymentType != "" {
		query = query.Where("payment_type = ?", string(params.PaymentType))
	}
	if !params.From.IsZero() {
		query = query.Where("created_at >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("created_at <= ?", params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询发票总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(params.PageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询发票列表失败")
	}

	invoices := make([]*invoice.Invoice, len(models))
	for i := range models {
		invoices[i] = toInvoiceEntity(&models[i])
	}

	if err := r.resolveAggregates(ctx, invoices); err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// resolveAggregates 批量填充发票聚合的关联实体
// 客户(含收款账户)、创建人、明细产品一次性查出,避免N+1
func (r *invoiceRepository) resolveAggregates(ctx context.Context, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	db := getDB(ctx, r.db)

	customerIDs := make([]uint, 0, len(invoices))
	creatorIDs := make([]uint, 0, len(invoices))
	productIDs := make([]uint, 0)
	for _, inv := range invoices {
		customerIDs = append(customerIDs, inv.CustomerID)
		creatorIDs = append(creatorIDs, inv.CreatedBy)
		for i := range inv.Items {
			productIDs = append(productIDs, inv.Items[i].ProductID)
		}
	}

	var customerModels []CustomerModel
	if err := db.Preload("BankAccounts").Where("id IN ?", customerIDs).Find(&customerModels).Error; err != nil {
		return apperrors.Wrap(err, "查询发票客户失败")
	}
	customerByID := make(map[uint]*CustomerModel, len(customerModels))
	for i := range customerModels {
		customerByID[customerModels[i].ID] = &customerModels[i]
	}

	var userModels []UserModel
	if err := db.Where("id IN ?", creatorIDs).Find(&userModels).Error; err != nil {
		return apperrors.Wrap(err, "查询发票创建人失败")
	}
	userByID := make(map[uint]*UserModel, len(userModels))
	for i := range userModels {
		userByID[userModels[i].ID] = &userModels[i]
	}

	var productModels []ProductModel
	if len(productIDs) > 0 {
		if err := db.Where("id IN ?", productIDs).Find(&productModels).Error; err != nil {
			return apperrors.Wrap(err, "查询明细产品失败")
		}
	}
	productByID := make(map[uint]*ProductModel, len(productModels))
	for i := range productModels {
		productByID[productModels[i].ID] = &productModels[i]
	}

	for _, inv := range invoices {
		if m, ok := customerByID[inv.CustomerID]; ok {
			inv.Customer = toCustomerEntity(m)
		}
		if m, ok := userByID[inv.CreatedBy]; ok {
			u := toUserEntity(m)
			u.Password = "" // 聚合中不携带密码哈希
			inv.Creator = u
		}
		for i := range inv.Items {
			if m, ok := productByID[inv.Items[i].ProductID]; ok {
				inv.Items[i].Product = toProductEntity(m)
			}
		}
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toInvoiceModel(inv *invoice.Invoice) *InvoiceModel {
	items := make([]InvoiceItemModel, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemModel{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		}
	}

	model := &InvoiceModel{
		ID:             inv.ID,
		InvoiceNo:      inv.InvoiceNo,
		CustomerID:     inv.CustomerID,
		Status:         int(inv.Status),
		PaymentType:    string(inv.PaymentType),
		CashAmount:     inv.Breakdown.CashAmount,
		ChequeAmount:   inv.Breakdown.ChequeAmount,
		TransferAmount: inv.Breakdown.TransferAmount,
		TotalAmount:    inv.TotalAmount,
		CreatedBy:      inv.CreatedBy,
		Items:          items,
	}

	if inv.Tracking != nil {
		model.Carrier = inv.Tracking.Carrier
		model.TrackingCode = inv.Tracking.TrackingCode
		model.ShippedAt = inv.Tracking.ShippedAt
		model.PackageCount = inv.Tracking.PackageCount
	}

	return model
}

func toInvoiceEntity(model *InvoiceModel) *invoice.Invoice {
	items := make([]invoice.LineItem, len(model.Items))
	for i, it := range model.Items {
		items[i] = invoice.LineItem{
			ID:        it.ID,
			InvoiceID: it.InvoiceID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		}
	}

	inv := &invoice.Invoice{
		ID:          model.ID,
		InvoiceNo:   model.InvoiceNo,
		CustomerID:  model.CustomerID,
		Status:      invoice.Status(model.Status),
		PaymentType: invoice.PaymentType(model.PaymentType),
		Breakdown: invoice.PaymentBreakdown{
			CashAmount:     model.CashAmount,
			ChequeAmount:   model.ChequeAmount,
			TransferAmount: model.TransferAmount,
		},
		TotalAmount: model.TotalAmount,
		Items:       items,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	// shipped及之后的状态才持有物流信息
	if model.Carrier != "" || model.ShippedAt != nil {
		inv.Tracking = &invoice.TrackingInfo{
			Carrier:      model.Carrier,
			TrackingCode: model.TrackingCode,
			ShippedAt:    model.ShippedAt,
			PackageCount: model.PackageCount,
		}
	}

	return inv
}
