package invoice

import (
	"context"
	"time"
)

// ListParams 发票列表查询参数
// Statuses由查询层根据角色注入（见VisibleStatuses），
// Status是调用方显式指定的过滤条件，两者取交集语义由实现保证
type ListParams struct {
	Statuses    []Status    // 角色可见状态集合（nil表示不限制）
	Status      Status      // 指定状态过滤（0表示不过滤）
	CustomerID  uint        // 按客户过滤（0表示不过滤）
	CreatedBy   uint        // 按创建人过滤（0表示不过滤）
	PaymentType PaymentType // 按结算方式过滤（空表示不过滤）
	From        time.Time
	To          time.Time
	Page        int
	PageSize    int
}

// Repository 发票仓储接口
type Repository interface {
	// Create 创建发票（含明细行，同一事务）
	Create(ctx context.Context, inv *Invoice) error

	// FindByID 根据ID查找发票
	// 急加载明细（含产品）、客户（含收款账户）、创建人，
	// 返回完整聚合，调用方无需二次查询
	// 如果不存在，返回ErrInvoiceNotFound
	FindByID(ctx context.Context, id uint) (*Invoice, error)

	// UpdateStatus 条件更新发票状态（乐观并发控制）
	// 仅当当前状态等于from时才写入to；tracking非nil时一并写入
	// 前置状态不匹配（并发转移抢先）返回ErrConflict，
	// 发票不存在返回ErrInvoiceNotFound
	UpdateStatus(ctx context.Context, id uint, from, to Status, tracking *TrackingInfo) error

	// List 分页查询发票列表（按创建时间倒序，急加载明细与客户）
	List(ctx context.Context, params ListParams) ([]*Invoice, int64, error)
}
