package inventory

import (
	"context"
	"time"
)

// ListParams 台账查询参数
type ListParams struct {
	ProductID uint // 按产品过滤（0表示不过滤）
	InvoiceID uint // 按发票过滤（0表示不过滤）
	Kind      Kind // 按变动类型过滤（空表示不过滤）
	From      time.Time
	To        time.Time
	Page      int
	PageSize  int
}

// Repository 库存台账仓储接口
// 设计说明：台账只追加，接口上没有Update/Delete
type Repository interface {
	// Append 追加一条台账记录
	// 必须与产品库存计数器的修改处于同一事务
	Append(ctx context.Context, t *Transaction) error

	// NetReservedForInvoice 计算发票在某产品上的净未释放预留量
	// 返回值为正数（reserve的绝对值之和减去release之和）
	// 取消发票时据此判断需要归还多少库存
	NetReservedForInvoice(ctx context.Context, invoiceID, productID uint) (float64, error)

	// ReservedForProduct 计算产品当前被全部发票预留的净总量
	// 用于库存视图：在库总量 = 可用量 + 预留量
	ReservedForProduct(ctx context.Context, productID uint) (float64, error)

	// List 分页查询台账（按创建时间倒序）
	List(ctx context.Context, params ListParams) ([]*Transaction, int64, error)
}
