package inventory

import (
	"context"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
)

// ListTransactionsUseCase 台账查询用例（只读）
// 审计入口：按产品/发票/类型/时间段追溯每一次库存变动
type ListTransactionsUseCase struct {
	inventoryRepo inventory.Repository
}

// NewListTransactionsUseCase 创建台账查询用例
func NewListTransactionsUseCase(inventoryRepo inventory.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{inventoryRepo: inventoryRepo}
}

// ListRequest 台账查询请求
type ListRequest struct {
	ProductID uint
	InvoiceID uint
	Kind      inventory.Kind
	From      time.Time
	To        time.Time
	Page      int
	PageSize  int
}

// Execute 执行台账查询
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, req ListRequest) ([]*inventory.Transaction, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	return uc.inventoryRepo.List(ctx, inventory.ListParams{
		ProductID: req.ProductID,
		InvoiceID: req.InvoiceID,
		Kind:      req.Kind,
		From:      req.From,
		To:        req.To,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
}
