package invoice

import (
	"context"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// QueryInvoicesUseCase 发票查询用例（只读）
// 设计说明：角色过滤在进入仓储前注入查询条件，
// 分页总数统计的是过滤后的集合，不泄露不可见记录的存在
type QueryInvoicesUseCase struct {
	invoiceRepo invoice.Repository
}

// NewQueryInvoicesUseCase 创建查询用例
func NewQueryInvoicesUseCase(invoiceRepo invoice.Repository) *QueryInvoicesUseCase {
	return &QueryInvoicesUseCase{invoiceRepo: invoiceRepo}
}

// Get 查询单张发票（完整聚合：明细+产品、客户+收款账户、创建人）
// 仓库角色只能查看其可见状态集合内的发票
func (uc *QueryInvoicesUseCase) Get(ctx context.Context, id uint, role user.Role) (*invoice.Invoice, error) {
	inv, err := uc.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if visible := invoice.VisibleStatuses(role); visible != nil {
		ok := false
		for _, s := range visible {
			if s == inv.Status {
				ok = true
				break
			}
		}
		if !ok {
			// 对不可见的发票统一返回不存在，避免泄露其状态
			return nil, invoice.ErrInvoiceNotFound
		}
	}

	return inv, nil
}

// ListRequest 发票列表查询请求
type ListRequest struct {
	Status      invoice.Status
	CustomerID  uint
	CreatedBy   uint
	PaymentType invoice.PaymentType
	From        time.Time
	To          time.Time
	Page        int
	PageSize    int
	Role        user.Role // 从JWT中提取
}

// List 分页查询发票列表（角色过滤下推到查询条件）
func (uc *QueryInvoicesUseCase) List(ctx context.Context, req ListRequest) ([]*invoice.Invoice, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	params := invoice.ListParams{
		Statuses:    invoice.VisibleStatuses(req.Role),
		Status:      req.Status,
		CustomerID:  req.CustomerID,
		CreatedBy:   req.CreatedBy,
		PaymentType: req.PaymentType,
		From:        req.From,
		To:          req.To,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	return uc.invoiceRepo.List(ctx, params)
}
