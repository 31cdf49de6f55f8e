package invoice

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	"github.com/xiebiao/fabricshop/pkg/metrics"
)

// CreateInvoiceUseCase 创建发票用例
// 设计说明：
// 1. 创建不触碰库存：新发票落在待仓库预留状态，
//    库存扣减发生在后续的reserve转移中
// 2. 单价快照取自产品当前售价，而不是客户端传值（防改价）
// 3. 明细创建后不可修改，改单只能取消重开
type CreateInvoiceUseCase struct {
	invoiceRepo  invoice.Repository
	productRepo  product.Repository
	customerRepo customer.Repository
	txManager    tx.Manager
	events       *EventPublisher
}

// NewCreateInvoiceUseCase 创建发票用例
func NewCreateInvoiceUseCase(
	invoiceRepo invoice.Repository,
	productRepo product.Repository,
	customerRepo customer.Repository,
	txManager tx.Manager,
	events *EventPublisher,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		events:       events,
	}
}

// CreateInvoiceRequest 创建发票请求
type CreateInvoiceRequest struct {
	CustomerID  uint
	PaymentType invoice.PaymentType
	Breakdown   invoice.PaymentBreakdown
	Items       []CreateInvoiceItem
	CreatorID   uint      // 从JWT中提取
	CreatorRole user.Role // 从JWT中提取
}

// CreateInvoiceItem 发票明细项
type CreateInvoiceItem struct {
	ProductID uint
	Quantity  float64
}

// Execute 执行创建发票
// 角色限制：admin、accountant（仓库只做库存操作，不开票）
func (uc *CreateInvoiceUseCase) Execute(ctx context.Context, req CreateInvoiceRequest) (*invoice.Invoice, error) {
	if req.CreatorRole != user.RoleAdmin && req.CreatorRole != user.RoleAccountant {
		return nil, invoice.ErrForbidden
	}

	// 客户必须存在（含收款账户，响应直接携带）
	cust, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// 明细行：产品必须存在，单价取当前售价快照
	items := make([]invoice.LineItem, len(req.Items))
	for i, it := range req.Items {
		p, err := uc.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		items[i] = invoice.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      p.Unit,
			UnitPrice: p.SalePrice,
			Product:   p,
		}
	}

	inv := invoice.NewInvoice(invoice.GenerateInvoiceNo(), req.CustomerID, req.PaymentType, req.Breakdown, items, req.CreatorID)
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.invoiceRepo.Create(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	inv.Customer = cust
	metrics.IncCounter(metrics.InvoicesCreatedTotal)
	uc.events.PublishTransition(ctx, inv, "created", req.CreatorID)

	return inv, nil
}
