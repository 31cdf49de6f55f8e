package invoice

import (
	"context"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// ApproveInvoiceUseCase 财务审核用例
// 无库存副作用：库存已在预留时扣减，审核只推进状态
type ApproveInvoiceUseCase struct {
	invoiceRepo invoice.Repository
	txManager   tx.Manager
	events      *EventPublisher
}

// NewApproveInvoiceUseCase 创建审核用例
func NewApproveInvoiceUseCase(invoiceRepo invoice.Repository, txManager tx.Manager, events *EventPublisher) *ApproveInvoiceUseCase {
	return &ApproveInvoiceUseCase{
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		events:      events,
	}
}

// Execute 执行审核
func (uc *ApproveInvoiceUseCase) Execute(ctx context.Context, invoiceID uint, operatorID uint, role user.Role) (*invoice.Invoice, error) {
	start := time.Now()

	inv, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Allowed(role, invoice.ActionApprove, inv.Status); err != nil {
		recordTransition(invoice.ActionApprove, start, err)
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.invoiceRepo.UpdateStatus(txCtx, inv.ID,
			invoice.StatusAccountantPending, invoice.StatusApproved, nil)
	})

	recordTransition(invoice.ActionApprove, start, err)
	if err != nil {
		return nil, err
	}

	inv.Status = invoice.StatusApproved
	uc.events.PublishTransition(ctx, inv, "approved", operatorID)

	return inv, nil
}
