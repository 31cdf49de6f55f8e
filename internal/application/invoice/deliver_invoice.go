package invoice

import (
	"context"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// DeliverInvoiceUseCase 确认送达用例
// 无库存副作用，delivered是终态
type DeliverInvoiceUseCase struct {
	invoiceRepo invoice.Repository
	txManager   tx.Manager
	events      *EventPublisher
}

// NewDeliverInvoiceUseCase 创建送达用例
func NewDeliverInvoiceUseCase(invoiceRepo invoice.Repository, txManager tx.Manager, events *EventPublisher) *DeliverInvoiceUseCase {
	return &DeliverInvoiceUseCase{
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		events:      events,
	}
}

// Execute 执行送达确认
func (uc *DeliverInvoiceUseCase) Execute(ctx context.Context, invoiceID uint, operatorID uint, role user.Role) (*invoice.Invoice, error) {
	start := time.Now()

	inv, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Allowed(role, invoice.ActionDeliver, inv.Status); err != nil {
		recordTransition(invoice.ActionDeliver, start, err)
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.invoiceRepo.UpdateStatus(txCtx, inv.ID,
			invoice.StatusShipped, invoice.StatusDelivered, nil)
	})

	recordTransition(invoice.ActionDeliver, start, err)
	if err != nil {
		return nil, err
	}

	inv.Status = invoice.StatusDelivered
	uc.events.PublishTransition(ctx, inv, "delivered", operatorID)

	return inv, nil
}
