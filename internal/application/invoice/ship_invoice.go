package invoice

import (
	"context"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// ShipInvoiceUseCase 发货用例
// 设计说明：
// 1. 发货是库存中性的：预留时已扣减计数器，发货只在台账里
//    留下ship_mark审计记录（delta=0），绝不能再扣一次
// 2. 物流信息校验在任何台账写入之前完成，缺字段直接拒绝
type ShipInvoiceUseCase struct {
	invoiceRepo   invoice.Repository
	inventoryRepo inventory.Repository
	txManager     tx.Manager
	events        *EventPublisher
}

// NewShipInvoiceUseCase 创建发货用例
func NewShipInvoiceUseCase(
	invoiceRepo invoice.Repository,
	inventoryRepo inventory.Repository,
	txManager tx.Manager,
	events *EventPublisher,
) *ShipInvoiceUseCase {
	return &ShipInvoiceUseCase{
		invoiceRepo:   invoiceRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		events:        events,
	}
}

// Execute 执行发货
func (uc *ShipInvoiceUseCase) Execute(ctx context.Context, invoiceID uint, tracking *invoice.TrackingInfo, operatorID uint, role user.Role) (*invoice.Invoice, error) {
	start := time.Now()

	// 物流信息校验先于一切副作用
	if err := tracking.Validate(); err != nil {
		return nil, err
	}

	inv, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Allowed(role, invoice.ActionShip, inv.Status); err != nil {
		recordTransition(invoice.ActionShip, start, err)
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 每行明细一条ship_mark：货物离库的审计标记，不动计数器
		for i := range inv.Items {
			entry := inventory.NewTransaction(inv.Items[i].ProductID, inv.ID,
				inventory.KindShipMark, 0, "发货出库", operatorID)
			if err := uc.inventoryRepo.Append(txCtx, entry); err != nil {
				return err
			}
		}

		return uc.invoiceRepo.UpdateStatus(txCtx, inv.ID,
			invoice.StatusApproved, invoice.StatusShipped, tracking)
	})

	recordTransition(invoice.ActionShip, start, err)
	if err != nil {
		return nil, err
	}

	inv.Status = invoice.StatusShipped
	inv.Tracking = tracking
	uc.events.PublishTransition(ctx, inv, "shipped", operatorID)

	return inv, nil
}
