package invoice

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	"github.com/xiebiao/fabricshop/pkg/metrics"
)

// CancelInvoiceUseCase 取消发票用例（补偿引擎）
// 设计说明：
// 1. 是否归还库存由台账决定，不由发票状态推断：
//    对每个产品计算该发票的净未释放预留量（reserve - release），
//    净值>0才写release，等于0（从未预留）不写任何台账。
//    这同时防住了双重释放：已释放过的发票净值为0
// 2. release是reserve的精确逆操作：释放量恰好等于净预留量
// 3. cancelled是终态，二次取消在权限门被InvalidTransition拒绝，
//    协议层面天然幂等
type CancelInvoiceUseCase struct {
	invoiceRepo   invoice.Repository
	productRepo   product.Repository
	inventoryRepo inventory.Repository
	txManager     tx.Manager
	events        *EventPublisher
}

// NewCancelInvoiceUseCase 创建取消用例
func NewCancelInvoiceUseCase(
	invoiceRepo invoice.Repository,
	productRepo product.Repository,
	inventoryRepo inventory.Repository,
	txManager tx.Manager,
	events *EventPublisher,
) *CancelInvoiceUseCase {
	return &CancelInvoiceUseCase{
		invoiceRepo:   invoiceRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		events:        events,
	}
}

// Execute 执行取消
// 允许的起始状态：待预留、待审核、已审核（发货后不可取消）
func (uc *CancelInvoiceUseCase) Execute(ctx context.Context, invoiceID uint, operatorID uint, role user.Role) (*invoice.Invoice, error) {
	start := time.Now()

	inv, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Allowed(role, invoice.ActionCancel, inv.Status); err != nil {
		recordTransition(invoice.ActionCancel, start, err)
		return nil, err
	}

	var released float64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 与预留一致：按产品ID升序锁定，避免与并发预留死锁
		productIDs := make([]uint, 0, len(inv.Items))
		seen := make(map[uint]bool)
		for i := range inv.Items {
			if !seen[inv.Items[i].ProductID] {
				seen[inv.Items[i].ProductID] = true
				productIDs = append(productIDs, inv.Items[i].ProductID)
			}
		}
		sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

		for _, pid := range productIDs {
			if _, err := uc.productRepo.LockByID(txCtx, pid); err != nil {
				return err
			}

			// 台账净值决定释放量：从未预留净值为0，跳过
			net, err := uc.inventoryRepo.NetReservedForInvoice(txCtx, inv.ID, pid)
			if err != nil {
				return err
			}
			if net <= 0 {
				continue
			}

			entry := inventory.NewTransaction(pid, inv.ID, inventory.KindRelease,
				net, "取消发票补偿", operatorID)
			if err := uc.inventoryRepo.Append(txCtx, entry); err != nil {
				return err
			}
			if err := uc.productRepo.UpdateQuantity(txCtx, pid, net); err != nil {
				return err
			}
			released += net
		}

		return uc.invoiceRepo.UpdateStatus(txCtx, inv.ID,
			inv.Status, invoice.StatusCancelled, nil)
	})

	recordTransition(invoice.ActionCancel, start, err)
	if err != nil {
		return nil, err
	}

	metrics.AddCounter(metrics.StockReleasedTotal, released)
	inv.Status = invoice.StatusCancelled
	uc.events.PublishTransition(ctx, inv, "cancelled", operatorID)

	return inv, nil
}
