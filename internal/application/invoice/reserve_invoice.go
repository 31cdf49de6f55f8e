package invoice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/metrics"
)

// ReserveInvoiceUseCase 预留库存用例（仓库确认发票）
// 设计说明：防止超卖的完整流程
//
// 核心问题：同一产品被多张发票并发预留时，
// "先查库存、再扣库存"的朴素实现会超卖。
// 正确实现：
//  1. SELECT FOR UPDATE 逐个锁定明细涉及的产品行
//  2. 持锁检查全部明细的库存是否充足
//  3. 任何一行不足：整单失败，报告所有缺口，不扣任何产品
//  4. 全部充足：逐行写reserve台账并扣减计数器
//  5. 条件更新发票状态，COMMIT释放锁
//
// 锁定顺序按产品ID升序：所有事务以同一顺序加锁，
// 多产品发票相互交叉时不会死锁
type ReserveInvoiceUseCase struct {
	invoiceRepo   invoice.Repository
	productRepo   product.Repository
	inventoryRepo inventory.Repository
	txManager     tx.Manager
	events        *EventPublisher
}

// NewReserveInvoiceUseCase 创建预留用例
func NewReserveInvoiceUseCase(
	invoiceRepo invoice.Repository,
	productRepo product.Repository,
	inventoryRepo inventory.Repository,
	txManager tx.Manager,
	events *EventPublisher,
) *ReserveInvoiceUseCase {
	return &ReserveInvoiceUseCase{
		invoiceRepo:   invoiceRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		events:        events,
	}
}

// Execute 执行库存预留
// 成功后发票进入待财务审核状态
func (uc *ReserveInvoiceUseCase) Execute(ctx context.Context, invoiceID uint, operatorID uint, role user.Role) (*invoice.Invoice, error) {
	start := time.Now()

	inv, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	// 权限门：角色、动作、当前状态的纯函数判定，副作用之前拒绝
	if err := invoice.Allowed(role, invoice.ActionReserve, inv.Status); err != nil {
		recordTransition(invoice.ActionReserve, start, err)
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 需求量按产品聚合（同一产品可能出现在多行明细中），
		// 并按产品ID升序锁定
		demand := make(map[uint]float64)
		for i := range inv.Items {
			demand[inv.Items[i].ProductID] += inv.Items[i].Quantity
		}
		productIDs := make([]uint, 0, len(demand))
		for id := range demand {
			productIDs = append(productIDs, id)
		}
		sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

		// 步骤1：锁定全部产品行并收集缺口
		// 全有或全无：必须先检查完所有产品再决定是否扣减
		locked := make(map[uint]*product.Product, len(productIDs))
		var shortages []inventory.Shortage
		for _, id := range productIDs {
			p, err := uc.productRepo.LockByID(txCtx, id)
			if err != nil {
				return err
			}
			locked[id] = p
			if !p.HasStock(demand[id]) {
				shortages = append(shortages, inventory.Shortage{
					ProductID: p.ID,
					Code:      p.Code,
					Name:      p.Name,
					Requested: demand[id],
					Available: p.QuantityAvailable,
				})
			}
		}
		if len(shortages) > 0 {
			// 列出所有不足的产品，而不是只有第一个
			return apperrors.WrapCode(
				&inventory.InsufficientStockError{Shortages: shortages},
				apperrors.ErrCodeInsufficientStock,
				fmt.Sprintf("库存不足，%d个产品存在缺口", len(shortages)),
			)
		}

		// 步骤2：逐行明细写reserve台账并扣减计数器（同一事务）
		for i := range inv.Items {
			it := &inv.Items[i]
			entry := inventory.NewTransaction(it.ProductID, inv.ID, inventory.KindReserve,
				-it.Quantity, "发票预留", operatorID)
			if err := uc.inventoryRepo.Append(txCtx, entry); err != nil {
				return err
			}
			if err := uc.productRepo.UpdateQuantity(txCtx, it.ProductID, -it.Quantity); err != nil {
				return err
			}
		}

		// 步骤3：条件更新状态，并发抢先者胜出，落败方得到Conflict
		return uc.invoiceRepo.UpdateStatus(txCtx, inv.ID,
			invoice.StatusWarehousePending, invoice.StatusAccountantPending, nil)
	})

	recordReservation(err)
	recordTransition(invoice.ActionReserve, start, err)
	if err != nil {
		return nil, err
	}

	inv.Status = invoice.StatusAccountantPending
	uc.events.PublishTransition(ctx, inv, "reserved", operatorID)

	return inv, nil
}

// recordReservation 记录预留结果指标
func recordReservation(err error) {
	result := "success"
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			result = "insufficient"
		case errors.Is(err, invoice.ErrConflict) || apperrors.GetAppError(err).Code == apperrors.ErrCodeConflict:
			result = "conflict"
		default:
			result = "failure"
		}
	}
	metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": result})
}

// recordTransition 记录状态流转指标（各转移用例共用）
func recordTransition(action invoice.Action, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.InvoiceTransitionsTotal, map[string]string{
		"action": string(action),
		"result": result,
	})
	metrics.ObserveHistogramVec(metrics.InvoiceTransitionDuration,
		map[string]string{"action": string(action)}, time.Since(start).Seconds())
}
