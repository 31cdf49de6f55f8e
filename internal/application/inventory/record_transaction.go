package inventory

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/tx"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// RecordTransactionUseCase 手工台账用例（进货入库、盘点调整）
// 设计说明：
// 1. 与发票无关的库存变动同样走台账：计数器永远不单独改
// 2. 持锁后写台账+改计数器，与预留/释放共用同一套串行化机制
// 3. 盘点调减不允许把库存调成负数（计数器恒>=0）
type RecordTransactionUseCase struct {
	productRepo   product.Repository
	inventoryRepo inventory.Repository
	txManager     tx.Manager
}

// NewRecordTransactionUseCase 创建手工台账用例
func NewRecordTransactionUseCase(
	productRepo product.Repository,
	inventoryRepo inventory.Repository,
	txManager tx.Manager,
) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
	}
}

// RecordRequest 手工台账请求
type RecordRequest struct {
	ProductID    uint
	Kind         inventory.Kind // 仅restock/adjust
	Delta        float64
	Note         string
	OperatorID   uint
	OperatorRole user.Role
}

// Execute 执行手工台账
// 角色限制：admin、warehouse（财务不碰库存）
func (uc *RecordTransactionUseCase) Execute(ctx context.Context, req RecordRequest) (*inventory.Transaction, error) {
	if req.OperatorRole != user.RoleAdmin && req.OperatorRole != user.RoleWarehouse {
		return nil, apperrors.ErrForbidden
	}

	// 手工入口只接受进货和盘点，reserve/release/ship_mark
	// 只能由发票转移产生
	if req.Kind != inventory.KindRestock && req.Kind != inventory.KindAdjust {
		return nil, inventory.ErrInvalidKind
	}

	entry := inventory.NewTransaction(req.ProductID, 0, req.Kind, req.Delta, req.Note, req.OperatorID)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.productRepo.LockByID(txCtx, req.ProductID); err != nil {
			return err
		}
		if err := uc.inventoryRepo.Append(txCtx, entry); err != nil {
			return err
		}
		// 调减超过当前库存时UpdateQuantity返回库存不足，整体回滚
		return uc.productRepo.UpdateQuantity(txCtx, req.ProductID, req.Delta)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}
