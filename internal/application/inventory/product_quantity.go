package inventory

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/product"
)

// ProductQuantityUseCase 产品库存视图用例（只读）
// 可用量来自产品计数器，预留量来自台账，
// 在库总量 = 可用量 + 预留量（已发货的不再计入）
type ProductQuantityUseCase struct {
	productRepo   product.Repository
	inventoryRepo inventory.Repository
}

// NewProductQuantityUseCase 创建库存视图用例
func NewProductQuantityUseCase(productRepo product.Repository, inventoryRepo inventory.Repository) *ProductQuantityUseCase {
	return &ProductQuantityUseCase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
	}
}

// QuantityView 产品库存视图
type QuantityView struct {
	ProductID uint
	Code      string
	Name      string
	Unit      string
	Available float64 // 可预留的可用量
	Reserved  float64 // 被未发货发票预留的量
	Total     float64 // 在库总量
}

// Execute 查询产品库存视图
func (uc *ProductQuantityUseCase) Execute(ctx context.Context, productID uint) (*QuantityView, error) {
	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reserved, err := uc.inventoryRepo.ReservedForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &QuantityView{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Unit:      p.Unit,
		Available: p.QuantityAvailable,
		Reserved:  reserved,
		Total:     p.QuantityAvailable + reserved,
	}, nil
}
