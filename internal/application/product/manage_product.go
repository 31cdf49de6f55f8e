package product

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// ManageProductUseCase 产品管理用例（创建/更新/查询）
// 设计说明：
// 1. 创建时的初始库存是基线，之后的变动全部走台账
// 2. 更新不触碰库存量，库存只能通过台账入口修改
type ManageProductUseCase struct {
	productRepo product.Repository
}

// NewManageProductUseCase 创建产品管理用例
func NewManageProductUseCase(productRepo product.Repository) *ManageProductUseCase {
	return &ManageProductUseCase{productRepo: productRepo}
}

// CreateRequest 创建产品请求
type CreateRequest struct {
	Code            string
	Name            string
	Category        string
	Unit            string
	PiecesPerRoll   int
	InitialQuantity float64
	Colors          []string
	Series          []string
	PartNumber      string
	ReorderLocation string
	PurchasePrice   int64
	SalePrice       int64
	ImageURL        string
	Description     string
	YearProduction  int
	OperatorRole    user.Role
}

// Create 创建产品
// 角色限制：admin、warehouse
func (uc *ManageProductUseCase) Create(ctx context.Context, req CreateRequest) (*product.Product, error) {
	if req.OperatorRole != user.RoleAdmin && req.OperatorRole != user.RoleWarehouse {
		return nil, apperrors.ErrForbidden
	}

	p := product.NewProduct(req.Code, req.Name, req.Category, req.Unit,
		req.PurchasePrice, req.SalePrice, req.InitialQuantity)
	p.PiecesPerRoll = req.PiecesPerRoll
	p.Colors = req.Colors
	p.Series = req.Series
	p.PartNumber = req.PartNumber
	p.ReorderLocation = req.ReorderLocation
	p.ImageURL = req.ImageURL
	p.Description = req.Description
	p.YearProduction = req.YearProduction

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdateRequest 更新产品请求（不含库存量）
type UpdateRequest struct {
	ID              uint
	Name            string
	Category        string
	Unit            string
	PiecesPerRoll   int
	Colors          []string
	Series          []string
	PartNumber      string
	ReorderLocation string
	PurchasePrice   int64
	SalePrice       int64
	ImageURL        string
	Description     string
	YearProduction  int
	OperatorRole    user.Role
}

// Update 更新产品信息
func (uc *ManageProductUseCase) Update(ctx context.Context, req UpdateRequest) (*product.Product, error) {
	if req.OperatorRole != user.RoleAdmin && req.OperatorRole != user.RoleWarehouse {
		return nil, apperrors.ErrForbidden
	}

	p, err := uc.productRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Category = req.Category
	p.Unit = req.Unit
	p.PiecesPerRoll = req.PiecesPerRoll
	p.Colors = req.Colors
	p.Series = req.Series
	p.PartNumber = req.PartNumber
	p.ReorderLocation = req.ReorderLocation
	p.PurchasePrice = req.PurchasePrice
	p.SalePrice = req.SalePrice
	p.ImageURL = req.ImageURL
	p.Description = req.Description
	p.YearProduction = req.YearProduction

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Get 查询单个产品
func (uc *ManageProductUseCase) Get(ctx context.Context, id uint) (*product.Product, error) {
	return uc.productRepo.FindByID(ctx, id)
}

// List 分页查询产品列表
func (uc *ManageProductUseCase) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return uc.productRepo.List(ctx, params)
}
