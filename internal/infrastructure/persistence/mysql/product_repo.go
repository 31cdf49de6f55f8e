package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/fabricshop/internal/domain/product"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// productRepository 产品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. Colors/Series列表序列化为JSON存储
// 3. LockByID/UpdateQuantity必须通过getDB(ctx)参与事务
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建产品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建产品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrCodeDuplicate
		}
		return apperrors.Wrap(err, "创建产品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找产品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询产品失败")
	}

	return toProductEntity(&model), nil
}

// LockByID 悲观锁查询产品(SELECT FOR UPDATE)
// 预留/释放库存前锁定行,事务提交前其他事务的加锁读会阻塞,
// 使同一产品上的检查-扣减串行化
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定产品失败")
	}

	return toProductEntity(&model), nil
}

// UpdateQuantity 按增量更新可用库存(原子操作)
// UPDATE products SET quantity_available = quantity_available + delta
// WHERE id = ? AND quantity_available + delta >= 0
// WHERE条件兜底防止库存为负(正常路径上调用方已持锁校验过)
func (r *productRepository) UpdateQuantity(ctx context.Context, id uint, delta float64) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("quantity_available + ? >= 0", delta).
		Update("quantity_available", gorm.Expr("quantity_available + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是产品不存在,或者库存不足,再查一次确定原因
		var model ProductModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询产品失败")
		}
		return product.ErrInsufficientStock
	}

	return nil
}

// Update 更新产品信息(不含库存量)
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	colors, series, err := marshalLists(p)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":             p.Name,
			"category":         p.Category,
			"unit":             p.Unit,
			"pieces_per_roll":  p.PiecesPerRoll,
			"colors":           colors,
			"series":           series,
			"part_number":      p.PartNumber,
			"reorder_location": p.ReorderLocation,
			"purchase_price":   p.PurchasePrice,
			"sale_price":       p.SalePrice,
			"image_url":        p.ImageURL,
			"description":      p.Description,
			"year_production":  p.YearProduction,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新产品失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// List 分页查询产品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ProductModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", keyword, keyword)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询产品总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("created_at DESC").
		Limit(params.PageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询产品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}

	return products, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func marshalLists(p *product.Product) (string, string, error) {
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return "", "", apperrors.Wrap(err, "序列化颜色列表失败")
	}
	series, err := json.Marshal(p.Series)
	if err != nil {
		return "", "", apperrors.Wrap(err, "序列化色号列表失败")
	}
	return string(colors), string(series), nil
}

func toProductModel(p *product.Product) *ProductModel {
	colors, _ := json.Marshal(p.Colors)
	series, _ := json.Marshal(p.Series)
	return &ProductModel{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Category:          p.Category,
		Unit:              p.Unit,
		PiecesPerRoll:     p.PiecesPerRoll,
		QuantityAvailable: p.QuantityAvailable,
		Colors:            string(colors),
		Series:            string(series),
		PartNumber:        p.PartNumber,
		ReorderLocation:   p.ReorderLocation,
		PurchasePrice:     p.PurchasePrice,
		SalePrice:         p.SalePrice,
		ImageURL:          p.ImageURL,
		Description:       p.Description,
		YearProduction:    p.YearProduction,
	}
}

func toProductEntity(model *ProductModel) *product.Product {
	var colors, series []string
	if model.Colors != "" {
		_ = json.Unmarshal([]byte(model.Colors), &colors)
	}
	if model.Series != "" {
		_ = json.Unmarshal([]byte(model.Series), &series)
	}
	return &product.Product{
		ID:                model.ID,
		Code:              model.Code,
		Name:              model.Name,
		Category:          model.Category,
		Unit:              model.Unit,
		PiecesPerRoll:     model.PiecesPerRoll,
		QuantityAvailable: model.QuantityAvailable,
		Colors:            colors,
		Series:            series,
		PartNumber:        model.PartNumber,
		ReorderLocation:   model.ReorderLocation,
		PurchasePrice:     model.PurchasePrice,
		SalePrice:         model.SalePrice,
		ImageURL:          model.ImageURL,
		Description:       model.Description,
		YearProduction:    model.YearProduction,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
