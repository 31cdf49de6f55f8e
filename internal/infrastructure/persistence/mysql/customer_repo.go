package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// customerRepository 客户仓储实现(MySQL)
// 设计说明:
// 1. Customer和BankAccount是聚合关系,创建时一起保存
// 2. 查询时使用Preload预加载收款账户,避免N+1问题
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

// Create 创建客户(含收款账户)
func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := toCustomerModel(c)

	// GORM通过foreignKey自动保存关联的BankAccounts
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建客户失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	for i := range c.BankAccounts {
		c.BankAccounts[i].ID = model.BankAccounts[i].ID
		c.BankAccounts[i].CustomerID = model.ID
	}

	return nil
}

// FindByID 根据ID查找客户(含收款账户)
func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).Preload("BankAccounts").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}

	return toCustomerEntity(&model), nil
}

// Update 更新客户信息(不含收款账户)
func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	result := r.db.WithContext(ctx).Model(&CustomerModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"phone":      c.Phone,
			"address":    c.Address,
			"city":       c.City,
			"province":   c.Province,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新客户失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}

	return nil
}

// List 分页查询客户列表
func (r *customerRepository) List(ctx context.Context, params customer.ListParams) ([]*customer.Customer, int64, error) {
	var models []CustomerModel
	var total int64

	query := r.db.WithContext(ctx).Model(&CustomerModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?", keyword, keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询客户总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("BankAccounts").
		Order("created_at DESC").
		Limit(params.PageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询客户列表失败")
	}

	customers := make([]*customer.Customer, len(models))
	for i := range models {
		customers[i] = toCustomerEntity(&models[i])
	}

	return customers, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toCustomerModel(c *customer.Customer) *CustomerModel {
	accounts := make([]BankAccountModel, len(c.BankAccounts))
	for i, a := range c.BankAccounts {
		accounts[i] = BankAccountModel{
			BankName:      a.BankName,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
		}
	}
	return &CustomerModel{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Address:      c.Address,
		City:         c.City,
		Province:     c.Province,
		BankAccounts: accounts,
	}
}

func toCustomerEntity(model *CustomerModel) *customer.Customer {
	accounts := make([]customer.BankAccount, len(model.BankAccounts))
	for i, a := range model.BankAccounts {
		accounts[i] = customer.BankAccount{
			ID:            a.ID,
			CustomerID:    a.CustomerID,
			BankName:      a.BankName,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
		}
	}
	return &customer.Customer{
		ID:           model.ID,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Phone:        model.Phone,
		Address:      model.Address,
		City:         model.City,
		Province:     model.Province,
		BankAccounts: accounts,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
