package customer

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// ManageCustomerUseCase 客户管理用例
// 客户资料由开票角色维护（admin、accountant）
type ManageCustomerUseCase struct {
	customerRepo customer.Repository
}

// NewManageCustomerUseCase 创建客户管理用例
func NewManageCustomerUseCase(customerRepo customer.Repository) *ManageCustomerUseCase {
	return &ManageCustomerUseCase{customerRepo: customerRepo}
}

// CreateRequest 创建客户请求
type CreateRequest struct {
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	City         string
	Province     string
	BankAccounts []BankAccountInput
	OperatorRole user.Role
}

// BankAccountInput 收款账户输入
type BankAccountInput struct {
	BankName      string
	AccountNumber string
	IBAN          string
}

// Create 创建客户（含收款账户）
func (uc *ManageCustomerUseCase) Create(ctx context.Context, req CreateRequest) (*customer.Customer, error) {
	if req.OperatorRole != user.RoleAdmin && req.OperatorRole != user.RoleAccountant {
		return nil, apperrors.ErrForbidden
	}

	if req.FirstName == "" || req.LastName == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "客户姓名不能为空")
	}

	accounts := make([]customer.BankAccount, len(req.BankAccounts))
	for i, a := range req.BankAccounts {
		accounts[i] = customer.BankAccount{
			BankName:      a.BankName,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
		}
	}

	c := customer.NewCustomer(req.FirstName, req.LastName, req.Phone,
		req.Address, req.City, req.Province, accounts)

	if err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateRequest 更新客户请求（不含收款账户）
type UpdateRequest struct {
	ID           uint
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	City         string
	Province     string
	OperatorRole user.Role
}

// Update 更新客户资料
// 收款账户不在此入口修改，已开发票引用的客户信息保持可更正
func (uc *ManageCustomerUseCase) Update(ctx context.Context, req UpdateRequest) (*customer.Customer, error) {
	if req.OperatorRole != user.RoleAdmin && req.OperatorRole != user.RoleAccountant {
		return nil, apperrors.ErrForbidden
	}

	if req.FirstName == "" || req.LastName == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "客户姓名不能为空")
	}

	c, err := uc.customerRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Phone = req.Phone
	c.Address = req.Address
	c.City = req.City
	c.Province = req.Province

	if err := uc.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Get 查询单个客户（含收款账户）
func (uc *ManageCustomerUseCase) Get(ctx context.Context, id uint) (*customer.Customer, error) {
	return uc.customerRepo.FindByID(ctx, id)
}

// List 分页查询客户列表
func (uc *ManageCustomerUseCase) List(ctx context.Context, params customer.ListParams) ([]*customer.Customer, int64, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return uc.customerRepo.List(ctx, params)
}
