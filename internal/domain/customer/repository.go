package customer

import (
	"context"
)

// ListParams 客户列表查询参数
type ListParams struct {
	Keyword  string // 按姓名/电话模糊搜索
	Page     int
	PageSize int
}

// Repository 客户仓储接口
type Repository interface {
	// Create 创建客户（含收款账户，同一事务）
	Create(ctx context.Context, c *Customer) error

	// FindByID 根据ID查找客户（含收款账户）
	// 如果不存在，返回errors.ErrCustomerNotFound
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// Update 更新客户信息
	Update(ctx context.Context, c *Customer) error

	// List 分页查询客户列表
	List(ctx context.Context, params ListParams) ([]*Customer, int64, error)
}
