package product

import (
	"context"
)

// ListParams 产品列表查询参数
type ListParams struct {
	Keyword  string // 按编码/品名模糊搜索
	Category string // 按类别过滤
	Page     int
	PageSize int
}

// Repository 产品仓储接口
// 设计说明：
// 1. 接口定义在domain层，实现在infrastructure层（依赖倒置）
// 2. LockByID用于预留/释放库存前的悲观锁（SELECT FOR UPDATE）
// 3. UpdateQuantity以增量方式修改派生计数器，必须在事务内
//    与台账追加一起调用
type Repository interface {
	// Create 创建产品
	// 如果编码重复，返回ErrCodeDuplicate
	Create(ctx context.Context, p *Product) error

	// FindByID 根据ID查找产品
	// 如果不存在，返回ErrProductNotFound
	FindByID(ctx context.Context, id uint) (*Product, error)

	// LockByID 根据ID查找产品并加悲观锁（SELECT FOR UPDATE）
	// 必须在事务中调用，事务提交前其他协程无法读取该行（加锁读）
	LockByID(ctx context.Context, id uint) (*Product, error)

	// UpdateQuantity 按增量修改可用库存（delta为负表示扣减）
	// 实现必须保证更新后QuantityAvailable>=0，否则返回错误
	UpdateQuantity(ctx context.Context, id uint, delta float64) error

	// Update 更新产品信息（不含库存量，库存只能走UpdateQuantity）
	Update(ctx context.Context, p *Product) error

	// List 分页查询产品列表
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)
}
