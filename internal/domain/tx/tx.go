// Package tx 定义事务边界抽象（unit of work）
// 设计说明：接口定义在domain层，application层只依赖抽象，
// 测试时用直通实现替换，无需真实数据库
package tx

import (
	"context"
)

// Manager 事务管理器接口
// fn内通过同一个ctx访问仓储时，所有读写在同一事务中执行：
// 台账写入与发票状态写入要么一起提交，要么一起回滚
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
