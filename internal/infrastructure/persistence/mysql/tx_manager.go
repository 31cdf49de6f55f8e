package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/fabricshop/internal/domain/tx"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/tracing"
)

// TxManager 事务管理器（tx.Manager的MySQL实现）
// 设计说明：
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB（避免全局变量）
// 3. 发票状态写入与台账写入共享同一事务：
//    任何一步失败，整个转移回滚，不留部分状态
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) tx.Manager {
	return &TxManager{db: db}
}

// maxDeadlockRetries InnoDB死锁的透明重试次数上限
// 多张发票以不同顺序触达同一批产品行时可能死锁(1213)，
// InnoDB会回滚其中一个事务，重试通常就能成功
const maxDeadlockRetries = 3

// Transaction 执行事务
// fn返回error时自动ROLLBACK，返回nil时自动COMMIT
// fn内的所有Repository操作通过getDB(ctx)取到同一个事务DB
// 死锁自动重试有限次，超限后以Conflict上抛，调用方刷新后重试
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 事务单独一个Span，锁等待和提交耗时在Trace里与请求其余部分分开
	ctx, span := tracing.StartSpan(ctx, "fabricshop-mysql", "Transaction")
	defer span.End()

	var err error
	for attempt := 0; attempt <= maxDeadlockRetries; attempt++ {
		err = m.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
			txCtx := context.WithValue(ctx, "tx", txDB)
			return fn(txCtx)
		})
		if !isDeadlockError(err) {
			return err
		}
	}
	return apperrors.WrapCode(err, apperrors.ErrCodeConflict, "操作冲突，请刷新后重试")
}

// getDB 从context获取事务DB，如果没有则使用默认DB
// 各Repository共享的事务传递机制
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if txDB, ok := ctx.Value("tx").(*gorm.DB); ok {
		return txDB
	}
	return fallback.WithContext(ctx)
}
