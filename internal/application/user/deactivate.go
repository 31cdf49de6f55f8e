package user

import (
	"context"

	"github.com/xiebiao/fabricshop/internal/domain/user"
	"github.com/xiebiao/fabricshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// DeactivateUserUseCase 停用用户用例（仅admin）
// 设计说明：
// 1. 软删除：发票创建人、台账操作人都引用用户，物理删除会破坏审计链
// 2. 停用即踢出：删除会话后该用户所有未过期Token立即失效
// 3. 不能停用自己，防止把最后一个管理员锁在门外
type DeactivateUserUseCase struct {
	userRepo     user.Repository
	sessionStore *redis.SessionStore
}

// NewDeactivateUserUseCase 创建停用用例
func NewDeactivateUserUseCase(userRepo user.Repository, sessionStore *redis.SessionStore) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{
		userRepo:     userRepo,
		sessionStore: sessionStore,
	}
}

// Execute 停用指定用户
func (uc *DeactivateUserUseCase) Execute(ctx context.Context, targetID, operatorID uint) error {
	if targetID == operatorID {
		return apperrors.New(apperrors.ErrCodeValidation, "不能停用自己的账号")
	}

	u, err := uc.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	// 重复停用幂等：跳过写库，但仍然清理会话
	if u.IsActive {
		u.Deactivate()
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
	}

	return uc.sessionStore.DeleteSession(ctx, targetID)
}
