package user

import (
	"context"
	"strconv"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/user"
	"github.com/xiebiao/fabricshop/internal/infrastructure/persistence/redis"
)

// ProfileUseCase 当前用户资料用例
// 资料从数据库读取（角色可能被管理员改过，比Claims新），
// 登录时间来自Redis会话
type ProfileUseCase struct {
	userRepo     user.Repository
	sessionStore *redis.SessionStore
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository, sessionStore *redis.SessionStore) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:     userRepo,
		sessionStore: sessionStore,
	}
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	User    UserInfo `json:"user"`
	LoginAt string   `json:"login_at,omitempty"`
}

// Execute 查询当前登录用户
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User: UserInfo{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Role:  string(u.Role),
		},
	}

	// 会话已由认证中间件确认存在，login_at字段缺失时忽略
	if session, err := uc.sessionStore.GetSession(ctx, userID); err == nil {
		if ts, err := strconv.ParseInt(session["login_at"], 10, 64); err == nil {
			resp.LoginAt = time.Unix(ts, 0).Format("2006-01-02 15:04:05")
		}
	}

	return resp, nil
}
