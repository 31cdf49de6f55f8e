package user

import (
	"time"
)

// Role 用户角色
// 设计说明：
// 1. 角色决定发票状态机中哪些动作可由该用户触发（见domain/invoice授权门）
// 2. 使用string类型，与JWT Claims、数据库存储保持同一取值
type Role string

const (
	RoleAdmin      Role = "admin"      // 管理员：不受限
	RoleAccountant Role = "accountant" // 财务：开票、审核、取消
	RoleWarehouse  Role = "warehouse"  // 仓库：预留、发货、送达
)

// Valid 校验角色取值
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleWarehouse:
		return true
	}
	return false
}

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不暴露明文
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository实现时处理映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name string, role Role) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Deactivate 停用用户（领域行为）
// 停用后登录被拒绝，已签发Token随会话删除一起失效
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}
