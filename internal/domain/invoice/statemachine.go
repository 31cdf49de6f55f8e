package invoice

import (
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// Action 发票转移动作
type Action string

const (
	ActionReserve Action = "reserve" // 仓库预留库存
	ActionApprove Action = "approve" // 财务审核
	ActionShip    Action = "ship"    // 发货
	ActionDeliver Action = "deliver" // 确认送达
	ActionCancel  Action = "cancel"  // 取消
)

// transition 转移表条目：(动作, 允许角色, 起始状态, 目标状态)
// 设计说明：
// 1. 状态机用显式转移表表达，每次转移决策是一次表查找，
//    而不是散落在各处的if/else——新增状态时只改这张表
// 2. 角色放进转移表，权限判断成为(role, action, status)上的
//    纯函数，可脱离HTTP层独立测试
type transition struct {
	action Action
	roles  []user.Role
	from   []Status
	to     Status
}

// transitions 全部合法转移
// cancel的起始状态集合是显式策略：已发货（shipped）之后货物
// 已离库，不允许取消，只能走退货流程（本系统不含）
var transitions = []transition{
	{
		action: ActionReserve,
		roles:  []user.Role{user.RoleWarehouse, user.RoleAdmin},
		from:   []Status{StatusWarehousePending},
		to:     StatusAccountantPending,
	},
	{
		action: ActionApprove,
		roles:  []user.Role{user.RoleAccountant, user.RoleAdmin},
		from:   []Status{StatusAccountantPending},
		to:     StatusApproved,
	},
	{
		action: ActionShip,
		roles:  []user.Role{user.RoleWarehouse, user.RoleAdmin},
		from:   []Status{StatusApproved},
		to:     StatusShipped,
	},
	{
		action: ActionDeliver,
		roles:  []user.Role{user.RoleWarehouse, user.RoleAdmin},
		from:   []Status{StatusShipped},
		to:     StatusDelivered,
	},
	{
		action: ActionCancel,
		roles:  []user.Role{user.RoleAdmin, user.RoleAccountant},
		from:   []Status{StatusWarehousePending, StatusAccountantPending, StatusApproved},
		to:     StatusCancelled,
	},
}

// lookup 在转移表中查找动作条目
func lookup(action Action) (transition, bool) {
	for _, t := range transitions {
		if t.action == action {
			return t, true
		}
	}
	return transition{}, false
}

// Allowed 权限门：纯函数，判定(角色, 动作, 当前状态)是否放行
// 返回值区分两类拒绝：
// - ErrForbidden：角色不在该动作的允许列表中
// - ErrInvalidTransition：动作不存在，或当前状态不是该动作的合法起点
// 任何拒绝都发生在副作用之前，不产生任何状态/台账变更
func Allowed(role user.Role, action Action, current Status) error {
	t, ok := lookup(action)
	if !ok {
		return ErrInvalidTransition
	}
	roleOK := false
	for _, r := range t.roles {
		if r == role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		return ErrForbidden
	}
	for _, s := range t.from {
		if s == current {
			return nil
		}
	}
	return ErrInvalidTransition
}

// NextStatus 查询动作的目标状态
// 调用前应先通过Allowed校验；动作不存在时返回false
func NextStatus(action Action) (Status, bool) {
	t, ok := lookup(action)
	if !ok {
		return 0, false
	}
	return t.to, true
}

// VisibleStatuses 角色可见的发票状态集合（查询层过滤策略）
// 返回nil表示不限制
// 设计说明：过滤必须下推到查询条件中执行，而不是取回后
// 再过滤——否则分页总数会泄露被过滤记录的存在
func VisibleStatuses(role user.Role) []Status {
	switch role {
	case user.RoleWarehouse:
		// 仓库只关心需要其操作的环节
		return []Status{StatusWarehousePending, StatusApproved, StatusShipped}
	default:
		// 财务与管理员不受限
		return nil
	}
}
