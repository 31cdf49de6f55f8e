package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// TestAllowed_HappyPath 测试完整生命周期每步转移的放行
func TestAllowed_HappyPath(t *testing.T) {
	cases := []struct {
		name   string
		role   user.Role
		action Action
		from   Status
		to     Status
	}{
		{"仓库预留", user.RoleWarehouse, ActionReserve, StatusWarehousePending, StatusAccountantPending},
		{"财务审核", user.RoleAccountant, ActionApprove, StatusAccountantPending, StatusApproved},
		{"仓库发货", user.RoleWarehouse, ActionShip, StatusApproved, StatusShipped},
		{"仓库确认送达", user.RoleWarehouse, ActionDeliver, StatusShipped, StatusDelivered},
		{"财务取消", user.RoleAccountant, ActionCancel, StatusApproved, StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, Allowed(tc.role, tc.action, tc.from))

			next, ok := NextStatus(tc.action)
			assert.True(t, ok)
			assert.Equal(t, tc.to, next)
		})
	}
}

// TestAllowed_AdminEverywhere 管理员可以执行所有动作
func TestAllowed_AdminEverywhere(t *testing.T) {
	cases := []struct {
		action Action
		from   Status
	}{
		{ActionReserve, StatusWarehousePending},
		{ActionApprove, StatusAccountantPending},
		{ActionShip, StatusApproved},
		{ActionDeliver, StatusShipped},
		{ActionCancel, StatusWarehousePending},
	}
	for _, tc := range cases {
		assert.NoError(t, Allowed(user.RoleAdmin, tc.action, tc.from), "admin执行%s应放行", tc.action)
	}
}

// TestAllowed_RoleDenied 角色不匹配返回Forbidden
func TestAllowed_RoleDenied(t *testing.T) {
	cases := []struct {
		name   string
		role   user.Role
		action Action
		status Status
	}{
		{"仓库不能审核", user.RoleWarehouse, ActionApprove, StatusAccountantPending},
		{"财务不能预留", user.RoleAccountant, ActionReserve, StatusWarehousePending},
		{"财务不能发货", user.RoleAccountant, ActionShip, StatusApproved},
		{"仓库不能取消", user.RoleWarehouse, ActionCancel, StatusWarehousePending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Allowed(tc.role, tc.action, tc.status), ErrForbidden)
		})
	}
}

// TestAllowed_TransitionClosure 任何动作对非法起始状态都拒绝
// 穷举所有(动作, 状态)组合，合法起点之外一律InvalidTransition
func TestAllowed_TransitionClosure(t *testing.T) {
	legal := map[Action]map[Status]bool{
		ActionReserve: {StatusWarehousePending: true},
		ActionApprove: {StatusAccountantPending: true},
		ActionShip:    {StatusApproved: true},
		ActionDeliver: {StatusShipped: true},
		ActionCancel: {
			StatusWarehousePending:  true,
			StatusAccountantPending: true,
			StatusApproved:          true,
		},
	}

	allStatuses := []Status{
		StatusWarehousePending, StatusAccountantPending, StatusApproved,
		StatusShipped, StatusDelivered, StatusCancelled,
	}
	allActions := []Action{ActionReserve, ActionApprove, ActionShip, ActionDeliver, ActionCancel}

	for _, a := range allActions {
		for _, s := range allStatuses {
			err := Allowed(user.RoleAdmin, a, s)
			if legal[a][s] {
				assert.NoError(t, err, "%s在%s状态应放行", a, s)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s在%s状态应拒绝", a, s)
			}
		}
	}
}

// TestAllowed_TerminalStates 终态发票不接受任何动作
func TestAllowed_TerminalStates(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusCancelled} {
		for _, a := range []Action{ActionReserve, ActionApprove, ActionShip, ActionDeliver, ActionCancel} {
			assert.ErrorIs(t, Allowed(user.RoleAdmin, a, s), ErrInvalidTransition,
				"终态%s不应允许%s", s, a)
		}
	}
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
}

// TestAllowed_UnknownAction 未知动作返回InvalidTransition
func TestAllowed_UnknownAction(t *testing.T) {
	assert.ErrorIs(t, Allowed(user.RoleAdmin, Action("refund"), StatusApproved), ErrInvalidTransition)

	_, ok := NextStatus(Action("refund"))
	assert.False(t, ok)
}

// TestVisibleStatuses 查询层角色过滤策略
func TestVisibleStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]Status{StatusWarehousePending, StatusApproved, StatusShipped},
		VisibleStatuses(user.RoleWarehouse))

	assert.Nil(t, VisibleStatuses(user.RoleAccountant), "财务不受限")
	assert.Nil(t, VisibleStatuses(user.RoleAdmin), "管理员不受限")
}
