package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTransactionValidate 各变动类型的符号约束
func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		delta   float64
		wantErr error
	}{
		{"预留必须为负", KindReserve, -12.5, nil},
		{"预留为正非法", KindReserve, 12.5, ErrInvalidDelta},
		{"释放必须为正", KindRelease, 12.5, nil},
		{"释放为负非法", KindRelease, -12.5, ErrInvalidDelta},
		{"发货标记必须为0", KindShipMark, 0, nil},
		{"发货标记非0非法", KindShipMark, -1, ErrInvalidDelta},
		{"进货必须为正", KindRestock, 100, nil},
		{"盘点可以为负", KindAdjust, -0.5, nil},
		{"盘点为0非法", KindAdjust, 0, ErrInvalidDelta},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransaction(1, 2, tc.kind, tc.delta, "", 1)
			err := tr.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	t.Run("缺少产品", func(t *testing.T) {
		tr := NewTransaction(0, 2, KindReserve, -1, "", 1)
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTransaction)
	})

	t.Run("未知类型", func(t *testing.T) {
		tr := NewTransaction(1, 2, Kind("transfer"), 1, "", 1)
		assert.ErrorIs(t, tr.Validate(), ErrInvalidKind)
	})
}

// TestInsufficientStockError 错误信息包含全部缺口
func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{Shortages: []Shortage{
		{ProductID: 1, Code: "FB-001", Name: "纯棉帆布", Requested: 5, Available: 2},
		{ProductID: 2, Code: "FB-002", Name: "灯芯绒", Requested: 3, Available: 0},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "纯棉帆布")
	assert.Contains(t, msg, "灯芯绒", "错误必须列出全部缺口，而不是只有第一个")
}
