package inventory

import (
	"fmt"
	"strings"

	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// 台账领域错误定义
var (
	// ErrInvalidTransaction 台账记录不完整
	ErrInvalidTransaction = apperrors.New(apperrors.ErrCodeValidation, "台账记录必须关联产品")

	// ErrInvalidKind 变动类型不合法
	ErrInvalidKind = apperrors.New(apperrors.ErrCodeValidation, "无效的库存变动类型")

	// ErrInvalidDelta 变动量与变动类型不匹配
	ErrInvalidDelta = apperrors.New(apperrors.ErrCodeValidation, "变动量与变动类型不匹配")
)

// Shortage 单个产品的库存缺口
type Shortage struct {
	ProductID uint    `json:"product_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Requested float64 `json:"requested"` // 需求量
	Available float64 `json:"available"` // 当前可用量
}

// InsufficientStockError 库存不足错误（携带全部缺口明细）
// 设计说明：
// 1. 预留是全有或全无的：任何一行不足则整单失败，
//    错误里列出所有不足的产品，让客户端一次看清全部缺口
// 2. 通过apperrors.WrapCode包装后返回，HTTP层用errors.As提取明细
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s 需%.2f 可用%.2f", s.Name, s.Requested, s.Available))
	}
	return "库存不足: " + strings.Join(parts, "; ")
}
