package product

import (
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// 产品领域错误定义
var (
	// ErrProductNotFound 产品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "产品不存在")

	// ErrCodeDuplicate 产品编码已存在
	ErrCodeDuplicate = apperrors.New(apperrors.ErrCodeCodeDuplicate, "产品编码已存在")

	// ErrInvalidDefinition 产品定义不完整
	ErrInvalidDefinition = apperrors.New(apperrors.ErrCodeValidation, "产品编码、品名、单位不能为空")

	// ErrInvalidPrice 价格不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeValidation, "价格必须大于0")

	// ErrInvalidQuantity 库存数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeValidation, "库存数量不能为负数")

	// ErrColorsSeriesMismatch 色卡与色号数量不一致
	ErrColorsSeriesMismatch = apperrors.New(apperrors.ErrCodeValidation, "颜色与色号系列数量不一致")

	// ErrInsufficientStock 库存不足（单品视角；批量缺口见inventory.InsufficientStockError）
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)
