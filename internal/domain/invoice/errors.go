package invoice

import (
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
)

// 发票领域错误定义
var (
	// ErrInvoiceNotFound 发票不存在
	ErrInvoiceNotFound = apperrors.New(apperrors.ErrCodeInvoiceNotFound, "发票不存在")

	// ErrInvalidTransition 当前状态不允许此操作
	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "发票状态不允许此操作")

	// ErrConflict 并发转移冲突（另一请求已抢先改变状态）
	ErrConflict = apperrors.New(apperrors.ErrCodeConflict, "发票状态已被其他操作修改，请刷新后重试")

	// ErrForbidden 角色无权执行该操作
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "当前角色无权执行此操作")

	// 创建校验错误
	ErrMissingCustomer     = apperrors.New(apperrors.ErrCodeValidation, "发票必须关联客户")
	ErrInvalidPaymentType  = apperrors.New(apperrors.ErrCodeValidation, "无效的结算方式")
	ErrEmptyItems          = apperrors.New(apperrors.ErrCodeValidation, "发票必须包含至少一条明细")
	ErrInvalidItem         = apperrors.New(apperrors.ErrCodeValidation, "明细行的产品、数量、单价必须有效")
	ErrBreakdownMismatch   = apperrors.New(apperrors.ErrCodeValidation, "混合结算的拆分金额必须等于发票总额")
	ErrUnexpectedBreakdown = apperrors.New(apperrors.ErrCodeValidation, "非混合结算不允许携带拆分金额")

	// 发货物流信息校验错误
	ErrMissingCarrier      = apperrors.New(apperrors.ErrCodeValidation, "缺少承运方")
	ErrMissingTrackingCode = apperrors.New(apperrors.ErrCodeValidation, "缺少运单号")
	ErrMissingShipDate     = apperrors.New(apperrors.ErrCodeValidation, "缺少发货日期")
	ErrInvalidPackageCount = apperrors.New(apperrors.ErrCodeValidation, "件数必须大于0")
)
