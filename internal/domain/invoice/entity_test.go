package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleItems() []LineItem {
	return []LineItem{
		{ProductID: 1, Quantity: 12.5, Unit: "米", UnitPrice: 3500},
		{ProductID: 2, Quantity: 3, Unit: "米", UnitPrice: 8000},
	}
}

// TestNewInvoice 创建发票：初始状态与总额计算
func TestNewInvoice(t *testing.T) {
	inv := NewInvoice("INV-20260824-0001", 7, PaymentCash, PaymentBreakdown{}, sampleItems(), 1)

	assert.Equal(t, StatusWarehousePending, inv.Status, "新发票应为待仓库预留状态")
	// 12.5*3500 + 3*8000 = 43750 + 24000
	assert.Equal(t, int64(67750), inv.TotalAmount)
	assert.NoError(t, inv.Validate())
}

// TestInvoiceValidate 创建校验规则
func TestInvoiceValidate(t *testing.T) {
	t.Run("缺少客户", func(t *testing.T) {
		inv := NewInvoice("INV-1", 0, PaymentCash, PaymentBreakdown{}, sampleItems(), 1)
		assert.ErrorIs(t, inv.Validate(), ErrMissingCustomer)
	})

	t.Run("无明细", func(t *testing.T) {
		inv := NewInvoice("INV-2", 7, PaymentCash, PaymentBreakdown{}, nil, 1)
		assert.ErrorIs(t, inv.Validate(), ErrEmptyItems)
	})

	t.Run("明细数量为0", func(t *testing.T) {
		items := []LineItem{{ProductID: 1, Quantity: 0, UnitPrice: 3500}}
		inv := NewInvoice("INV-3", 7, PaymentCash, PaymentBreakdown{}, items, 1)
		assert.ErrorIs(t, inv.Validate(), ErrInvalidItem)
	})

	t.Run("无效结算方式", func(t *testing.T) {
		inv := NewInvoice("INV-4", 7, PaymentType("bitcoin"), PaymentBreakdown{}, sampleItems(), 1)
		assert.ErrorIs(t, inv.Validate(), ErrInvalidPaymentType)
	})
}

// TestPaymentBreakdown 混合结算拆分校验
func TestPaymentBreakdown(t *testing.T) {
	t.Run("拆分金额等于总额", func(t *testing.T) {
		bd := PaymentBreakdown{CashAmount: 7750, ChequeAmount: 30000, TransferAmount: 30000}
		inv := NewInvoice("INV-5", 7, PaymentMixed, bd, sampleItems(), 1)
		assert.NoError(t, inv.Validate())
	})

	t.Run("拆分金额与总额不符", func(t *testing.T) {
		bd := PaymentBreakdown{CashAmount: 100, ChequeAmount: 200}
		inv := NewInvoice("INV-6", 7, PaymentMixed, bd, sampleItems(), 1)
		assert.ErrorIs(t, inv.Validate(), ErrBreakdownMismatch)
	})

	t.Run("现金结算不允许拆分", func(t *testing.T) {
		bd := PaymentBreakdown{ChequeAmount: 500}
		inv := NewInvoice("INV-7", 7, PaymentCash, bd, sampleItems(), 1)
		assert.ErrorIs(t, inv.Validate(), ErrUnexpectedBreakdown)
	})
}

// TestTrackingInfoValidate 发货物流信息校验
func TestTrackingInfoValidate(t *testing.T) {
	now := time.Now()

	t.Run("完整信息", func(t *testing.T) {
		tr := &TrackingInfo{Carrier: "顺丰", TrackingCode: "SF123456", ShippedAt: &now, PackageCount: 3}
		assert.NoError(t, tr.Validate())
	})

	t.Run("缺承运方", func(t *testing.T) {
		tr := &TrackingInfo{TrackingCode: "SF123456", ShippedAt: &now, PackageCount: 3}
		assert.ErrorIs(t, tr.Validate(), ErrMissingCarrier)
	})

	t.Run("缺运单号", func(t *testing.T) {
		tr := &TrackingInfo{Carrier: "顺丰", ShippedAt: &now, PackageCount: 3}
		assert.ErrorIs(t, tr.Validate(), ErrMissingTrackingCode)
	})

	t.Run("缺发货日期", func(t *testing.T) {
		tr := &TrackingInfo{Carrier: "顺丰", TrackingCode: "SF123456", PackageCount: 3}
		assert.ErrorIs(t, tr.Validate(), ErrMissingShipDate)
	})

	t.Run("件数为0", func(t *testing.T) {
		tr := &TrackingInfo{Carrier: "顺丰", TrackingCode: "SF123456", ShippedAt: &now}
		assert.ErrorIs(t, tr.Validate(), ErrInvalidPackageCount)
	})
}

// TestLineItemSubtotal 明细小计（小数数量四舍五入到最小货币单位）
func TestLineItemSubtotal(t *testing.T) {
	li := &LineItem{Quantity: 2.5, UnitPrice: 3333}
	assert.Equal(t, int64(8333), li.Subtotal(), "2.5*3333=8332.5应四舍五入为8333")
}

// TestStatusString 状态可读名称
func TestStatusString(t *testing.T) {
	assert.Equal(t, "warehouse_pending", StatusWarehousePending.String())
	assert.Equal(t, "accountant_pending", StatusAccountantPending.String())
	assert.Equal(t, "approved", StatusApproved.String())
	assert.Equal(t, "shipped", StatusShipped.String())
	assert.Equal(t, "delivered", StatusDelivered.String())
	assert.Equal(t, "cancelled", StatusCancelled.String())
	assert.Equal(t, "unknown", Status(99).String())
}
