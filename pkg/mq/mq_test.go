package mq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInvoiceEvent_RoutingKey 路由键形如invoice.<action>，下游按invoice.*订阅
func TestInvoiceEvent_RoutingKey(t *testing.T) {
	for _, action := range []string{"created", "reserved", "approved", "shipped", "delivered", "cancelled"} {
		e := InvoiceEvent{Action: action}
		assert.Equal(t, "invoice."+action, e.RoutingKey())
	}
}

// TestInvoiceEvent_JSON 载荷字段为snake_case，下游系统按此解析
func TestInvoiceEvent_JSON(t *testing.T) {
	e := InvoiceEvent{
		InvoiceID:  7,
		InvoiceNo:  "INV20260824000123",
		Action:     "reserved",
		Status:     2,
		OperatorID: 3,
		OccurredAt: time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
	}

	body, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "INV20260824000123", got["invoice_no"])
	assert.Equal(t, "reserved", got["action"])
	assert.EqualValues(t, 2, got["status"])
	assert.Contains(t, got, "occurred_at")
}
