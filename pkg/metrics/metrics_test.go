package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化与重复调用保护
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	// promauto重复注册同名指标会panic，initialized标记必须拦住第二次调用
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if InvoiceTransitionsTotal == nil {
		t.Error("InvoiceTransitionsTotal未初始化")
	}
	if StockReservationsTotal == nil {
		t.Error("StockReservationsTotal未初始化")
	}
	if CircuitBreakerState == nil {
		t.Error("CircuitBreakerState未初始化")
	}
	if MessagesPublishedTotal == nil {
		t.Error("MessagesPublishedTotal未初始化")
	}
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	initial := getCounterValue(t, InvoicesCreatedTotal)

	IncCounter(InvoicesCreatedTotal)
	IncCounter(InvoicesCreatedTotal)
	IncCounter(InvoicesCreatedTotal)

	value := getCounterValue(t, InvoicesCreatedTotal)
	if value != initial+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", initial+3, value)
	}
}

// TestAddCounter 测试按值递增（释放的库存按数量累计）
func TestAddCounter(t *testing.T) {
	InitMetrics()

	initial := getCounterValue(t, StockReleasedTotal)

	AddCounter(StockReleasedTotal, 2.5)
	AddCounter(StockReleasedTotal, 1.5)

	value := getCounterValue(t, StockReleasedTotal)
	if value != initial+4 {
		t.Errorf("Counter值错误: expected=%f, got=%f", initial+4, value)
	}
}

// TestCounterVec 测试带标签的Counter
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(InvoiceTransitionsTotal, map[string]string{
		"action": "reserve",
		"result": "success",
	})
	IncCounterVec(InvoiceTransitionsTotal, map[string]string{
		"action": "reserve",
		"result": "success",
	})
	IncCounterVec(InvoiceTransitionsTotal, map[string]string{
		"action": "cancel",
		"result": "failure",
	})

	value := getCounterVecValue(t, InvoiceTransitionsTotal, map[string]string{
		"action": "reserve",
		"result": "success",
	})
	if value != 2 {
		t.Errorf("CounterVec值错误: expected=2, got=%f", value)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	initial := getGaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	value := getGaugeValue(t, HTTPRequestsInProgress)
	if value != initial+1 {
		t.Errorf("Gauge值错误: expected=%f, got=%f", initial+1, value)
	}
}

// TestGaugeVec 测试带标签的Gauge（熔断器状态）
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "invoice-events"}, 0) // CLOSED
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "invoice-events"}, 1) // OPEN

	value := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "invoice-events"})
	if value != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", value)
	}
}

// TestHistogramVec 测试带标签的Histogram（状态流转耗时）
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"action": "approve"}
	ObserveHistogramVec(InvoiceTransitionDuration, labels, 0.125)
	ObserveHistogramVec(InvoiceTransitionDuration, labels, 0.25)
	ObserveHistogramVec(InvoiceTransitionDuration, labels, 0.5)

	count := getHistogramVecCount(t, InvoiceTransitionDuration, labels)
	if count != 3 {
		t.Errorf("HistogramVec观测次数错误: expected=3, got=%d", count)
	}

	// 观测值取二进制可精确表示的小数，总和可以严格比较
	sum := getHistogramVecSum(t, InvoiceTransitionDuration, labels)
	if sum != 0.875 {
		t.Errorf("HistogramVec总和错误: expected=0.875, got=%f", sum)
	}
}

// TestNilSafe 指标未初始化时辅助函数静默跳过
// 应用层单元测试不调用InitMetrics，用例代码里的指标调用不能panic
func TestNilSafe(t *testing.T) {
	IncCounter(nil)
	AddCounter(nil, 1)
	IncCounterVec(nil, map[string]string{"action": "reserve"})
	SetGaugeVec(nil, map[string]string{"name": "x"}, 1)
	IncGauge(nil)
	DecGauge(nil)
	ObserveHistogramVec(nil, map[string]string{"action": "ship"}, 0.1)
}

// =========================================
// 辅助函数：读取指标当前值
// =========================================

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

func getHistogramVecSum(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) float64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleSum()
}
