package invoice

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/pkg/circuitbreaker"
	"github.com/xiebiao/fabricshop/pkg/metrics"
	"github.com/xiebiao/fabricshop/pkg/mq"
)

// EventPublisher 发票生命周期事件发布器
// 设计说明：
// 1. 事件在事务提交之后发布：业务状态是事实，事件是通知，
//    发布失败只记日志，不回滚已提交的转移
// 2. 经过熔断器保护：RabbitMQ持续不可用时快速失败，
//    不让每个请求都等待连接超时
// 3. publisher为nil时整体降级为空操作（mq.enabled=false的部署）
type EventPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
}

// NewEventPublisher 创建事件发布器（publisher可为nil）
func NewEventPublisher(publisher *mq.Publisher) *EventPublisher {
	breaker := circuitbreaker.New("invoice-events", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Printf("熔断器状态变化: name=%s %s -> %s", name, from, to)
			metrics.SetGaugeVec(metrics.CircuitBreakerState,
				map[string]string{"name": name}, float64(to))
		},
	})

	return &EventPublisher{
		publisher: publisher,
		breaker:   breaker,
	}
}

// PublishTransition 发布一次发票状态流转事件
func (ep *EventPublisher) PublishTransition(ctx context.Context, inv *invoice.Invoice, action string, operatorID uint) {
	if ep == nil || ep.publisher == nil {
		return
	}

	event := mq.InvoiceEvent{
		InvoiceID:  inv.ID,
		InvoiceNo:  inv.InvoiceNo,
		Action:     action,
		Status:     int(inv.Status),
		OperatorID: operatorID,
		OccurredAt: time.Now(),
	}

	err := ep.breaker.Execute(func() error {
		return ep.publisher.Publish(ctx, event.RoutingKey(), event)
	})
	recordBreakerRequest(err)
	if err != nil {
		log.Printf("发票事件发布失败(不影响业务): invoice_no=%s action=%s err=%v",
			inv.InvoiceNo, action, err)
		return
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    "fabricshop.events",
		"routing_key": event.RoutingKey(),
	})
}

// recordBreakerRequest 记录熔断器请求结果指标
func recordBreakerRequest(err error) {
	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
		"name":   "invoice-events",
		"result": result,
	})
}
