// Package circuitbreaker 实现熔断器模式（Circuit Breaker Pattern）
//
// 在本项目中用于保护发票事件发布：RabbitMQ不可用时，熔断器快速失败，
// 状态流转事务不会被一个故障的消息代理阻塞或拖垮。
//
// 状态转换：
//
//	CLOSED --失败达到阈值--> OPEN --超时--> HALF_OPEN --探测成功--> CLOSED
//	                                          |
//	                                          +--探测失败--> OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpenState 熔断器处于打开状态，请求被拒绝
var ErrOpenState = errors.New("circuit breaker is open")

// State 熔断器状态
type State int

const (
	// StateClosed 关闭状态（正常放行，统计失败次数）
	StateClosed State = iota

	// StateOpen 打开状态（熔断，快速失败，不调用下游）
	StateOpen

	// StateHalfOpen 半开状态（放行少量探测请求）
	StateHalfOpen
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Counts 统计窗口内的请求计数
type Counts struct {
	Requests             uint32 // 总请求数
	TotalSuccesses       uint32 // 总成功数
	TotalFailures        uint32 // 总失败数
	ConsecutiveSuccesses uint32 // 连续成功数
	ConsecutiveFailures  uint32 // 连续失败数
}

// FailureRate 失败率（0~1）
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) reset() { *c = Counts{} }

// success/failure只更新结果计数，Requests在allow中递增
func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的最大探测请求数（建议1-5）
	MaxRequests uint32

	// Interval 统计时间窗口（CLOSED状态下计数的重置周期）
	Interval time.Duration

	// Timeout 熔断超时时间（OPEN状态持续时间，过后转HALF_OPEN）
	Timeout time.Duration

	// ReadyToTrip 判断是否应该打开熔断器，nil时默认连续失败5次
	// 常见策略：counts.ConsecutiveFailures >= 5 或 counts.FailureRate() > 0.5
	ReadyToTrip func(counts Counts) bool

	// OnStateChange 状态变化回调（记录日志、更新监控指标），可为nil
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker 熔断器，并发安全
type CircuitBreaker struct {
	name string
	cfg  Config

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，迟到的结果按生成号作废
	counts     Counts
	expiry     time.Time // CLOSED时的窗口重置点，OPEN时的半开转换点
}

// New 创建熔断器
//
// 示例（保护事件发布）：
//
//	cb := circuitbreaker.New("invoice-events", circuitbreaker.Config{
//	    MaxRequests: 3,
//	    Interval:    60 * time.Second,
//	    Timeout:     30 * time.Second,
//	})
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	return &CircuitBreaker{
		name:   name,
		cfg:    cfg,
		state:  StateClosed,
		expiry: time.Now().Add(cfg.Interval),
	}
}

// Execute 在熔断器保护下执行req
// 熔断打开时不调用req，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(req func() error) error {
	gen, err := cb.allow()
	if err != nil {
		return err
	}

	err = req()
	cb.record(gen, err == nil)
	return err
}

// allow 请求前检查，返回放行时的生成号
func (cb *CircuitBreaker) allow() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.refresh(now)

	if cb.state == StateOpen {
		return cb.generation, ErrOpenState
	}
	if cb.state == StateHalfOpen && cb.counts.Requests >= cb.cfg.MaxRequests {
		// 半开状态已达到最大探测数
		return cb.generation, ErrOpenState
	}

	cb.counts.Requests++
	return cb.generation, nil
}

// record 记录请求结果
// 生成号与当前不匹配说明期间发生过状态切换，结果作废
func (cb *CircuitBreaker) record(gen uint64, ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.refresh(now)
	if cb.generation != gen {
		return
	}

	if ok {
		cb.counts.success()
		if cb.state == StateHalfOpen {
			// 探测成功，恢复
			cb.transition(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch cb.state {
	case StateClosed:
		if cb.cfg.ReadyToTrip(cb.counts) {
			cb.transition(StateOpen, now)
		}
	case StateHalfOpen:
		// 探测失败，立即转回打开状态
		cb.transition(StateOpen, now)
	}
}

// refresh 推进到期的状态
// CLOSED：统计窗口到期时重置计数；OPEN：超时后转HALF_OPEN
func (cb *CircuitBreaker) refresh(now time.Time) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts.reset()
			cb.expiry = now.Add(cb.cfg.Interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.transition(StateHalfOpen, now)
		}
	}
}

// transition 切换状态，递增生成号并重置计数
func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.generation++
	cb.counts.reset()

	switch to {
	case StateClosed:
		cb.expiry = now.Add(cb.cfg.Interval)
	case StateOpen:
		cb.expiry = now.Add(cb.cfg.Timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{} // 半开状态不自动过期，由探测结果驱动
	}

	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, from, to)
	}
}

// State 当前状态（会先推进到期的状态转换）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.refresh(time.Now())
	return cb.state
}

// Counts 当前统计数据快照
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}
