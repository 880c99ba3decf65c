// Package circuitbreaker 熔断器
//
// 用于保护可降级的外部依赖（目前是Redis用户名缓存）：
// 连续失败达到阈值后打开，打开期间调用直接返回ErrOpenState，
// 调用方据此跳过缓存直接查库；超时后进入半开状态放行少量探测请求。
//
// 状态转换：
//
//	CLOSED --连续失败>=FailureThreshold--> OPEN
//	OPEN --经过OpenTimeout--> HALF_OPEN
//	HALF_OPEN --探测成功--> CLOSED
//	HALF_OPEN --探测失败--> OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

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

// ErrOpenState 熔断器打开（或半开状态探测名额已满）
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	FailureThreshold uint32        // 连续失败多少次后打开，0表示5
	OpenTimeout      time.Duration // 打开状态持续时间，0表示30秒
	HalfOpenRequests uint32        // 半开状态允许的探测请求数，0表示1
}

// StateChangeFunc 状态变化回调（在锁内调用，不要在回调里访问熔断器）
type StateChangeFunc func(name string, from, to State)

// CircuitBreaker 熔断器，并发安全
type CircuitBreaker struct {
	name        string
	threshold   uint32
	timeout     time.Duration
	halfOpenMax uint32

	mu            sync.Mutex
	state         State
	generation    uint64 // 每次状态切换递增，丢弃旧状态下发出的请求结果
	failures      uint32 // CLOSED状态下的连续失败数
	inFlight      uint32 // HALF_OPEN状态下已放行的探测数
	openedAt      time.Time
	now           func() time.Time
	onStateChange StateChangeFunc
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:        name,
		threshold:   cfg.FailureThreshold,
		timeout:     cfg.OpenTimeout,
		halfOpenMax: cfg.HalfOpenRequests,
		state:       StateClosed,
		now:         time.Now,
	}
	if cb.threshold == 0 {
		cb.threshold = 5
	}
	if cb.timeout <= 0 {
		cb.timeout = 30 * time.Second
	}
	if cb.halfOpenMax == 0 {
		cb.halfOpenMax = 1
	}
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string { return cb.name }

// OnStateChange 设置状态变化回调（日志、指标）
func (cb *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute 执行fn并记录结果
// 熔断器打开时不调用fn，直接返回ErrOpenState
// isFailure为nil时所有非nil错误都算失败
func (cb *CircuitBreaker) Execute(fn func() error, isFailure ...func(error) bool) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn()

	failed := err != nil
	if failed && len(isFailure) > 0 && isFailure[0] != nil {
		failed = isFailure[0](err)
	}
	cb.after(generation, !failed)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.current() {
	case StateOpen:
		return cb.generation, ErrOpenState
	case StateHalfOpen:
		if cb.inFlight >= cb.halfOpenMax {
			return cb.generation, ErrOpenState
		}
		cb.inFlight++
	}
	return cb.generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.current()
	if generation != cb.generation {
		return
	}

	switch state {
	case StateClosed:
		if success {
			cb.failures = 0
			return
		}
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		if success {
			cb.setState(StateClosed)
		} else {
			cb.setState(StateOpen)
		}
	}
}

// current 打开超时后转为半开（调用方持有锁）
func (cb *CircuitBreaker) current() State {
	if cb.state == StateOpen && !cb.now().Before(cb.openedAt.Add(cb.timeout)) {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.generation++
	cb.failures = 0
	cb.inFlight = 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, from, to)
	}
}
