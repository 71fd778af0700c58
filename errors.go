package yieldrisk

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem           ErrorCode = "YIELD_1000"
	ErrCodeConfigInvalid    ErrorCode = "YIELD_1001"
	ErrCodeCacheUnavailable ErrorCode = "YIELD_1002"

	// 计算相关错误 (2000-2999)
	ErrCodeInvalidModel        ErrorCode = "YIELD_2001"
	ErrCodeInvalidArgument     ErrorCode = "YIELD_2002"
	ErrCodeNumericOverflow     ErrorCode = "YIELD_2003"
	ErrCodeSimulationCancelled ErrorCode = "YIELD_2004"

	// 熔断相关错误 (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "YIELD_5002"

	// 序列化相关错误 (6000-6999)
	ErrCodeSerializationFailed   ErrorCode = "YIELD_6004"
	ErrCodeDeserializationFailed ErrorCode = "YIELD_6005"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// Error is the coded error returned by every operation in this package.
type Error struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Severity  ErrorSeverity  `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Operation string         `json:"operation,omitempty"`
	Cause     error          `json:"-"`
	Retryable bool           `json:"retryable"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *Error) Unwrap() error { return e.Cause }

// Is 按错误代码比较
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithCause 添加原因错误
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails 添加详细信息
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf 格式化详细信息
func (e *Error) WithDetailsf(format string, args ...any) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// WithOperation 添加操作信息
func (e *Error) WithOperation(operation string) *Error {
	e.Operation = operation
	return e
}

// WithMetadata 添加元数据
func (e *Error) WithMetadata(key string, value any) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *Error {
	err := NewError(code, message)
	err.Retryable = true
	return err
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *Error {
	err := NewError(code, message)
	err.Severity = SeverityCritical
	return err
}

// newError returns a fresh copy of a predefined error so callers can attach
// details without mutating the shared instance.
func newError(base *Error) *Error {
	cp := *base
	cp.Timestamp = time.Now()
	cp.Metadata = maps.Clone(base.Metadata)
	return &cp
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrSystemError      = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrConfigInvalid    = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrCacheUnavailable = NewRetryableError(ErrCodeCacheUnavailable, "result cache unavailable")

	// 计算相关错误
	ErrInvalidModel        = NewError(ErrCodeInvalidModel, "invalid outcome model")
	ErrInvalidArgument     = NewError(ErrCodeInvalidArgument, "invalid argument")
	ErrNumericOverflow     = NewError(ErrCodeNumericOverflow, "aggregated support exceeds representable range")
	ErrSimulationCancelled = NewError(ErrCodeSimulationCancelled, "simulation cancelled")

	// 熔断相关错误
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")

	// 序列化相关错误
	ErrSerializationFailed   = NewError(ErrCodeSerializationFailed, "serialization failed")
	ErrDeserializationFailed = NewError(ErrCodeDeserializationFailed, "deserialization failed")
)

// IsRetryableError 检查是否为可重试错误
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Retryable
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"network is unreachable",
		"temporary failure",
		"server closed",
		"broken pipe",
		"i/o timeout",
		"dial tcp",
		"read tcp",
		"write tcp",
		"no route to host",
		"redis: connection pool timeout",
		"redis: client is closed",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
