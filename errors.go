package lottopick

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem          ErrorCode = "LOTTOPICK_1000"
	ErrCodeRedisConnection ErrorCode = "LOTTOPICK_1001"
	ErrCodeConfigInvalid   ErrorCode = "LOTTOPICK_1002"

	// 校验级错误 (2000-2999)
	ErrCodeCountNotInteger    ErrorCode = "LOTTOPICK_2000"
	ErrCodeCountOutOfRange    ErrorCode = "LOTTOPICK_2001"
	ErrCodeCombinationLength  ErrorCode = "LOTTOPICK_2002"
	ErrCodeCombinationRange   ErrorCode = "LOTTOPICK_2003"
	ErrCodeCombinationRepeats ErrorCode = "LOTTOPICK_2004"
	ErrCodeInvalidRetryBudget ErrorCode = "LOTTOPICK_2005"
	ErrCodeInvalidCacheTTL    ErrorCode = "LOTTOPICK_2006"

	// 生成级错误 (3000-3999)
	ErrCodeGenerationExhausted ErrorCode = "LOTTOPICK_3000"
	ErrCodeSampleExhausted     ErrorCode = "LOTTOPICK_3001"

	// 数据提供方错误 (4000-4999)
	ErrCodeProviderUnavailable ErrorCode = "LOTTOPICK_4000"
	ErrCodeCircuitBreakerOpen  ErrorCode = "LOTTOPICK_4001"
	ErrCodeCorruptDrawRecord   ErrorCode = "LOTTOPICK_4002"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// LottoError is the library error type carrying a stable code alongside the
// human-readable message, so callers can branch with errors.Is against the
// predefined instances below.
type LottoError struct {
	Code        ErrorCode     `json:"code"`
	Message     string        `json:"message"`
	Details     string        `json:"details,omitempty"`
	Severity    ErrorSeverity `json:"severity"`
	Timestamp   time.Time     `json:"timestamp"`
	RequesterID string        `json:"requester_id,omitempty"`
	Cause       error         `json:"-"`
	Retryable   bool          `json:"retryable"`
}

// Error 实现 error 接口
func (e *LottoError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *LottoError) Unwrap() error {
	return e.Cause
}

// Is matches two LottoErrors by code
func (e *LottoError) Is(target error) bool {
	if t, ok := target.(*LottoError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithCause returns a copy of the error with the given cause attached.
// The predefined instances are shared, so builders never mutate in place.
func (e *LottoError) WithCause(cause error) *LottoError {
	clone := *e
	clone.Cause = cause
	clone.Timestamp = time.Now()
	return &clone
}

// WithDetails returns a copy of the error with extra detail text
func (e *LottoError) WithDetails(details string) *LottoError {
	clone := *e
	clone.Details = details
	clone.Timestamp = time.Now()
	return &clone
}

// WithRequesterID returns a copy of the error tagged with the requester
func (e *LottoError) WithRequesterID(requesterID string) *LottoError {
	clone := *e
	clone.RequesterID = requesterID
	return &clone
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *LottoError {
	return &LottoError{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrSystemError           = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")

	// 校验级错误
	ErrCountNotInteger        = NewError(ErrCodeCountNotInteger, "prediction count must be an integer")
	ErrInvalidPredictionCount = NewError(ErrCodeCountOutOfRange,
		fmt.Sprintf("prediction count must be between %d and %d", MinPredictionCount, MaxPredictionCount))
	ErrCombinationLength = NewError(ErrCodeCombinationLength,
		fmt.Sprintf("combination must contain exactly %d numbers", PickCount))
	ErrCombinationRange = NewError(ErrCodeCombinationRange,
		fmt.Sprintf("combination numbers must be between %d and %d", MinNumber, MaxNumber))
	ErrCombinationRepeats = NewError(ErrCodeCombinationRepeats, "combination numbers must be distinct")
	ErrInvalidRetryBudget = NewError(ErrCodeInvalidRetryBudget,
		fmt.Sprintf("retry budget must be between 1 and %d", MaxGenerateRetriesCeiling))
	ErrInvalidCacheTTL = NewError(ErrCodeInvalidCacheTTL,
		fmt.Sprintf("history cache TTL must be between %v and %v", MinHistoryCacheTTL, MaxHistoryCacheTTL))

	// 生成级错误
	ErrGenerationExhausted = NewError(ErrCodeGenerationExhausted,
		"retry budget exhausted without an acceptable combination")
	ErrSampleExhausted = NewError(ErrCodeSampleExhausted,
		"sample attempt ceiling reached without a non-extreme combination")

	// 数据提供方错误
	ErrProviderUnavailable = NewRetryableError(ErrCodeProviderUnavailable, "historical draw provider unavailable")
	ErrCircuitBreakerOpen  = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")
	ErrCorruptDrawRecord   = NewError(ErrCodeCorruptDrawRecord, "stored draw record is corrupt")
)

// IsRetryableError reports whether an arbitrary error looks transient.
// LottoErrors answer from their Retryable flag; anything else is matched
// against common network failure strings.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var lottoErr *LottoError
	if errors.As(err, &lottoErr) {
		return lottoErr.Retryable
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"network is unreachable",
		"temporary failure",
		"broken pipe",
		"i/o timeout",
		"dial tcp",
		"read tcp",
		"write tcp",
		"no route to host",
		"redis: connection pool timeout",
		"redis: client is closed",
		"context deadline exceeded",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
