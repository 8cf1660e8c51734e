// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError 表示调用方传入的参数不合法（格式错误的 ID、空的明细集合、越界的页码等）。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf 构造一个带格式化消息的 ValidationError。
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 表示请求引用的实体（客户、商品、预订单）不存在。
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError 表示唯一性约束冲突（商品名、客户邮箱重复），或者
// 并发写入导致的可重试冲突（守护式库存更新未命中任何行）。
type ConflictError struct {
	Message string
	// Retryable 为 true 时表示调用方重试同一请求是有意义的。
	Retryable bool
}

func (e *ConflictError) Error() string { return e.Message }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StockViolation 记录单个商品的库存不足详情。
type StockViolation struct {
	ProductName string
	Available   int
	Requested   int
}

func (v StockViolation) String() string {
	return fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
		v.ProductName, v.Available, v.Requested)
}

// InsufficientStockError 聚合了一次请求里所有库存不足的商品。
// 校验阶段会检查完全部明细再失败，让调用方在一次往返里拿到所有冲突。
type InsufficientStockError struct {
	Violations []StockViolation
}

func (e *InsufficientStockError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return strings.Join(lines, "; ")
}

// InternalError 包裹所有预期之外的失败，对外只暴露稳定的消息，
// 底层原因通过 Unwrap 保留给日志。
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string { return e.Message }
func (e *InternalError) Unwrap() error { return e.Cause }

// Internal 把任意错误包装成 InternalError；已经属于领域错误分类的错误原样返回。
func Internal(message string, cause error) error {
	if IsDomain(cause) {
		return cause
	}
	return &InternalError{Message: message, Cause: cause}
}

// IsDomain 判断 err 是否属于需要原样透传给调用方的领域错误。
func IsDomain(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		cf *ConflictError
		is *InsufficientStockError
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &is)
}
