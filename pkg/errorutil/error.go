package errorutil

import (
	"errors"
	"fmt"
)

// 错误码常量
const (
	CodeInvalid  = 400 // 参数、前置条件或外部数据不合法
	CodeInternal = 500 // 运行期内部故障（IO 等）
)

// Error 错误结构
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口，详细信息直接拼进错误串（本仓库错误只经日志出口）
func (e *Error) Error() string {
	if e.DevDetails != "" {
		return e.Message + ": " + e.DevDetails
	}
	return e.Message
}

// Invalid 创建不合法错误（空注册表、缺失列、非法查询键等）
func Invalid(message string) *Error {
	return &Error{
		Code:    CodeInvalid,
		Message: message,
	}
}

// InvalidWithDetails 创建不合法错误（带详细信息）
func InvalidWithDetails(message string, details string) *Error {
	return &Error{
		Code:       CodeInvalid,
		Message:    message,
		DevDetails: details,
	}
}

// Internal 创建内部错误
func Internal(message string) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	// 如果已经是 Error 类型，直接返回
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	// 默认为内部错误
	return &Error{
		Code:       CodeInternal,
		Message:    err.Error(),
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// IsInvalid err 是否为不合法类错误
func IsInvalid(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeInvalid
	}
	return false
}
