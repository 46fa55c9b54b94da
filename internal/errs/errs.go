package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 服务边界上的错误分类，HTTP 层据此映射状态码
type Kind int

const (
	KindInternal            Kind = iota
	KindUpstream                 // 上游不可达/超时/非 2xx
	KindNotFound                 // 上游确认无数据
	KindMalformed                // 上游返回结构异常
	KindInvalidInput             // 调用方参数错误
	KindInsufficientBalance      // 服务端钱包余额不足
	KindChain                    // 签名/链上提交失败
	KindStorage                  // 文档库读写失败
)

func (k Kind) String() string {
	switch k {
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindChain:
		return "chain"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error 带分类的错误。Message 是可以直接返回给前端的文案，Err 只用于日志
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建不带底层原因的分类错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 取错误分类，非 *Error 一律视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误链上是否存在指定分类
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage 返回可安全暴露给调用方的文案
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus 分类 -> HTTP 状态码
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUpstream:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindInsufficientBalance:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
