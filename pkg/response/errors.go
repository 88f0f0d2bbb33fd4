package response

import "fmt"

// 业务错误码
const (
	// 失败（内部错误，不向客户端暴露细节）
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未认证或令牌无效
	Unauthorized ResponseCode = 3
	// 令牌过期
	TokenExpired ResponseCode = 4
	// 无权限
	Forbidden ResponseCode = 5
	// 资源不存在
	NotFound ResponseCode = 6
)

// 校验失败原因
const (
	ReasonEmpty      = "empty"
	ReasonOutOfRange = "out_of_range"
	ReasonPattern    = "pattern"
)

type BusinessError struct {
	Code   ResponseCode
	Msg    string
	Err    error
	Fields map[string]string
}

func (be *BusinessError) Error() string {
	if be.Err != nil {
		return fmt.Sprintf("%s: %v", be.Msg, be.Err)
	}
	return be.Msg
}

func (be *BusinessError) Unwrap() error {
	return be.Err
}

// IsCritical 是否为内部错误
func (be *BusinessError) IsCritical() bool {
	return be.Code == Fail
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func WithFields(fields map[string]string) ErrorOption {
	return func(be *BusinessError) {
		be.Fields = fields
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// AccessDenied 统一的无权限错误，不携带任何原因
func AccessDenied() *BusinessError {
	return NewBusinessError(
		WithErrorCode(Forbidden),
		WithErrorMessage("access denied"),
	)
}

// ValidationFailed 字段校验失败，fields 为 字段 -> 原因
func ValidationFailed(fields map[string]string) *BusinessError {
	return NewBusinessError(
		WithErrorCode(InvalidParameter),
		WithErrorMessage("validation failed"),
		WithFields(fields),
	)
}

// NotFoundField 引用的实体不存在，仅返回字段名
func NotFoundField(field string) *BusinessError {
	return NewBusinessError(
		WithErrorCode(NotFound),
		WithErrorMessage(field),
	)
}

// Critical 内部错误，err 仅用于服务端日志
func Critical(err error) *BusinessError {
	return NewBusinessError(
		WithErrorCode(Fail),
		WithErrorMessage("internal error"),
		WithError(err),
	)
}
