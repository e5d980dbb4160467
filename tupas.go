// tupas 包提供校验芬兰 TUPAS 网银认证回调所需的基础能力，包括回调 query string 的严格解析和公共的错误类型。
// 具体的报文协议由子包实现，如 B02K 应答报文的校验在 b02k 包。
package tupas

import (
	"fmt"
	"reflect"

	"github.com/cmstar/go-errx"
	"github.com/cmstar/go-logx"
)

/*
当前文件提供 tupas 库的公共错误类型及处理错误的方法。
*/

// fieldError 描述回调报文中某个特定参数上的错误，用作其他错误的内嵌结构。
type fieldError struct {
	errx.ErrorCause

	Field   string // Field 记录出错的参数的名称。
	Message string // Message 记录错误的描述信息。
}

var _ error = (*fieldError)(nil)

// Error 实现 error 接口。
func (e fieldError) Error() string {
	return e.Message
}

// DuplicateFieldError 记录一个值的数量不合法的参数。
// 回调报文里每个参数必须恰好带有一个值，参数出现多次或者没有值（如“a=1&a=2”或单个的“a”）都会得到此错误。
type DuplicateFieldError struct {
	fieldError

	Count int // Count 记录该参数实际带有的值的数量。
}

// CreateDuplicateFieldError 创建一个 DuplicateFieldError 。
// field 是出错的参数的名称， count 是该参数实际带有的值的数量。
func CreateDuplicateFieldError(field string, count int) DuplicateFieldError {
	return DuplicateFieldError{
		fieldError: fieldError{
			Field:   field,
			Message: fmt.Sprintf("field %s appears with %d values, want exactly one", field, count),
		},
		Count: count,
	}
}

// MissingFieldError 记录一个缺失的参数。回调报文缺少协议要求的参数时，会得到此错误。
type MissingFieldError struct {
	fieldError
}

// CreateMissingFieldError 创建一个 MissingFieldError 。 field 是缺失的参数的名称。
func CreateMissingFieldError(field string) MissingFieldError {
	return MissingFieldError{
		fieldError: fieldError{
			Field:   field,
			Message: fmt.Sprintf("missing the %s field", field),
		},
	}
}

// DescribeError 根据给定的错误，返回错误的日志级别、名称和错误描述。如果 err 为 nil ，返回 logx.LevelInfo 和空字符串。
// 此方法可用于搭配 logx.Logger.Log() 输出带有错误描述的日志。
//
// 描述信息使用 errx.Describe() 获取。
func DescribeError(err error) (logLevel logx.Level, errTypeName, errDescription string) {
	if err == nil {
		return logx.LevelInfo, "", ""
	}

	errTypeName = getErrTypeName(err)
	errDescription = errx.Describe(err)

	logLevel = logx.LevelError
	switch err.(type) {
	case errx.BizError:
		// 业务层面的错误，不代表程序有问题。
		logLevel = logx.LevelWarn
	case DuplicateFieldError, MissingFieldError:
		// 报文不符合协议，属于外部输入的问题。
		logLevel = logx.LevelError
	}

	return
}

func getErrTypeName(err error) string {
	// 取 error 内在的实际类型的名称。
	typ := reflect.TypeOf(err)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	name := typ.Name()

	// 如果是个公开类型（首字母大写），直接用其名称。
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return name
	}

	// 非公开的错误，如果是几个预定义且常见的，返回其接口名称。
	if _, ok := err.(errx.BizError); ok {
		return "BizError"
	}
	if _, ok := err.(errx.StackfulError); ok {
		return "StackfulError"
	}
	return name
}
