package tupas

import (
	"strings"
	"unicode/utf8"
)

/*
当前文件提供回调 URL 的 query string 解析。

解析规则面向需要参与签名的银行回调报文，在参数层面上比通用的 Web 框架更严格，
在字符层面上则更宽松，具体见 ParseQuery 的说明。
*/

// Query 记录一个 query string 解析后的参数表。参数名称区分大小写，每个名称对应恰好一个值。
type Query map[string]string

// Get 获取指定名称的参数。返回一个 bool 表示该名称的参数是否存在。
func (q Query) Get(name string) (string, bool) {
	v, ok := q[name]
	return v, ok
}

// ParseQuery 解析一个 query string 。给定的值可以以“?”开头，也可以不带。
//
// 每个参数必须恰好带有一个非空的值：同名参数出现多次（如“a=1&a=2”），
// 或者参数没有值（如单个的“a”或“a=”），都会得到 [DuplicateFieldError] 。
// 参数名称区分大小写，不同大小写的名称是不同的参数。
//
// 百分号解码比标准库宽松：非法的转义序列（如“%zz”）不会导致错误，按原文保留；
// “+”按表单编码的惯例解码为空格。解码出的字节若不是合法的 UTF-8 ，
// 每个非法的字节会被替换为一个 U+FFFD （即“�”）。
// 银行侧历史上常以 ISO-8859-1 编码发送客户姓名，此规则保证这类报文总能以确定的方式解码。
func ParseQuery(queryString string) (Query, error) {
	if len(queryString) > 0 && queryString[0] == '?' {
		queryString = queryString[1:]
	}

	values := make(Query)
	counts := make(map[string]int)
	names := make([]string, 0, 16) // 按首次出现的顺序记录参数名称，使校验结果可预测。

	length := len(queryString)
	right := 0
	for left := 0; left < length; left = right + 1 {
		right = strings.IndexByte(queryString[left:], '&')
		if right == -1 {
			right = length
		} else {
			// right 是切片 [left:] 里的相对位置，绝对位置得加上 left 。
			right += left
		}

		param := queryString[left:right]
		if param == "" {
			continue
		}

		rawName, rawValue, hasValue := strings.Cut(param, "=")
		name := decodeComponent(rawName)
		if _, ok := counts[name]; !ok {
			counts[name] = 0
			names = append(names, name)
		}

		// 没有值的参数不计数，最终因为值的数量不是一个而报错。
		if !hasValue || rawValue == "" {
			continue
		}

		counts[name]++
		values[name] = decodeComponent(rawValue)
	}

	for _, name := range names {
		if count := counts[name]; count != 1 {
			return nil, CreateDuplicateFieldError(name, count)
		}
	}
	return values, nil
}

// decodeComponent 解码 query string 的一个分段，即一个参数的名称或值。
func decodeComponent(s string) string {
	return toValidUtf8(unescape(s))
}

// unescape 做百分号解码。规则比 url.QueryUnescape 宽松：非法的转义序列不会导致错误，
// 而是按原文保留；“+”解码为空格。返回的字节序列未必是合法的 UTF-8 。
func unescape(s string) []byte {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2

		case c == '+':
			buf = append(buf, ' ')

		default:
			buf = append(buf, c)
		}
	}
	return buf
}

// toValidUtf8 将给定的字节序列转为合法的 UTF-8 字符串，每个非法的字节替换为一个 U+FFFD 。
// 替换按字节而不是按非法序列进行，如 ISO-8859-1 编码的“ÄÖ”（两个字节）会得到两个 U+FFFD 。
func toValidUtf8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	// 对 string 做 range 时，每个非法字节恰好给出一个 U+FFFD 。
	var sb strings.Builder
	sb.Grow(len(b))
	for _, r := range string(b) {
		sb.WriteRune(r)
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// unhex 给出十六进制字符对应的数值，调用前需先用 isHexDigit 判断。
func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
