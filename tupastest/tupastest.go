// tupastest 包提供用于测试 go-tupas 库的辅助方法。
package tupastest

import (
	"net/url"
	"strings"

	"github.com/cmstar/go-tupas/b02k"
)

// CallbackUrl 构建一个签名有效的 B02K 回调 URL ，用于测试校验流程。
// baseUrl 是回调地址的前缀，如“https://shop.example.org/auth”，报文参数拼接在其后。
// secret 是入站密钥，签名由 [b02k.CalculateSignature] 计算。
func CallbackUrl(baseUrl string, info b02k.Info, secret string) string {
	return CallbackUrlWithMac(baseUrl, info, b02k.CalculateSignature(info, secret))
}

// CallbackUrlWithMac 构建一个 B02K 回调 URL ，签名部分直接使用给定的 mac ，
// 可用于构造签名无效的报文。
func CallbackUrlWithMac(baseUrl string, info b02k.Info, mac string) string {
	b := new(strings.Builder)
	b.WriteString(baseUrl)

	// baseUrl 已带有 query string 时，继续用“&”拼接。
	next := byte('?')
	if strings.IndexByte(baseUrl, '?') >= 0 {
		next = '&'
	}

	appendParam := func(name, value string) {
		b.WriteByte(next)
		next = '&'

		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	appendParam(b02k.FieldVers, info.Vers)
	appendParam(b02k.FieldTimestmp, info.Timestmp)
	appendParam(b02k.FieldIdNbr, info.IdNbr)
	appendParam(b02k.FieldStamp, info.Stamp)
	appendParam(b02k.FieldCustName, info.CustName)
	appendParam(b02k.FieldKeyVers, info.KeyVers)
	appendParam(b02k.FieldAlg, info.Alg)
	appendParam(b02k.FieldCustId, info.CustId)
	appendParam(b02k.FieldCustType, info.CustType)
	appendParam(b02k.FieldMac, mac)

	res := b.String()
	return res
}
