package b02k

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cmstar/go-tupas"
)

/* 当前文件提供签名算法的实现。 */

// Sha256Hex 计算 data 的 SHA-256 摘要，返回小写的 HEX 格式。
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	return hash
}

// CalculateSignature 计算 B02K 报文的签名（ MAC ），返回大写的 HEX 格式，
// 可与报文中 B02K_MAC 参数的值直接比较。 secret 是入站密钥，使用 UTF-8 字符集。
func CalculateSignature(info Info, secret string) string {
	data := buildDataToSign(info, secret)
	return strings.ToUpper(Sha256Hex(data))
}

// buildDataToSign 构建用于入站校验的待签名串：九个报文字段按协议规定的顺序排列，
// 每个字段后跟一个“&”，最后是密钥和收尾的“&”：
//
//	VERS&TIMESTMP&IDNBR&STAMP&CUSTNAME&KEYVERS&ALG&CUSTID&CUSTTYPE&secret&
//
// 字段取解码后的原文，不做重新编码。
func buildDataToSign(info Info, secret string) []byte {
	buf := new(bytes.Buffer)
	for _, v := range [...]string{
		info.Vers,
		info.Timestmp,
		info.IdNbr,
		info.Stamp,
		info.CustName,
		info.KeyVers,
		info.Alg,
		info.CustId,
		info.CustType,
		secret,
	} {
		buf.WriteString(v)
		buf.WriteByte('&')
	}
	return buf.Bytes()
}

// BuildSuccessHash 计算成功跳转地址所携带的校验串，返回小写的 HEX 格式。
// firstname 和 lastname 是经 [FormatNames] 格式化后的客户姓名， secret 是出站密钥。
func BuildSuccessHash(firstname, lastname, secret string) string {
	return Sha256Hex(buildSuccessHashData(firstname, lastname, secret))
}

// buildSuccessHashData 构建用于出站校验的待签名串：
//
//	firstname=<First>&lastname=<Last>#<secret>
//
// 姓名取格式化后的原文，不做 URL 编码。
func buildSuccessHashData(firstname, lastname, secret string) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("firstname=")
	buf.WriteString(firstname)
	buf.WriteString("&lastname=")
	buf.WriteString(lastname)
	buf.WriteByte('#')
	buf.WriteString(secret)
	return buf.Bytes()
}

// VerifySignature 校验报文的签名。 mac 是报文中 B02K_MAC 参数的值，
// 必须与 [CalculateSignature] 的结果完全一致（大写的 HEX 格式）。
// B02K_MAC 随回调 URL 明文传输，不是机密数据，这里使用普通的字符串比较。
func VerifySignature(info Info, mac, secret string) bool {
	return CalculateSignature(info, secret) == mac
}

// VerifyQuery 从解析好的 query string 中提取报文字段并校验签名。
// 返回的 bool 表示签名是否有效。报文不完整时返回错误，此时其余返回值无意义。
func VerifyQuery(query tupas.Query, secret string) (bool, Info, error) {
	info, err := InfoFromQuery(query)
	if err != nil {
		return false, Info{}, err
	}

	mac, ok := query.Get(FieldMac)
	if !ok {
		return false, Info{}, tupas.CreateMissingFieldError(FieldMac)
	}

	return VerifySignature(info, mac, secret), info, nil
}
