// b02k 包实现 TUPAS 认证 B02K 应答报文的校验。
package b02k

import (
	"github.com/cmstar/go-tupas"
)

const (
	// 回调 URL 上承载报文字段的参数，按协议规定的签名顺序排列。
	FieldVers     = "B02K_VERS"
	FieldTimestmp = "B02K_TIMESTMP"
	FieldIdNbr    = "B02K_IDNBR"
	FieldStamp    = "B02K_STAMP"
	FieldCustName = "B02K_CUSTNAME"
	FieldKeyVers  = "B02K_KEYVERS"
	FieldAlg      = "B02K_ALG"
	FieldCustId   = "B02K_CUSTID"
	FieldCustType = "B02K_CUSTTYPE"

	// FieldMac 承载银行侧计算的签名（ MAC ）。它本身不参与签名计算。
	FieldMac = "B02K_MAC"
)

// Info 记录 B02K 应答报文的九个字段。均为报文解码后的原文，不对格式做解释。
type Info struct {
	Vers     string // Vers 报文的版本号，如“0003”。
	Timestmp string // Timestmp 银行侧的时间戳。
	IdNbr    string // IdNbr 银行侧的流水号。
	Stamp    string // Stamp 商户发起认证时给定的唯一标识。
	CustName string // CustName 客户的姓名。
	KeyVers  string // KeyVers 签名密钥的版本。
	Alg      string // Alg 签名算法的标识，“03”表示 SHA-256 。
	CustId   string // CustId 客户的标识。
	CustType string // CustType 客户的类型。
}

// InfoFromQuery 从解析好的 query string 中提取 B02K 报文的九个字段。
// 字段缺一不可，缺失时返回 [tupas.MissingFieldError] 。
// 协议字段之外的参数被忽略， [FieldMac] 也不在提取范围内。
func InfoFromQuery(query tupas.Query) (Info, error) {
	var info Info
	fields := [...]struct {
		name string
		dst  *string
	}{
		{FieldVers, &info.Vers},
		{FieldTimestmp, &info.Timestmp},
		{FieldIdNbr, &info.IdNbr},
		{FieldStamp, &info.Stamp},
		{FieldCustName, &info.CustName},
		{FieldKeyVers, &info.KeyVers},
		{FieldAlg, &info.Alg},
		{FieldCustId, &info.CustId},
		{FieldCustType, &info.CustType},
	}

	for _, f := range fields {
		v, ok := query.Get(f.name)
		if !ok {
			return Info{}, tupas.CreateMissingFieldError(f.name)
		}
		*f.dst = v
	}
	return info, nil
}

// SecretFinder 用于获取绑定到指定密钥版本（ B02K_KEYVERS ）的入站密钥。
type SecretFinder interface {
	// GetSecret 获取绑定到指定密钥版本的密钥。
	// 若给定的版本没有绑定，返回空字符串。
	// 若获取过程出错，直接 panic 。
	GetSecret(keyVers string) string
}

type secretFinderWrapper struct {
	f func(keyVers string) string
}

func (x secretFinderWrapper) GetSecret(keyVers string) string {
	return x.f(keyVers)
}

// SecretFinderFunc 将给定的函数包装为 [SecretFinder] 。
func SecretFinderFunc(f func(keyVers string) string) SecretFinder {
	return secretFinderWrapper{f}
}
