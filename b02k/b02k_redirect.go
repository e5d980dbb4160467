package b02k

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cmstar/go-errx"
	"github.com/cmstar/go-logx"
	"github.com/cmstar/go-tupas"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

/* 当前文件提供从回调 URL 到跳转地址的完整校验流程。 */

// FormatNames 将报文中的客户姓名拆分为名、姓两部分。
// 姓名先按词做首字母大写处理（如“FIRST LAST”得到“First Last”），
// 再按第一个空格拆分：空格前是名，其余全部是姓。没有空格时，姓为空字符串。
func FormatNames(fullname string) (firstname, lastname string) {
	// cases.Caser 内部带有状态，不能跨 goroutine 共享，每次调用新建一个。
	titled := cases.Title(language.Und).String(fullname)
	firstname, lastname, _ = strings.Cut(titled, " ")
	return
}

// BuildSuccessUrl 构建签名校验通过后的跳转地址，格式固定为：
//
//	?firstname=<First>&lastname=<Last>&hash=<hash>
//
// 姓名由 [FormatNames] 格式化并按 URL 规则编码（空格编码为“+”），
// hash 由 [BuildSuccessHash] 计算。 secret 是出站密钥，与入站密钥相互独立。
func BuildSuccessUrl(info Info, secret string) string {
	firstname, lastname := FormatNames(info.CustName)
	hash := BuildSuccessHash(firstname, lastname, secret)

	// 三个参数的顺序是固定的，不能用 url.Values 编码，它会按名称重排。
	b := new(strings.Builder)
	b.WriteString("?firstname=")
	b.WriteString(url.QueryEscape(firstname))
	b.WriteString("&lastname=")
	b.WriteString(url.QueryEscape(lastname))
	b.WriteString("&hash=")
	b.WriteString(hash)

	res := b.String()
	return res
}

// GetRedirectUrl 校验给定的回调 URL ，返回浏览器应跳转到的地址。
// 它是 [Validator.GetRedirectUrl] 的快捷方式，适用于密钥固定的场景。
//   - rawUrl 完整的回调 URL 。
//   - inputSecret 校验入站签名的密钥。
//   - outputSecret 计算成功跳转地址校验串的密钥。
//   - errorUrl 签名校验不通过时返回的跳转地址。
func GetRedirectUrl(rawUrl, inputSecret, outputSecret, errorUrl string) (string, error) {
	v := NewValidator(ValidatorOp{
		InputSecret:  inputSecret,
		OutputSecret: outputSecret,
		ErrorUrl:     errorUrl,
	})
	return v.GetRedirectUrl(rawUrl)
}

// ValidatorOp 用于初始化 [Validator] 。
type ValidatorOp struct {
	// InputSecret 校验入站签名的密钥。若同时给定了 InputSecretFinder ，以 InputSecretFinder 为准。
	InputSecret string

	// InputSecretFinder 按报文的密钥版本（ B02K_KEYVERS ）获取入站密钥。可为 nil 。
	InputSecretFinder SecretFinder

	// OutputSecret 计算成功跳转地址校验串的密钥。
	OutputSecret string

	// ErrorUrl 签名校验不通过时返回的跳转地址。
	ErrorUrl string

	// Logger 用于输出校验过程的日志。可为 nil ，表示不输出日志。
	Logger logx.Logger
}

// Validator 承载一组固定的密钥配置，用于校验回调 URL 并给出跳转地址。
// 各方法可被并发调用。
type Validator struct {
	op ValidatorOp
}

// NewValidator 创建一个 [Validator] 实例。
func NewValidator(op ValidatorOp) *Validator {
	return &Validator{op: op}
}

// GetRedirectUrl 校验给定的回调 URL ，返回浏览器应跳转到的地址。
//   - 签名校验通过时，返回 [BuildSuccessUrl] 构建的地址；
//   - 签名不匹配时，返回 [ValidatorOp.ErrorUrl] ，这不算错误；
//   - URL 或报文本身不合法时返回错误，此时跳转地址为空字符串。
//
// 报文不合法的错误包括 [tupas.DuplicateFieldError] 和 [tupas.MissingFieldError] ，
// 它们不被包装，可直接用类型断言区分。
func (v *Validator) GetRedirectUrl(rawUrl string) (string, error) {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return "", v.fail(errx.Wrap("b02k: parse the callback URL", err))
	}

	query, err := tupas.ParseQuery(u.RawQuery)
	if err != nil {
		return "", v.fail(err)
	}

	info, err := InfoFromQuery(query)
	if err != nil {
		return "", v.fail(err)
	}

	mac, ok := query.Get(FieldMac)
	if !ok {
		return "", v.fail(tupas.CreateMissingFieldError(FieldMac))
	}

	secret, err := v.inputSecret(info.KeyVers)
	if err != nil {
		return "", v.fail(err)
	}

	if !VerifySignature(info, mac, secret) {
		v.log(logx.LevelWarn, "signature mismatch",
			"Stamp", info.Stamp,
			"KeyVers", info.KeyVers,
		)
		return v.op.ErrorUrl, nil
	}

	v.log(logx.LevelInfo, "signature verified",
		"Stamp", info.Stamp,
		"CustId", info.CustId,
	)
	return BuildSuccessUrl(info, v.op.OutputSecret), nil
}

// inputSecret 给出用于校验入站签名的密钥。
func (v *Validator) inputSecret(keyVers string) (string, error) {
	if v.op.InputSecretFinder == nil {
		return v.op.InputSecret, nil
	}

	secret := v.op.InputSecretFinder.GetSecret(keyVers)
	if secret == "" {
		return "", errx.Wrap("b02k: find the input secret", fmt.Errorf("unknown key version: %s", keyVers))
	}
	return secret, nil
}

// fail 记录校验过程中的错误，并将其原样返回。日志级别由 [tupas.DescribeError] 给出。
func (v *Validator) fail(err error) error {
	if v.op.Logger != nil {
		level, errTypeName, errDescription := tupas.DescribeError(err)
		v.op.Logger.Log(level, "callback validation failed",
			"ErrorType", errTypeName,
			"Error", errDescription,
		)
	}
	return err
}

// log 输出一条校验过程的日志。 Logger 为 nil 时直接跳过。
func (v *Validator) log(level logx.Level, message string, keyValues ...any) {
	if v.op.Logger == nil {
		return
	}
	v.op.Logger.Log(level, message, keyValues...)
}
