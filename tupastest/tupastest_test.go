package tupastest

import (
	"strings"
	"testing"

	"github.com/cmstar/go-logx"
	"github.com/cmstar/go-tupas/b02k"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	_baseUrl      = "https://shop.example.org/auth"
	_inputSecret  = "inputsecret"
	_outputSecret = "outputsecret"
	_errorUrl     = "/error/"
	_signature    = "EBA959A76B87AE8996849E7C0C08D4AC44B053183BE12C0DAC2AD0C86F9F2542"
)

var _info = b02k.Info{
	Vers:     "0003",
	Timestmp: "50020181017141433899056",
	IdNbr:    "2512408990",
	Stamp:    "20010125140015123456",
	CustName: "FIRST LAST",
	KeyVers:  "0001",
	Alg:      "03",
	CustId:   "9984",
	CustType: "02",
}

func TestCallbackUrl(t *testing.T) {
	t.Run("FullUrl", func(t *testing.T) {
		got := CallbackUrl(_baseUrl, _info, _inputSecret)

		want := _baseUrl + "?B02K_VERS=0003" +
			"&B02K_TIMESTMP=50020181017141433899056" +
			"&B02K_IDNBR=2512408990" +
			"&B02K_STAMP=20010125140015123456" +
			"&B02K_CUSTNAME=FIRST+LAST" +
			"&B02K_KEYVERS=0001" +
			"&B02K_ALG=03" +
			"&B02K_CUSTID=9984" +
			"&B02K_CUSTTYPE=02" +
			"&B02K_MAC=" + _signature
		assert.Equal(t, want, got)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		rawUrl := CallbackUrl(_baseUrl, _info, _inputSecret)

		got, err := b02k.GetRedirectUrl(rawUrl, _inputSecret, _outputSecret, _errorUrl)
		require.NoError(t, err)
		assert.Equal(t, "?firstname=First&lastname=Last&hash=4f6536ca2a23592d9037a4707bb44980b9bd2d4250fc1c833812068ccb000712", got)
	})

	t.Run("NonAsciiName", func(t *testing.T) {
		info := _info
		info.CustName = "V�IN� M�KI"

		// U+FFFD 被编码为 %EF%BF%BD ，解析后原样还原。
		rawUrl := CallbackUrl(_baseUrl, info, _inputSecret)
		assert.Contains(t, rawUrl, "B02K_CUSTNAME=V%EF%BF%BDIN%EF%BF%BD+M%EF%BF%BDKI")

		got, err := b02k.GetRedirectUrl(rawUrl, _inputSecret, _outputSecret, _errorUrl)
		require.NoError(t, err)
		assert.Equal(t, b02k.BuildSuccessUrl(info, _outputSecret), got)
	})
}

func TestCallbackUrlWithMac(t *testing.T) {
	t.Run("InvalidMac", func(t *testing.T) {
		rawUrl := CallbackUrlWithMac(_baseUrl, _info, strings.Repeat("0", 64))

		got, err := b02k.GetRedirectUrl(rawUrl, _inputSecret, _outputSecret, _errorUrl)
		require.NoError(t, err)
		assert.Equal(t, _errorUrl, got)
	})

	t.Run("BaseWithQuery", func(t *testing.T) {
		got := CallbackUrlWithMac("https://shop.example.org/auth?lang=fi", _info, "MAC")
		assert.True(t, strings.HasPrefix(got, "https://shop.example.org/auth?lang=fi&B02K_VERS=0003&"))
		assert.True(t, strings.HasSuffix(got, "&B02K_MAC=MAC"))
	})
}

// 校验流程配合 LogRecorder ，检查各个分支输出的日志。
func TestValidatorLogging(t *testing.T) {
	recorder := NewLogRecorder()
	v := b02k.NewValidator(b02k.ValidatorOp{
		InputSecret:  _inputSecret,
		OutputSecret: _outputSecret,
		ErrorUrl:     _errorUrl,
		Logger:       recorder,
	})

	// 签名有效。
	_, err := v.GetRedirectUrl(CallbackUrl(_baseUrl, _info, _inputSecret))
	require.NoError(t, err)

	// 签名不匹配。
	_, err = v.GetRedirectUrl(CallbackUrlWithMac(_baseUrl, _info, strings.Repeat("0", 64)))
	require.NoError(t, err)

	// 报文不合法。
	_, err = v.GetRedirectUrl(CallbackUrl(_baseUrl, _info, _inputSecret) + "&B02K_ALG=03")
	require.Error(t, err)

	entries := recorder.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, logx.LevelInfo, entries[0].Level)
	assert.Equal(t, "signature verified", entries[0].Message)
	assert.Equal(t, _info.Stamp, entries[0].Get("Stamp"))
	assert.Equal(t, _info.CustId, entries[0].Get("CustId"))

	assert.Equal(t, logx.LevelWarn, entries[1].Level)
	assert.Equal(t, "signature mismatch", entries[1].Message)
	assert.Equal(t, _info.KeyVers, entries[1].Get("KeyVers"))

	assert.Equal(t, logx.LevelError, entries[2].Level)
	assert.Equal(t, "callback validation failed", entries[2].Message)
	assert.Equal(t, "DuplicateFieldError", entries[2].Get("ErrorType"))
	assert.Regexp(t, "appears with 2 values", entries[2].Get("Error"))
}
