package b02k

import (
	"strings"
	"testing"

	"github.com/cmstar/go-tupas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256Hex(t *testing.T) {
	got := Sha256Hex([]byte("plain to hash"))
	assert.Equal(t, "bf7701dd52efa51a9b01217b92beaaf1e2b480383b982cf53245e047ee6b4995", got)
}

func Test_buildDataToSign(t *testing.T) {
	got := buildDataToSign(_info, _inputSecret)

	want := "0003&50020181017141433899056&2512408990&20010125140015123456&FIRST LAST&0001&03&9984&02&inputsecret&"
	assert.Equal(t, want, string(got))
}

func Test_buildSuccessHashData(t *testing.T) {
	got := buildSuccessHashData("First", "Last", _outputSecret)
	assert.Equal(t, "firstname=First&lastname=Last#outputsecret", string(got))

	// 姓为空时，lastname 参数的值也为空。
	got = buildSuccessHashData("Madonna", "", _outputSecret)
	assert.Equal(t, "firstname=Madonna&lastname=#outputsecret", string(got))
}

func TestCalculateSignature(t *testing.T) {
	t.Run("Fixture", func(t *testing.T) {
		got := CalculateSignature(_info, _inputSecret)
		assert.Equal(t, _signature, got)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		got := CalculateSignature(_info, "othersecret")
		assert.NotEqual(t, _signature, got)
	})

	t.Run("EachFieldSigned", func(t *testing.T) {
		// 任意一个字段变化，签名都必须跟着变化。
		mutations := []func(*Info){
			func(x *Info) { x.Vers = "0004" },
			func(x *Info) { x.Timestmp = "50020181017141433899057" },
			func(x *Info) { x.IdNbr = "2512408991" },
			func(x *Info) { x.Stamp = "20010125140015123457" },
			func(x *Info) { x.CustName = "FIRST L" },
			func(x *Info) { x.KeyVers = "0002" },
			func(x *Info) { x.Alg = "01" },
			func(x *Info) { x.CustId = "9985" },
			func(x *Info) { x.CustType = "01" },
		}

		for i, mutate := range mutations {
			info := _info
			mutate(&info)

			got := CalculateSignature(info, _inputSecret)
			assert.NotEqual(t, _signature, got, "mutation %d", i)
		}
	})
}

func TestBuildSuccessHash(t *testing.T) {
	got := BuildSuccessHash("First", "Last", _outputSecret)
	assert.Equal(t, _successHash, got)

	// 出站和入站的密钥相互独立，错用入站密钥时得不到同样的结果。
	got = BuildSuccessHash("First", "Last", _inputSecret)
	assert.NotEqual(t, _successHash, got)
}

func TestVerifySignature(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		assert.True(t, VerifySignature(_info, _signature, _inputSecret))
	})

	t.Run("CaseExact", func(t *testing.T) {
		// 入站签名必须是大写的 HEX ，小写不匹配。
		assert.False(t, VerifySignature(_info, strings.ToLower(_signature), _inputSecret))
	})

	t.Run("WrongMac", func(t *testing.T) {
		mac := _signature[:len(_signature)-1] + "3"
		assert.False(t, VerifySignature(_info, mac, _inputSecret))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		assert.False(t, VerifySignature(_info, _signature, _outputSecret))
	})
}

func TestVerifyQuery(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		valid, info, err := VerifyQuery(newFixtureQuery(), _inputSecret)
		require.NoError(t, err)
		assert.True(t, valid)
		assert.Equal(t, _info, info)
	})

	t.Run("Tampered", func(t *testing.T) {
		q := newFixtureQuery()
		q[FieldCustName] = "OTHER NAME"

		valid, info, err := VerifyQuery(q, _inputSecret)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, "OTHER NAME", info.CustName)
	})

	t.Run("MissingMac", func(t *testing.T) {
		q := newFixtureQuery()
		delete(q, FieldMac)

		_, _, err := VerifyQuery(q, _inputSecret)
		require.Error(t, err)

		miss, ok := err.(tupas.MissingFieldError)
		require.True(t, ok)
		assert.Equal(t, FieldMac, miss.Field)
	})

	t.Run("MissingField", func(t *testing.T) {
		q := newFixtureQuery()
		delete(q, FieldStamp)

		_, _, err := VerifyQuery(q, _inputSecret)
		require.Error(t, err)
		require.Regexp(t, "missing the B02K_STAMP field", err.Error())
	})
}
