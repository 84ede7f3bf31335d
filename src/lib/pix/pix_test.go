package pix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC16(t *testing.T) {
	assert.Equal(t, "29B1", CRC16("123456789"))
	assert.Equal(t, "FFFF", CRC16(""))
}

func TestEncodeLayout(t *testing.T) {
	code, err := Encode(Payload{
		Key:          "noivos@example.com",
		MerchantName: "João & Maria",
		MerchantCity: "Goiânia",
		Amount:       250,
		Info:         "Pedido WED-1700000000000-AB12",
		TxID:         "WED-1700000000000-AB12",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "000201"))
	assert.Contains(t, code, "0014br.gov.bcb.pix")
	assert.Contains(t, code, "0118noivos@example.com")
	assert.Contains(t, code, "52040000")
	assert.Contains(t, code, "5303986")
	assert.Contains(t, code, "5406250.00")
	assert.Contains(t, code, "5802BR")
	assert.Contains(t, code, "5912Joao & Maria")
	assert.Contains(t, code, "6007Goiania")
	assert.Contains(t, code, "0520WED1700000000000AB12")
	body := code[:len(code)-4]
	assert.True(t, strings.HasSuffix(body, "6304"))
	assert.Equal(t, CRC16(body), code[len(code)-4:])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Payload{
		Key:          "+5562999990000",
		MerchantName: "Casamento Ana e Bruno Silva Santos",
		MerchantCity: "Aparecida de Goiânia",
		Amount:       1234.5,
		Info:         "Pedido WED-1-ZZZZ",
	}
	code, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(code)
	require.NoError(t, err)
	assert.Equal(t, in.Key, out.Key)
	assert.Equal(t, "Casamento Ana e Bruno Sil", out.MerchantName)
	assert.Equal(t, "Aparecida de Go", out.MerchantCity)
	assert.Equal(t, 1234.5, out.Amount)
	assert.Equal(t, "Pedido WED-1-ZZZZ", out.Info)
	assert.Equal(t, defaultTxID, out.TxID)
}

func TestEncodeOpenAmount(t *testing.T) {
	code, err := Encode(Payload{Key: "chave", MerchantName: "Noivos", MerchantCity: "Goiania"})
	require.NoError(t, err)
	assert.NotContains(t, code, "5303986540")

	out, err := Decode(code)
	require.NoError(t, err)
	assert.Zero(t, out.Amount)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(Payload{MerchantName: "Noivos", MerchantCity: "Goiania"})
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = Encode(Payload{Key: "k", MerchantName: "", MerchantCity: "Goiania"})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = Encode(Payload{Key: strings.Repeat("k", 90), MerchantName: "N", MerchantCity: "C"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeRejectsTampering(t *testing.T) {
	code, err := Encode(Payload{Key: "chave", MerchantName: "Noivos", MerchantCity: "Goiania", Amount: 10})
	require.NoError(t, err)

	tampered := strings.Replace(code, "540510.00", "540590.00", 1)
	_, err = Decode(tampered)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, err = Decode("not a code")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Sao Joao", Normalize("São João", 0))
	assert.Equal(t, "Coracao", Normalize("  Coração ", 0))
	assert.Equal(t, "abc", Normalize("abcdef", 3))
}
