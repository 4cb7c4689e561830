package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunnypayments/core/security"
)

func Test_EncryptDecrypt(t *testing.T) {
	assertions := assert.New(t)

	svc, err := security.New("test-secret")
	assertions.Nil(err, "failed to build service")

	plaintext := []byte(`{"cardNumber":"4242424242424242","cvv":"123"}`)
	env, err := svc.Encrypt(plaintext)
	assertions.Nil(err, "failed to encrypt")
	assertions.NotContains(env.Data, "4242424242424242")

	decrypted, err := svc.Decrypt(env)
	assertions.Nil(err, "failed to decrypt")
	assertions.Equal(plaintext, decrypted)
}

func Test_Decrypt_Garbage(t *testing.T) {
	assertions := assert.New(t)

	svc, err := security.New("test-secret")
	assertions.Nil(err)

	_, err = svc.Decrypt(security.Envelope{Data: "bm90LWEtY2lwaGVydGV4dA=="})
	assertions.NotNil(err)

	_, err = svc.Decrypt(security.Envelope{Data: "!!!"})
	assertions.NotNil(err)
}

func Test_Decrypt_WrongKey(t *testing.T) {
	assertions := assert.New(t)

	a, err := security.New("secret-a")
	assertions.Nil(err)
	b, err := security.New("secret-b")
	assertions.Nil(err)

	env, err := a.Encrypt([]byte("payload"))
	assertions.Nil(err)

	_, err = b.Decrypt(env)
	assertions.NotNil(err, "foreign key must not open the envelope")
}

func Test_New_EmptySecret(t *testing.T) {
	assertions := assert.New(t)

	_, err := security.New("")
	assertions.ErrorIs(err, security.ErrEmptySecret)
}

func Test_VerifySignature(t *testing.T) {
	assertions := assert.New(t)

	svc, err := security.New("webhook-secret")
	assertions.Nil(err)

	payload := []byte(`{"event":"payment.succeeded","transaction_id":"abc"}`)
	signature := svc.Hash(payload)

	assertions.True(svc.VerifySignature(payload, signature))
	assertions.False(svc.VerifySignature(payload, "garbage"))
	assertions.False(svc.VerifySignature([]byte("tampered"), signature))
}

func Test_Hash_Deterministic(t *testing.T) {
	assertions := assert.New(t)

	svc, err := security.New("webhook-secret")
	assertions.Nil(err)

	payload := []byte("payload")
	assertions.Equal(svc.Hash(payload), svc.Hash(payload))
}

func Test_MaskSensitive(t *testing.T) {
	assertions := assert.New(t)

	in := map[string]any{
		"amount":     "100.00",
		"cardNumber": "4242-4242-4242-4242",
		"cvv":        "123",
		"customer": map[string]any{
			"accountNumber": "GB0012345678",
			"email":         "jo@example.com",
		},
	}

	out := security.MaskSensitive(in)

	assertions.Equal("100.00", out["amount"])
	assertions.Equal("**** **** **** 4242", out["cardNumber"])
	assertions.Equal("[REDACTED]", out["cvv"])

	nested := out["customer"].(map[string]any)
	assertions.Equal("jo@example.com", nested["email"])
	assertions.NotEqual("GB0012345678", nested["accountNumber"])

	// original untouched
	assertions.Equal("4242-4242-4242-4242", in["cardNumber"])
}

func Test_ContainsSensitive(t *testing.T) {
	assertions := assert.New(t)

	assertions.True(security.ContainsSensitive(map[string]any{"cvv": "123"}))
	assertions.True(security.ContainsSensitive(map[string]any{
		"card": map[string]any{"number": "4242"},
	}))
	assertions.False(security.ContainsSensitive(map[string]any{"amount": 1}))
}

func Test_MaskNumber(t *testing.T) {
	assertions := assert.New(t)

	assertions.Equal("**** **** **** 4242", security.MaskNumber("4242424242424242"))
	assertions.Equal("****", security.MaskNumber("123"))
}
