package liqpay

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"
)

// Credentials is the merchant key pair issued by the gateway. The private
// key never leaves this package and is never logged; String redacts it.
type Credentials struct {
	PublicKey  string
	PrivateKey string
}

// NewCredentials validates a key pair. Sandbox keys carry a "sandbox_"
// prefix; a pair mixing sandbox and production keys is rejected.
func NewCredentials(publicKey, privateKey string) (Credentials, error) {
	if publicKey == "" || privateKey == "" {
		return Credentials{}, fmt.Errorf("both public and private keys are required")
	}
	if isSandboxKey(publicKey) != isSandboxKey(privateKey) {
		return Credentials{}, fmt.Errorf("public and private keys must be both sandbox or both production")
	}
	return Credentials{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// Sandbox reports whether this pair targets the gateway sandbox
func (c Credentials) Sandbox() bool {
	return isSandboxKey(c.PublicKey)
}

// String implements fmt.Stringer without exposing the private key
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials(public_key=%s)", c.PublicKey)
}

func isSandboxKey(key string) bool {
	return strings.HasPrefix(key, "sandbox_")
}

// Sign computes the gateway signature over an encoded payload:
// base64(sha1(private_key || data || private_key)). The construction is the
// gateway's published contract; identical inputs always yield identical
// output.
func Sign(data string, privateKey string) string {
	h := sha1.New()
	h.Write([]byte(privateKey))
	h.Write([]byte(data))
	h.Write([]byte(privateKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifySignature recomputes the signature for data and compares it against
// the supplied one in constant time. This is the only gate against callback
// forgery; the comparison must not leak where a mismatch occurs.
func VerifySignature(data, signature, privateKey string) bool {
	expected := Sign(data, privateKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}
