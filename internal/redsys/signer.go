package redsys

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
)

const SignatureVersion = "HMAC_SHA256_V1"

// Sign computes HMAC-SHA256(HMAC-SHA256(secret, orderRef), encodedParams) and returns it
// base64 encoded. The inner HMAC diversifies the key per order.
func Sign(orderRef, encodedParams, secretKeyB64 string) (string, error) {
	mac, err := signRaw(orderRef, encodedParams, secretKeyB64)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(mac), nil
}

// Verify recomputes the signature for the order reference carried inside encodedParams and
// compares it in constant time. It never returns an error: anything that cannot be checked
// is not authentic.
func Verify(encodedParams, presentedSignatureB64, secretKeyB64 string) bool {
	if encodedParams == "" || presentedSignatureB64 == "" {
		return false
	}
	params, err := DecodeParameters(encodedParams)
	if err != nil {
		return false
	}
	orderRef := OrderReference(params)
	if orderRef == "" {
		return false
	}
	expected, err := Sign(orderRef, encodedParams, secretKeyB64)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(normalizeSignature(presentedSignatureB64)), []byte(expected))
}

func signRaw(orderRef, encodedParams, secretKeyB64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(secretKeyB64)
	if err != nil {
		return nil, fmt.Errorf("%w: secret key is not valid base64: %v", domain.ErrSigning, err)
	}

	diversify := hmac.New(sha256.New, key)
	diversify.Write([]byte(orderRef))
	diversifiedKey := diversify.Sum(nil)

	sig := hmac.New(sha256.New, diversifiedKey)
	sig.Write([]byte(encodedParams))
	return sig.Sum(nil), nil
}

// Notifications carry Ds_Signature in the URL-safe alphabet.
func normalizeSignature(sig string) string {
	sig = strings.NewReplacer("-", "+", "_", "/").Replace(strings.TrimSpace(sig))
	if rem := len(sig) % 4; rem != 0 {
		sig += strings.Repeat("=", 4-rem)
	}
	return sig
}

// OrderReference reads Ds_Order, falling back to DS_MERCHANT_ORDER.
func OrderReference(params *Parameters) string {
	if ref := params.Get(FieldNotifyOrder); ref != "" {
		return ref
	}
	return params.Get(FieldOrder)
}
