package apiv1

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// encodePublicKey renders an EC public key as base64(DER SubjectPublicKeyInfo),
// the same PKIX encoding pkg/mdoc uses for device keys.
func encodePublicKey(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("apiv1: marshal public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// decodePublicKey parses a base64(DER SubjectPublicKeyInfo)-encoded EC public key.
func decodePublicKey(encoded string) (*ecdsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("apiv1: decode public key: %w", err)
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("apiv1: parse public key: %w", err)
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("apiv1: public key is not an EC key")
	}
	return ecPub, nil
}
