package binanceapi

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"

	"github.com/pkg/errors"
)

// GenerateSignatureEd25519 generates a signature for the given string with the provided private key.
func GenerateSignatureEd25519(paramString string, privateKey ed25519.PrivateKey) string {
	signatureBytes := ed25519.Sign(privateKey, []byte(paramString))
	signature := base64.StdEncoding.EncodeToString(signatureBytes)
	return signature
}

// ParseEd25519PrivateKey parses a PKCS#8 PEM encoded Ed25519 private key,
// the format generated by the Binance key generator.
func ParseEd25519PrivateKey(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in the private key data")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse PKCS#8 private key")
	}

	privateKey, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.Errorf("unexpected private key type %T, expecting ed25519", key)
	}

	return privateKey, nil
}
