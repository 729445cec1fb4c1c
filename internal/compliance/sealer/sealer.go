// Package sealer encrypts tax identifiers before they reach a durable store.
package sealer

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"

	"payoutkyc/internal/compliance/models"
	dErrors "payoutkyc/pkg/domain-errors"
)

const (
	keySize   = 32
	nonceSize = 24

	// prefix marks sealed values so plaintext written before sealing was
	// enabled is still readable.
	prefix = "sb1:"
)

// ErrOpen is returned when a sealed value fails authentication.
var ErrOpen = errors.New("sealed value could not be opened")

// Sealer seals and opens strings with a single secretbox key.
type Sealer struct {
	key [keySize]byte
}

// GenerateKey returns a new random key, base64 encoded for configuration.
func GenerateKey() (string, error) {
	buf := make([]byte, keySize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// New builds a Sealer from a base64-encoded 32 byte key.
func New(encodedKey string) (*Sealer, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "sealing key is not valid base64")
	}
	if len(raw) != keySize {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("sealing key must be %d bytes", keySize))
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

// Seal encrypts plaintext. The empty string seals to itself.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return prefix + base64.RawStdEncoding.EncodeToString(box), nil
}

// Open decrypts a value produced by Seal. Unprefixed values are returned as
// is.
func (s *Sealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, prefix) {
		return sealed, nil
	}
	box, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, prefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrOpen
	}
	return string(plain), nil
}

// SealInfo returns a copy of info with its tax IDs sealed. A nil Sealer
// leaves info unchanged.
func (s *Sealer) SealInfo(info models.ComplianceInfo) (models.ComplianceInfo, error) {
	if s == nil {
		return info, nil
	}
	var err error
	if info.IndividualTaxID, err = s.Seal(info.IndividualTaxID); err != nil {
		return info, err
	}
	if info.BusinessTaxID, err = s.Seal(info.BusinessTaxID); err != nil {
		return info, err
	}
	return info, nil
}

// OpenInfo reverses SealInfo.
func (s *Sealer) OpenInfo(info models.ComplianceInfo) (models.ComplianceInfo, error) {
	if s == nil {
		return info, nil
	}
	var err error
	if info.IndividualTaxID, err = s.Open(info.IndividualTaxID); err != nil {
		return info, fmt.Errorf("individual tax id: %w", err)
	}
	if info.BusinessTaxID, err = s.Open(info.BusinessTaxID); err != nil {
		return info, fmt.Errorf("business tax id: %w", err)
	}
	return info, nil
}
