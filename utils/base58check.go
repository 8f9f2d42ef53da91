package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/mr-tron/base58"
)

// ChecksumLength is the number of SHA-256d bytes appended by base58check.
const ChecksumLength = 4

var (
	ErrInvalidEncoding  = errors.New("invalid base58 encoding")
	ErrChecksumMismatch = errors.New("base58check checksum mismatch")
)

// Checksum returns the first four bytes of SHA-256(SHA-256(data)).
func Checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:ChecksumLength]
}

// Base58Encode encodes arbitrary bytes as base58.
func Base58Encode(data []byte) string {
	return base58.Encode(data)
}

// Base58Decode decodes a base58 string back to bytes.
func Base58Decode(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return decoded, nil
}

// Base58CheckEncode appends a four byte SHA-256d checksum to the payload and
// encodes the whole thing as base58. No version byte is prepended; the
// Sovrin wire formats carry the raw payload plus checksum only.
func Base58CheckEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+ChecksumLength)
	buf = append(buf, payload...)
	buf = append(buf, Checksum(payload)...)
	return base58.Encode(buf)
}

// Base58CheckDecode reverses Base58CheckEncode, verifying the trailing
// checksum in constant time before returning the payload.
func Base58CheckDecode(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if len(decoded) < ChecksumLength {
		return nil, ErrInvalidEncoding
	}

	payload := decoded[:len(decoded)-ChecksumLength]
	checksum := decoded[len(decoded)-ChecksumLength:]

	if subtle.ConstantTimeCompare(Checksum(payload), checksum) != 1 {
		return nil, ErrChecksumMismatch
	}

	return payload, nil
}
