// Package address implements the pay:sov: payment-address codec: a 32-byte
// verkey rendered as base58 with a four byte SHA-256d checksum.
package address

import (
	"strings"

	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

const (
	// PaymentMethod is the method name this plugin registers with the host.
	PaymentMethod = "sov"

	// Prefix qualifies every payment address on the wire.
	Prefix = "pay:sov:"

	// VerkeyLength is the raw public key size.
	VerkeyLength = 32

	// bodyLength is the decoded address body: verkey plus checksum.
	bodyLength = VerkeyLength + utils.ChecksumLength
)

// FromVerkey derives the check-summed textual address for a 32-byte public
// key.
func FromVerkey(verkey []byte) (string, error) {
	if len(verkey) != VerkeyLength {
		return "", types.InvalidAddress("verkey must be %d bytes, got %d", VerkeyLength, len(verkey))
	}
	return Prefix + utils.Base58CheckEncode(verkey), nil
}

// VerkeyFromAddress validates a pay:sov: address and returns the embedded
// 32-byte public key. It is the left inverse of FromVerkey.
func VerkeyFromAddress(addr string) ([]byte, error) {
	body, ok := strings.CutPrefix(addr, Prefix)
	if !ok {
		return nil, types.InvalidAddress("address must start with %q", Prefix)
	}

	verkey, err := utils.Base58CheckDecode(body)
	if err != nil {
		return nil, types.InvalidAddress("invalid address body: %v", err)
	}
	if len(verkey) != VerkeyLength {
		return nil, types.InvalidAddress("address payload must be %d bytes, got %d", bodyLength, len(verkey)+utils.ChecksumLength)
	}

	return verkey, nil
}

// VerkeyToBase58 renders a raw verkey in its transport form: plain base58,
// no checksum, no prefix.
func VerkeyToBase58(verkey []byte) string {
	return utils.Base58Encode(verkey)
}

// VerkeyFromBase58 parses the transport form back to raw bytes.
func VerkeyFromBase58(s string) ([]byte, error) {
	verkey, err := utils.Base58Decode(s)
	if err != nil {
		return nil, types.InvalidAddress("invalid verkey encoding: %v", err)
	}
	if len(verkey) != VerkeyLength {
		return nil, types.InvalidAddress("verkey must be %d bytes, got %d", VerkeyLength, len(verkey))
	}
	return verkey, nil
}

// Validate reports whether addr is a well formed pay:sov: address.
func Validate(addr string) error {
	_, err := VerkeyFromAddress(addr)
	return err
}
