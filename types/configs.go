package types

import "github.com/sovrin-foundation/sovtoken/utils"

// SchemaVersion is the only config schema version currently understood.
// Unknown versions are rejected rather than best-effort parsed, so a future
// version can change shape without ambiguity.
const SchemaVersion = 1

// InputConfig is the caller-supplied set of inputs for a payment request.
type InputConfig struct {
	Ver    uint8   `json:"ver" validate:"required,eq=1"`
	Inputs []Input `json:"inputs" validate:"required,min=1"`
}

// OutputConfig is the caller-supplied set of outputs for a payment request.
type OutputConfig struct {
	Ver     uint8    `json:"ver" validate:"required,eq=1"`
	Outputs []Output `json:"outputs" validate:"required,min=1"`
}

// OutputMintConfig is the caller-supplied set of outputs for a mint request.
type OutputMintConfig struct {
	Ver     uint8    `json:"ver" validate:"required,eq=1"`
	Outputs []Output `json:"outputs" validate:"required,min=1"`
}

// PaymentAddressConfig configures payment-address creation. An empty seed
// asks the host wallet for a random key; a non-empty seed must be exactly
// 32 bytes and yields a deterministic address.
type PaymentAddressConfig struct {
	Seed string `json:"seed"`
}

// ParseInputConfig parses and validates an InputConfig from JSON.
func ParseInputConfig(data []byte) (*InputConfig, error) {
	var cfg InputConfig
	if err := utils.ParseAndValidate(data, &cfg); err != nil {
		return nil, structural(err)
	}
	return &cfg, nil
}

// ParseOutputConfig parses and validates an OutputConfig from JSON.
func ParseOutputConfig(data []byte) (*OutputConfig, error) {
	var cfg OutputConfig
	if err := utils.ParseAndValidate(data, &cfg); err != nil {
		return nil, structural(err)
	}
	return &cfg, nil
}

// ParseOutputMintConfig parses and validates an OutputMintConfig from JSON.
func ParseOutputMintConfig(data []byte) (*OutputMintConfig, error) {
	var cfg OutputMintConfig
	if err := utils.ParseAndValidate(data, &cfg); err != nil {
		return nil, structural(err)
	}
	return &cfg, nil
}

// ParseFees parses and validates a fee schedule from JSON.
func ParseFees(data []byte) (Fees, error) {
	var fees Fees
	if err := utils.JSONUnmarshal(data, &fees); err != nil {
		return nil, structural(err)
	}
	if _, err := fees.Total(); err != nil {
		return nil, err
	}
	return fees, nil
}

// ParsePaymentAddressConfig parses a payment-address config from JSON.
func ParsePaymentAddressConfig(data []byte) (*PaymentAddressConfig, error) {
	var cfg PaymentAddressConfig
	if err := utils.JSONUnmarshal(data, &cfg); err != nil {
		return nil, structural(err)
	}
	if n := len(cfg.Seed); n != 0 && n != 32 {
		return nil, InvalidStructure("seed must be empty or exactly 32 bytes, got %d", n)
	}
	return &cfg, nil
}

// structural keeps TokenError codes intact and wraps everything else as
// INVALID_STRUCTURE.
func structural(err error) error {
	if ErrorCodeOf(err) != "" {
		return err
	}
	return InvalidStructure("%v", err)
}
