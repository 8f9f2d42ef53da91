package ledger

import (
	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// PaymentOperation is the operation body of a payment (fees) request.
// Inputs and outputs keep caller order because the per-input signatures
// cover exactly that ordering. Signatures are attached by the plugin layer
// after the host has produced them, one per input, in input order.
type PaymentOperation struct {
	Type       string         `json:"type"`
	Inputs     []types.Input  `json:"inputs"`
	Outputs    []types.Output `json:"outputs"`
	Signatures []string       `json:"signatures,omitempty"`
}

// NewPaymentRequest builds an unsigned payment envelope from validated
// input and output configs.
func NewPaymentRequest(identifier string, in *types.InputConfig, out *types.OutputConfig) (*Request, error) {
	if err := validateInputs(in.Inputs); err != nil {
		return nil, err
	}
	if err := validateOutputs(out.Outputs); err != nil {
		return nil, err
	}

	return NewRequest(identifier, &PaymentOperation{
		Type:    TypeXfer,
		Inputs:  in.Inputs,
		Outputs: out.Outputs,
	})
}

// SigningPayload is the message each input holder signs: the canonical JSON
// of the two-element array [inputs, outputs], caller order preserved.
func SigningPayload(inputs []types.Input, outputs []types.Output) ([]byte, error) {
	payload, err := utils.JSONMarshal([]interface{}{inputs, outputs})
	if err != nil {
		return nil, types.InvalidStructure("cannot serialize signing payload: %v", err)
	}
	return payload, nil
}

// AttachSignatures sets the per-input signatures on the operation. The host
// must supply exactly one signature per input, in input order.
func (op *PaymentOperation) AttachSignatures(signatures []string) error {
	if len(signatures) != len(op.Inputs) {
		return types.InvalidStructure("expected %d signatures, got %d", len(op.Inputs), len(signatures))
	}
	op.Signatures = signatures
	return nil
}
