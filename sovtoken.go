// Package sovtoken implements the core of the Sovrin token payment method:
// the pay:sov: address codec, the ledger request builders, and the response
// parsers. The plugin subpackage exposes the same operations through the
// host SDK's callback ABI.
package sovtoken

import (
	"time"

	"github.com/sovrin-foundation/sovtoken/address"
	"github.com/sovrin-foundation/sovtoken/ledger"
	"github.com/sovrin-foundation/sovtoken/logger"
	"github.com/sovrin-foundation/sovtoken/metrics"
	"github.com/sovrin-foundation/sovtoken/parser"
	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// Version information.
const (
	Version         = "1.0.0"
	ProtocolVersion = ledger.ProtocolVersion
	MethodName      = address.PaymentMethod
)

// Sovtoken is the direct Go API over the request builders and response
// parsers. Every method is pure and safe for concurrent use.
type Sovtoken struct {
	log     logger.Logger
	metrics metrics.Recorder
}

// New creates a Sovtoken instance. Defaults are silent: no logging, no
// metrics.
func New(opts ...Option) *Sovtoken {
	s := &Sovtoken{
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildMintTxn builds a mint request envelope from an output-mint config.
func (s *Sovtoken) BuildMintTxn(submitterDID string, outputsJSON []byte) ([]byte, error) {
	start := time.Now()

	cfg, err := types.ParseOutputMintConfig(outputsJSON)
	if err != nil {
		return nil, s.fail("mint", err)
	}
	req, err := ledger.NewMintRequest(submitterDID, cfg)
	if err != nil {
		return nil, s.fail("mint", err)
	}

	return s.finish("mint", req, start)
}

// BuildPaymentRequest builds an unsigned payment request envelope from
// input and output configs. Signatures are the host's job; the signing
// surface is ledger.SigningPayload.
func (s *Sovtoken) BuildPaymentRequest(submitterDID string, inputsJSON, outputsJSON []byte) ([]byte, error) {
	start := time.Now()

	inputs, err := types.ParseInputConfig(inputsJSON)
	if err != nil {
		return nil, s.fail("payment", err)
	}
	outputs, err := types.ParseOutputConfig(outputsJSON)
	if err != nil {
		return nil, s.fail("payment", err)
	}
	req, err := ledger.NewPaymentRequest(submitterDID, inputs, outputs)
	if err != nil {
		return nil, s.fail("payment", err)
	}

	return s.finish("payment", req, start)
}

// BuildSetTxnFees builds a set-fees request envelope from a fee schedule.
func (s *Sovtoken) BuildSetTxnFees(submitterDID string, feesJSON []byte) ([]byte, error) {
	start := time.Now()

	fees, err := types.ParseFees(feesJSON)
	if err != nil {
		return nil, s.fail("set_fees", err)
	}
	req, err := ledger.NewSetFeesRequest(submitterDID, fees)
	if err != nil {
		return nil, s.fail("set_fees", err)
	}

	return s.finish("set_fees", req, start)
}

// BuildGetTxnFees builds a get-fees request envelope.
func (s *Sovtoken) BuildGetTxnFees(submitterDID string) ([]byte, error) {
	start := time.Now()

	req, err := ledger.NewGetFeesRequest(submitterDID)
	if err != nil {
		return nil, s.fail("get_fees", err)
	}
	return s.finish("get_fees", req, start)
}

// BuildGetUtxoRequest builds a get-utxo request envelope for an address.
func (s *Sovtoken) BuildGetUtxoRequest(submitterDID, paymentAddress string) ([]byte, error) {
	start := time.Now()

	req, err := ledger.NewGetUtxoRequest(submitterDID, paymentAddress)
	if err != nil {
		return nil, s.fail("get_utxo", err)
	}
	return s.finish("get_utxo", req, start)
}

// ParseGetUtxoResponse parses a get-utxo response and re-emits the UTXO
// list in canonical form.
func (s *Sovtoken) ParseGetUtxoResponse(respJSON []byte) ([]byte, error) {
	utxos, err := parser.ParseGetUtxoResponse(respJSON)
	if err != nil {
		return nil, s.fail("parse_get_utxo", err)
	}
	return utils.JSONMarshal(utxos)
}

// ParsePaymentResponse parses a payment response and re-emits the UTXO
// list in canonical form.
func (s *Sovtoken) ParsePaymentResponse(respJSON []byte) ([]byte, error) {
	utxos, err := parser.ParsePaymentResponse(respJSON)
	if err != nil {
		return nil, s.fail("parse_payment", err)
	}
	return utils.JSONMarshal(utxos)
}

// ParseGetTxnFeesResponse parses a get-fees response and re-emits the fee
// schedule in canonical form.
func (s *Sovtoken) ParseGetTxnFeesResponse(respJSON []byte) ([]byte, error) {
	fees, err := parser.ParseGetTxnFeesResponse(respJSON)
	if err != nil {
		return nil, s.fail("parse_get_fees", err)
	}
	return utils.JSONMarshal(fees)
}

// CreateAddressFromVerkey derives the pay:sov: address for a raw 32-byte
// public key.
func (s *Sovtoken) CreateAddressFromVerkey(verkey []byte) (string, error) {
	return address.FromVerkey(verkey)
}

// VerkeyFromAddress validates an address and returns its public key.
func (s *Sovtoken) VerkeyFromAddress(addr string) ([]byte, error) {
	return address.VerkeyFromAddress(addr)
}

func (s *Sovtoken) finish(request string, req *ledger.Request, start time.Time) ([]byte, error) {
	data, err := req.Serialize()
	if err != nil {
		return nil, s.fail(request, err)
	}

	s.metrics.IncCounter("request_built", map[string]string{"request": request})
	s.metrics.ObserveLatency("build", time.Since(start), map[string]string{"request": request})
	s.log.Debug("request built", map[string]any{"request": request, "reqId": req.ReqID})
	return data, nil
}

func (s *Sovtoken) fail(request string, err error) error {
	s.metrics.IncCounter("request_failed", map[string]string{"request": request})
	s.log.Error("request failed", map[string]any{"request": request, "error": err.Error()})
	return err
}
