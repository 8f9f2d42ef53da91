package plugin

import (
	"runtime/debug"

	"github.com/sovrin-foundation/sovtoken/address"
	"github.com/sovrin-foundation/sovtoken/hostsdk"
	"github.com/sovrin-foundation/sovtoken/ledger"
	"github.com/sovrin-foundation/sovtoken/parser"
	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// errorCodeFor maps library errors onto the host enum. Address, encoding
// and structure failures all collapse into CommonInvalidStructure on the
// ABI; the richer code survives in logs only.
func errorCodeFor(err error) hostsdk.ErrorCode {
	switch types.ErrorCodeOf(err) {
	case types.ErrHostError:
		return hostsdk.CommonIOError
	default:
		return hostsdk.CommonInvalidStructure
	}
}

// deliver sends the outcome through the callback and mirrors it as the
// synchronous return, per the ABI: failures are reported both ways, with a
// nil result pointer on the callback.
func deliver(cb hostsdk.JSONCallback, commandHandle int32, result []byte, err error) hostsdk.ErrorCode {
	if err != nil {
		code := errorCodeFor(err)
		cb(commandHandle, code, nil)
		return code
	}
	s := string(result)
	cb(commandHandle, hostsdk.Success, &s)
	return hostsdk.Success
}

// deliverCode is deliver for a pre-mapped host code.
func deliverCode(cb hostsdk.JSONCallback, commandHandle int32, code hostsdk.ErrorCode) hostsdk.ErrorCode {
	cb(commandHandle, code, nil)
	return code
}

// safeGo runs a worker goroutine with a panic guard so a broken host
// callback cannot take the embedding process down silently.
func (p *Plugin) safeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("panic in worker", map[string]any{
					"worker": name,
					"reason": r,
					"stack":  string(debug.Stack()),
				})
			}
		}()
		fn()
	}()
}

// CreatePaymentAddress validates the config synchronously, then asks the
// host wallet for a key and replies with the derived pay:sov: address.
// Null-parameter codes: config=3, cb=4.
func (p *Plugin) CreatePaymentAddress(commandHandle, walletHandle int32, configJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam4
	}
	if configJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}

	if _, err := types.ParsePaymentAddressConfig([]byte(*configJSON)); err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	config := *configJSON

	p.safeGo("create_payment_address", func() {
		bridgeHandle, hostCb := closureToCbEcString(func(ec hostsdk.ErrorCode, verkeyB58 string) {
			if ec != hostsdk.Success {
				cb(commandHandle, ec, nil)
				return
			}
			verkey, err := address.VerkeyFromBase58(verkeyB58)
			if err != nil {
				deliver(cb, commandHandle, nil, err)
				return
			}
			addr, err := address.FromVerkey(verkey)
			if err != nil {
				deliver(cb, commandHandle, nil, err)
				return
			}
			p.log.Debug("payment address created", map[string]any{"wallet": walletHandle})
			cb(commandHandle, hostsdk.Success, &addr)
		})

		if ec := p.host.CreateKey(bridgeHandle, walletHandle, config, hostCb); ec != hostsdk.Success {
			dropEcStringCallback(bridgeHandle)
			cb(commandHandle, ec, nil)
		}
	})

	return hostsdk.Success
}

// ListPaymentAddresses enumerates this method's addresses in the wallet.
// Null-parameter codes: cb=3.
func (p *Plugin) ListPaymentAddresses(commandHandle, walletHandle int32, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam3
	}

	addresses, ec := p.host.ListAddresses(walletHandle)
	if ec != hostsdk.Success {
		return deliverCode(cb, commandHandle, ec)
	}

	result, err := utils.JSONMarshal(addresses)
	if err != nil {
		return deliver(cb, commandHandle, nil, types.InvalidStructure("cannot serialize address list: %v", err))
	}
	return deliver(cb, commandHandle, result, nil)
}

// BuildPaymentReq builds a payment envelope, gathers one host signature per
// input over the canonical (inputs, outputs) payload, and delivers the
// signed request. Null-parameter codes: did=3, inputs=4, outputs=5, cb=6.
func (p *Plugin) BuildPaymentReq(commandHandle, walletHandle int32, submitterDID, inputsJSON, outputsJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam6
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}
	if inputsJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam4)
	}
	if outputsJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam5)
	}

	inputs, err := types.ParseInputConfig([]byte(*inputsJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	outputs, err := types.ParseOutputConfig([]byte(*outputsJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}

	req, err := ledger.NewPaymentRequest(*submitterDID, inputs, outputs)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	op := req.Operation.(*ledger.PaymentOperation)

	payload, err := ledger.SigningPayload(op.Inputs, op.Outputs)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}

	p.safeGo("build_payment_req", func() {
		signatures, ec := p.signInputs(walletHandle, op.Inputs, payload)
		if ec != hostsdk.Success {
			cb(commandHandle, ec, nil)
			return
		}
		if err := op.AttachSignatures(signatures); err != nil {
			deliver(cb, commandHandle, nil, err)
			return
		}
		result, err := req.Serialize()
		if err != nil {
			deliver(cb, commandHandle, nil, err)
			return
		}
		p.log.Debug("payment request built", map[string]any{"inputs": len(op.Inputs), "outputs": len(op.Outputs)})
		deliver(cb, commandHandle, result, nil)
	})

	return hostsdk.Success
}

// signInputs collects one signature per input, in input order, from the
// host wallet.
func (p *Plugin) signInputs(walletHandle int32, inputs []types.Input, payload []byte) ([]string, hostsdk.ErrorCode) {
	type signResult struct {
		ec  hostsdk.ErrorCode
		sig string
	}

	signatures := make([]string, 0, len(inputs))
	for _, in := range inputs {
		verkey, err := address.VerkeyFromAddress(in.Address)
		if err != nil {
			return nil, hostsdk.CommonInvalidStructure
		}

		done := make(chan signResult, 1)
		bridgeHandle, hostCb := closureToCbEcString(func(ec hostsdk.ErrorCode, sig string) {
			done <- signResult{ec: ec, sig: sig}
		})

		ec := p.host.CryptoSign(bridgeHandle, walletHandle, address.VerkeyToBase58(verkey), payload, hostCb)
		if ec != hostsdk.Success {
			dropEcStringCallback(bridgeHandle)
			return nil, ec
		}

		res := <-done
		if res.ec != hostsdk.Success {
			return nil, res.ec
		}
		signatures = append(signatures, res.sig)
	}
	return signatures, hostsdk.Success
}

// AddRequestFees parses inputs and outputs, gathers signatures, and injects
// a fees block into an existing request. Null-parameter codes: did=3,
// req=4, inputs=5, outputs=6, cb=7.
func (p *Plugin) AddRequestFees(commandHandle, walletHandle int32, submitterDID, reqJSON, inputsJSON, outputsJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam7
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}
	if reqJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam4)
	}
	if inputsJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam5)
	}
	if outputsJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam6)
	}

	var request map[string]interface{}
	if err := utils.JSONUnmarshal([]byte(*reqJSON), &request); err != nil {
		return deliver(cb, commandHandle, nil, types.InvalidStructure("request must be a JSON object: %v", err))
	}

	inputs, err := types.ParseInputConfig([]byte(*inputsJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	outputs, err := types.ParseOutputConfig([]byte(*outputsJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}

	payload, err := ledger.SigningPayload(inputs.Inputs, outputs.Outputs)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}

	p.safeGo("add_request_fees", func() {
		signatures, ec := p.signInputs(walletHandle, inputs.Inputs, payload)
		if ec != hostsdk.Success {
			cb(commandHandle, ec, nil)
			return
		}

		request["fees"] = map[string]interface{}{
			"inputs":     inputs.Inputs,
			"outputs":    outputs.Outputs,
			"signatures": signatures,
		}
		result, err := utils.JSONMarshal(request)
		if err != nil {
			deliver(cb, commandHandle, nil, types.InvalidStructure("cannot serialize request with fees: %v", err))
			return
		}
		deliver(cb, commandHandle, result, nil)
	})

	return hostsdk.Success
}

// BuildMintTxn builds a mint envelope. Null-parameter codes: did=3,
// outputs=4, cb=5.
func (p *Plugin) BuildMintTxn(commandHandle, walletHandle int32, submitterDID, outputsJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam5
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}
	if outputsJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam4)
	}

	cfg, err := types.ParseOutputMintConfig([]byte(*outputsJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	req, err := ledger.NewMintRequest(*submitterDID, cfg)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := req.Serialize()
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	return deliver(cb, commandHandle, result, nil)
}

// BuildSetTxnFees builds a set-fees envelope. Null-parameter codes: did=3,
// fees=4, cb=5.
func (p *Plugin) BuildSetTxnFees(commandHandle, walletHandle int32, submitterDID, feesJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam5
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}
	if feesJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam4)
	}

	fees, err := types.ParseFees([]byte(*feesJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	req, err := ledger.NewSetFeesRequest(*submitterDID, fees)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := req.Serialize()
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	return deliver(cb, commandHandle, result, nil)
}

// BuildGetTxnFees builds a get-fees envelope. Null-parameter codes: did=3,
// cb=4.
func (p *Plugin) BuildGetTxnFees(commandHandle, walletHandle int32, submitterDID *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam4
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}

	req, err := ledger.NewGetFeesRequest(*submitterDID)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := req.Serialize()
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	return deliver(cb, commandHandle, result, nil)
}

// BuildGetUtxoRequest builds a get-utxo envelope. Null-parameter codes:
// did=3, address=4, cb=5.
func (p *Plugin) BuildGetUtxoRequest(commandHandle, walletHandle int32, submitterDID, paymentAddress *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam5
	}
	if submitterDID == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam3)
	}
	if paymentAddress == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam4)
	}

	req, err := ledger.NewGetUtxoRequest(*submitterDID, *paymentAddress)
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := req.Serialize()
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	return deliver(cb, commandHandle, result, nil)
}

// ParseGetUtxoResponse parses a get-utxo response into the canonical UTXO
// list. Null-parameter codes: resp=2, cb=3.
func (p *Plugin) ParseGetUtxoResponse(commandHandle int32, respJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	return p.parseUTXOResponse(commandHandle, respJSON, cb)
}

// ParsePaymentResponse parses a payment response into the canonical UTXO
// list. Null-parameter codes: resp=2, cb=3.
func (p *Plugin) ParsePaymentResponse(commandHandle int32, respJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	return p.parseUTXOResponse(commandHandle, respJSON, cb)
}

// ParseResponseWithFees parses a fees-bearing response into the canonical
// UTXO list. Null-parameter codes: resp=2, cb=3.
func (p *Plugin) ParseResponseWithFees(commandHandle int32, respJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	return p.parseUTXOResponse(commandHandle, respJSON, cb)
}

func (p *Plugin) parseUTXOResponse(commandHandle int32, respJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam3
	}
	if respJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam2)
	}

	utxos, err := parser.ParseGetUtxoResponse([]byte(*respJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := utils.JSONMarshal(utxos)
	if err != nil {
		return deliver(cb, commandHandle, nil, types.InvalidStructure("cannot serialize utxo list: %v", err))
	}
	return deliver(cb, commandHandle, result, nil)
}

// ParseGetTxnFeesResponse parses a get-fees response into the canonical
// fee schedule. Null-parameter codes: resp=2, cb=3.
func (p *Plugin) ParseGetTxnFeesResponse(commandHandle int32, respJSON *string, cb hostsdk.JSONCallback) hostsdk.ErrorCode {
	if cb == nil {
		return hostsdk.CommonInvalidParam3
	}
	if respJSON == nil {
		return deliverCode(cb, commandHandle, hostsdk.CommonInvalidParam2)
	}

	fees, err := parser.ParseGetTxnFeesResponse([]byte(*respJSON))
	if err != nil {
		return deliver(cb, commandHandle, nil, err)
	}
	result, err := utils.JSONMarshal(fees)
	if err != nil {
		return deliver(cb, commandHandle, nil, types.InvalidStructure("cannot serialize fees: %v", err))
	}
	return deliver(cb, commandHandle, result, nil)
}
