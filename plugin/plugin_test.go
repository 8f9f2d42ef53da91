package plugin

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovrin-foundation/sovtoken/address"
	"github.com/sovrin-foundation/sovtoken/config"
	"github.com/sovrin-foundation/sovtoken/hostsdk"
	"github.com/sovrin-foundation/sovtoken/ledger"
	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

const (
	testDID  = "V4SGRU86Z58d6TV7PBUe6f"
	testSeed = "00000000000000000000000000000000"
)

type cbResult struct {
	handle int32
	ec     hostsdk.ErrorCode
	result *string
}

// collector returns a JSONCallback that records the single delivery.
func collector() (hostsdk.JSONCallback, chan cbResult) {
	ch := make(chan cbResult, 1)
	return func(handle int32, ec hostsdk.ErrorCode, result *string) hostsdk.ErrorCode {
		ch <- cbResult{handle: handle, ec: ec, result: result}
		return hostsdk.Success
	}, ch
}

func await(t *testing.T, ch chan cbResult) cbResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
		return cbResult{}
	}
}

func newTestPlugin() *Plugin {
	return New(hostsdk.NewSimHost(), nil)
}

// walletAddress puts a deterministic key into the simulated wallet and
// returns its payment address.
func walletAddress(t *testing.T, host *hostsdk.SimHost, walletHandle int32, seed string) string {
	t.Helper()

	done := make(chan cbResult, 1)
	ec := host.CreateKey(1, walletHandle, fmt.Sprintf(`{"seed":%q}`, seed), func(_ int32, ec hostsdk.ErrorCode, verkey string) {
		done <- cbResult{ec: ec, result: &verkey}
	})
	require.Equal(t, hostsdk.Success, ec)
	res := <-done
	require.Equal(t, hostsdk.Success, res.ec)

	raw, err := address.VerkeyFromBase58(*res.result)
	require.NoError(t, err)
	addr, err := address.FromVerkey(raw)
	require.NoError(t, err)
	return addr
}

func strptr(s string) *string { return &s }

func TestNilCallbackCodes(t *testing.T) {
	p := newTestPlugin()

	cases := []struct {
		name string
		call func() hostsdk.ErrorCode
		want hostsdk.ErrorCode
	}{
		{"create_payment_address", func() hostsdk.ErrorCode {
			return p.CreatePaymentAddress(1, 7, strptr(`{"seed":""}`), nil)
		}, hostsdk.CommonInvalidParam4},
		{"list_payment_addresses", func() hostsdk.ErrorCode {
			return p.ListPaymentAddresses(1, 7, nil)
		}, hostsdk.CommonInvalidParam3},
		{"build_payment_req", func() hostsdk.ErrorCode {
			return p.BuildPaymentReq(1, 7, strptr(testDID), strptr("{}"), strptr("{}"), nil)
		}, hostsdk.CommonInvalidParam6},
		{"add_request_fees", func() hostsdk.ErrorCode {
			return p.AddRequestFees(1, 7, strptr(testDID), strptr("{}"), strptr("{}"), strptr("{}"), nil)
		}, hostsdk.CommonInvalidParam7},
		{"build_mint_txn", func() hostsdk.ErrorCode {
			return p.BuildMintTxn(1, 7, strptr(testDID), strptr("{}"), nil)
		}, hostsdk.CommonInvalidParam5},
		{"build_set_txn_fees", func() hostsdk.ErrorCode {
			return p.BuildSetTxnFees(1, 7, strptr(testDID), strptr("{}"), nil)
		}, hostsdk.CommonInvalidParam5},
		{"build_get_txn_fees", func() hostsdk.ErrorCode {
			return p.BuildGetTxnFees(1, 7, strptr(testDID), nil)
		}, hostsdk.CommonInvalidParam4},
		{"build_get_utxo_request", func() hostsdk.ErrorCode {
			return p.BuildGetUtxoRequest(1, 7, strptr(testDID), strptr("pay:sov:x"), nil)
		}, hostsdk.CommonInvalidParam5},
		{"parse_get_utxo_response", func() hostsdk.ErrorCode {
			return p.ParseGetUtxoResponse(1, strptr("[]"), nil)
		}, hostsdk.CommonInvalidParam3},
		{"parse_get_txn_fees_response", func() hostsdk.ErrorCode {
			return p.ParseGetTxnFeesResponse(1, strptr("{}"), nil)
		}, hostsdk.CommonInvalidParam3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.call())
		})
	}
}

func TestNullArgumentCodes(t *testing.T) {
	p := newTestPlugin()

	cases := []struct {
		name string
		call func(cb hostsdk.JSONCallback) hostsdk.ErrorCode
		want hostsdk.ErrorCode
	}{
		{"create_payment_address nil config", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.CreatePaymentAddress(1, 7, nil, cb)
		}, hostsdk.CommonInvalidParam3},
		{"build_payment_req nil did", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildPaymentReq(1, 7, nil, strptr("{}"), strptr("{}"), cb)
		}, hostsdk.CommonInvalidParam3},
		{"build_payment_req nil inputs", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildPaymentReq(1, 7, strptr(testDID), nil, strptr("{}"), cb)
		}, hostsdk.CommonInvalidParam4},
		{"build_payment_req nil outputs", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildPaymentReq(1, 7, strptr(testDID), strptr("{}"), nil, cb)
		}, hostsdk.CommonInvalidParam5},
		{"add_request_fees nil req", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.AddRequestFees(1, 7, strptr(testDID), nil, strptr("{}"), strptr("{}"), cb)
		}, hostsdk.CommonInvalidParam4},
		{"build_mint_txn nil outputs", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildMintTxn(1, 7, strptr(testDID), nil, cb)
		}, hostsdk.CommonInvalidParam4},
		{"build_set_txn_fees nil fees", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildSetTxnFees(1, 7, strptr(testDID), nil, cb)
		}, hostsdk.CommonInvalidParam4},
		{"build_get_txn_fees nil did", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildGetTxnFees(1, 7, nil, cb)
		}, hostsdk.CommonInvalidParam3},
		{"build_get_utxo_request nil address", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.BuildGetUtxoRequest(1, 7, strptr(testDID), nil, cb)
		}, hostsdk.CommonInvalidParam4},
		{"parse_get_utxo_response nil resp", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.ParseGetUtxoResponse(1, nil, cb)
		}, hostsdk.CommonInvalidParam2},
		{"parse_get_txn_fees_response nil resp", func(cb hostsdk.JSONCallback) hostsdk.ErrorCode {
			return p.ParseGetTxnFeesResponse(1, nil, cb)
		}, hostsdk.CommonInvalidParam2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cb, ch := collector()
			assert.Equal(t, tc.want, tc.call(cb))

			// Failure is mirrored on the callback with a nil result.
			res := await(t, ch)
			assert.Equal(t, tc.want, res.ec)
			assert.Nil(t, res.result)
		})
	}
}

func TestBuildMintTxn(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	addr := walletAddress(t, host, 7, testSeed)

	cb, ch := collector()
	outputs := fmt.Sprintf(`{"ver":1,"outputs":[{"address":%q,"amount":100}]}`, addr)
	ec := p.BuildMintTxn(1, 7, strptr(testDID), strptr(outputs), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	require.NotNil(t, res.result)
	assert.Contains(t, *res.result, `"type":"10000"`)
	assert.Contains(t, *res.result, fmt.Sprintf(`"address":%q`, addr))
	assert.Contains(t, *res.result, `"protocolVersion":1`)
}

func TestBuildMintTxnRejectsMalformedOutputs(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.BuildMintTxn(1, 7, strptr(testDID), strptr(`{"ver":2,"outputs":[]}`), cb)
	assert.Equal(t, hostsdk.CommonInvalidStructure, ec)
	assert.Equal(t, hostsdk.CommonInvalidStructure, await(t, ch).ec)
}

func TestBuildSetTxnFees(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.BuildSetTxnFees(1, 7, strptr(testDID), strptr(`{"10001":1,"10002":2}`), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	require.NotNil(t, res.result)
	assert.Contains(t, *res.result, `"type":"20000"`)
	assert.Contains(t, *res.result, `"fees":{"10001":1,"10002":2}`)
}

func TestBuildGetTxnFees(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.BuildGetTxnFees(1, 7, strptr(testDID), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	assert.Contains(t, *res.result, `"operation":{"type":"20001"}`)
}

func TestBuildGetUtxoRequest(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	addr := walletAddress(t, host, 7, testSeed)

	cb, ch := collector()
	ec := p.BuildGetUtxoRequest(1, 7, strptr(testDID), strptr(addr), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	assert.Contains(t, *res.result, fmt.Sprintf(`{"address":%q,"type":"10002"}`, addr))
}

func TestBuildGetUtxoRequestRejectsBadAddress(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.BuildGetUtxoRequest(1, 7, strptr(testDID), strptr("pay:sov:bogus"), cb)
	assert.Equal(t, hostsdk.CommonInvalidStructure, ec)
	assert.Equal(t, hostsdk.CommonInvalidStructure, await(t, ch).ec)
}

func TestCreatePaymentAddressDeterministic(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)

	cb, ch := collector()
	ec := p.CreatePaymentAddress(1, 7, strptr(fmt.Sprintf(`{"seed":%q}`, testSeed)), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	require.NotNil(t, res.result)

	// Same seed, same address, independent of wallet handle.
	expected := walletAddress(t, host, 8, testSeed)
	assert.Equal(t, expected, *res.result)
	assert.NoError(t, address.Validate(*res.result))
}

func TestCreatePaymentAddressRejectsBadSeed(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.CreatePaymentAddress(1, 7, strptr(`{"seed":"short"}`), cb)
	assert.Equal(t, hostsdk.CommonInvalidStructure, ec)
	assert.Equal(t, hostsdk.CommonInvalidStructure, await(t, ch).ec)
}

func TestListPaymentAddresses(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	addr := walletAddress(t, host, 7, testSeed)

	cb, ch := collector()
	ec := p.ListPaymentAddresses(1, 7, cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)

	var addresses []string
	require.NoError(t, utils.JSONUnmarshal([]byte(*res.result), &addresses))
	assert.Equal(t, []string{addr}, addresses)
}

func TestBuildPaymentReqSignsEveryInput(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	from := walletAddress(t, host, 7, testSeed)
	to := walletAddress(t, host, 7, "11111111111111111111111111111111")

	inputs := fmt.Sprintf(`{"ver":1,"inputs":[{"address":%q,"seqNo":1}]}`, from)
	outputs := fmt.Sprintf(`{"ver":1,"outputs":[{"address":%q,"amount":10}]}`, to)

	cb, ch := collector()
	ec := p.BuildPaymentReq(1, 7, strptr(testDID), strptr(inputs), strptr(outputs), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	require.NotNil(t, res.result)

	var req struct {
		Operation struct {
			Type       string         `json:"type"`
			Inputs     []types.Input  `json:"inputs"`
			Outputs    []types.Output `json:"outputs"`
			Signatures []string       `json:"signatures"`
		} `json:"operation"`
	}
	require.NoError(t, utils.JSONUnmarshal([]byte(*res.result), &req))
	assert.Equal(t, ledger.TypeXfer, req.Operation.Type)
	require.Len(t, req.Operation.Signatures, 1)

	// The signature verifies against the input's verkey over the canonical
	// [inputs, outputs] payload.
	payload, err := ledger.SigningPayload(req.Operation.Inputs, req.Operation.Outputs)
	require.NoError(t, err)

	verkey, err := address.VerkeyFromAddress(from)
	require.NoError(t, err)
	assert.True(t, hostsdk.Verify(address.VerkeyToBase58(verkey), req.Operation.Signatures[0], payload))
}

func TestBuildPaymentReqUnknownKey(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	// Wallet 7 exists but holds a different key than the input address.
	walletAddress(t, host, 7, testSeed)

	verkey := make([]byte, address.VerkeyLength)
	verkey[0] = 0xEE
	stranger, err := address.FromVerkey(verkey)
	require.NoError(t, err)

	inputs := fmt.Sprintf(`{"ver":1,"inputs":[{"address":%q,"seqNo":1}]}`, stranger)
	outputs := fmt.Sprintf(`{"ver":1,"outputs":[{"address":%q,"amount":10}]}`, stranger)

	cb, ch := collector()
	ec := p.BuildPaymentReq(1, 7, strptr(testDID), strptr(inputs), strptr(outputs), cb)
	require.Equal(t, hostsdk.Success, ec)
	assert.Equal(t, hostsdk.WalletItemNotFound, await(t, ch).ec)
}

func TestAddRequestFees(t *testing.T) {
	host := hostsdk.NewSimHost()
	p := New(host, nil)
	from := walletAddress(t, host, 7, testSeed)

	reqJSON := `{"identifier":"V4SGRU86Z58d6TV7PBUe6f","operation":{"type":"1"}}`
	inputs := fmt.Sprintf(`{"ver":1,"inputs":[{"address":%q,"seqNo":1}]}`, from)
	outputs := fmt.Sprintf(`{"ver":1,"outputs":[{"address":%q,"amount":10}]}`, from)

	cb, ch := collector()
	ec := p.AddRequestFees(1, 7, strptr(testDID), strptr(reqJSON), strptr(inputs), strptr(outputs), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	require.NotNil(t, res.result)

	var req struct {
		Identifier string `json:"identifier"`
		Fees       struct {
			Inputs     []types.Input  `json:"inputs"`
			Outputs    []types.Output `json:"outputs"`
			Signatures []string       `json:"signatures"`
		} `json:"fees"`
	}
	require.NoError(t, utils.JSONUnmarshal([]byte(*res.result), &req))
	// Original request fields survive; the fees block is added.
	assert.Equal(t, testDID, req.Identifier)
	require.Len(t, req.Fees.Inputs, 1)
	assert.Equal(t, from, req.Fees.Inputs[0].Address)
	require.Len(t, req.Fees.Signatures, 1)

	payload, err := ledger.SigningPayload(req.Fees.Inputs, req.Fees.Outputs)
	require.NoError(t, err)
	verkey, err := address.VerkeyFromAddress(from)
	require.NoError(t, err)
	assert.True(t, hostsdk.Verify(address.VerkeyToBase58(verkey), req.Fees.Signatures[0], payload))
}

func TestParseGetUtxoResponseHandler(t *testing.T) {
	p := newTestPlugin()
	addr := "pay:sov:a8QAXMjRwEGoGLmMFEc5sTcntZxEF1BpqAs8GoKFa9Ck81fo7"

	cb, ch := collector()
	resp := fmt.Sprintf(`[{"address":%q,"seqNo":1,"amount":40}]`, addr)
	ec := p.ParseGetUtxoResponse(1, strptr(resp), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	assert.Equal(t, fmt.Sprintf(`[{"address":%q,"seqNo":1,"amount":40}]`, addr), *res.result)
}

func TestParseResponseReqNackMapsToIOError(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.ParsePaymentResponse(1, strptr(`{"op":"REQNACK","reason":"bad request"}`), cb)
	assert.Equal(t, hostsdk.CommonIOError, ec)
	assert.Equal(t, hostsdk.CommonIOError, await(t, ch).ec)
}

func TestParseGetTxnFeesResponseHandler(t *testing.T) {
	p := newTestPlugin()

	cb, ch := collector()
	ec := p.ParseGetTxnFeesResponse(1, strptr(`{"fees":{"10001":1}}`), cb)
	require.Equal(t, hostsdk.Success, ec)

	res := await(t, ch)
	require.Equal(t, hostsdk.Success, res.ec)
	assert.Equal(t, `{"10001":1}`, *res.result)
}

func TestOneShotCallbackPanicsOnReplay(t *testing.T) {
	fired := 0
	handle, cb := closureToCbEcString(func(hostsdk.ErrorCode, string) { fired++ })

	cb(handle, hostsdk.Success, "once")
	assert.Equal(t, 1, fired)
	assert.Panics(t, func() { cb(handle, hostsdk.Success, "twice") })
}

func TestCommandHandlesNeverReused(t *testing.T) {
	a, _ := closureToCbEc(func(hostsdk.ErrorCode) {})
	b, _ := closureToCbEc(func(hostsdk.ErrorCode) {})
	assert.NotEqual(t, a, b)
	dropEcCallback(a)
	dropEcCallback(b)
}

func TestInitRegistersMethod(t *testing.T) {
	host := hostsdk.NewSimHost()

	require.Equal(t, hostsdk.Success, Init(host, nil, nil))
	method := host.Method(config.Default().MethodName)
	require.NotNil(t, method)
	assert.NotNil(t, method.BuildMintTxn)

	// Registering the same method name again is refused by the host.
	assert.Equal(t, hostsdk.CommonInvalidState, Init(host, nil, nil))
}
