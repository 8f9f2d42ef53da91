// Package hostsdk declares the contract between the token plugin and the
// identity/ledger host that loads it: the shared error enum, the callback
// shapes, the crypto and wallet services the host provides, and the handler
// table the plugin registers. The numeric error values are part of the
// external ABI and must stay bit-exact.
package hostsdk

// ErrorCode is the host SDK's error enum.
type ErrorCode int32

const (
	Success ErrorCode = 0

	CommonInvalidParam1  ErrorCode = 100
	CommonInvalidParam2  ErrorCode = 101
	CommonInvalidParam3  ErrorCode = 102
	CommonInvalidParam4  ErrorCode = 103
	CommonInvalidParam5  ErrorCode = 104
	CommonInvalidParam6  ErrorCode = 105
	CommonInvalidParam7  ErrorCode = 106
	CommonInvalidParam8  ErrorCode = 107
	CommonInvalidParam9  ErrorCode = 108
	CommonInvalidParam10 ErrorCode = 109
	CommonInvalidParam11 ErrorCode = 110
	CommonInvalidParam12 ErrorCode = 111

	CommonInvalidState     ErrorCode = 112
	CommonInvalidStructure ErrorCode = 113
	CommonIOError          ErrorCode = 114

	WalletInvalidHandle  ErrorCode = 200
	WalletItemNotFound   ErrorCode = 212
	WalletAlreadyExists  ErrorCode = 203
	WalletAccessFailed   ErrorCode = 210
)

// CommonInvalidParam returns the code for the n-th positional parameter,
// counting the command handle as parameter 1.
func CommonInvalidParam(n int) ErrorCode {
	if n < 1 || n > 12 {
		return CommonInvalidState
	}
	return CommonInvalidParam1 + ErrorCode(n-1)
}

// JSONCallback delivers a handler result to the host caller. result is nil
// exactly when err is not Success.
type JSONCallback func(commandHandle int32, err ErrorCode, result *string) ErrorCode

// ECCallback delivers a bare completion code.
type ECCallback func(commandHandle int32, err ErrorCode)

// StringCallback delivers a host-side async result keyed by the command
// handle the plugin allocated for the call.
type StringCallback func(commandHandle int32, err ErrorCode, result string)

// CryptoAPI is the slice of the host's crypto service the plugin needs:
// key creation inside a host wallet and signing with a wallet-held key.
// Both are asynchronous; the result arrives on the supplied callback,
// strictly after the synchronous return.
type CryptoAPI interface {
	// CreateKey creates a signing key in the wallet. configJSON is
	// {"seed": "..."} with an empty or absent seed meaning a random key.
	// The callback receives the base58 verkey.
	CreateKey(commandHandle, walletHandle int32, configJSON string, cb StringCallback) ErrorCode

	// CryptoSign signs message with the key identified by its base58
	// verkey. The callback receives the base58 signature.
	CryptoSign(commandHandle, walletHandle int32, verkey string, message []byte, cb StringCallback) ErrorCode
}

// AddressLister enumerates the payment addresses a wallet holds for this
// payment method.
type AddressLister interface {
	ListAddresses(walletHandle int32) ([]string, ErrorCode)
}

// Handler signatures of the registered payment method. All string inputs
// are nilable pointers so the ABI's null-pointer contract can be expressed.
type (
	CreatePaymentAddressHandler func(commandHandle, walletHandle int32, configJSON *string, cb JSONCallback) ErrorCode
	ListPaymentAddressesHandler func(commandHandle, walletHandle int32, cb JSONCallback) ErrorCode
	AddRequestFeesHandler       func(commandHandle, walletHandle int32, submitterDID, reqJSON, inputsJSON, outputsJSON *string, cb JSONCallback) ErrorCode
	ParseResponseHandler        func(commandHandle int32, respJSON *string, cb JSONCallback) ErrorCode
	BuildPaymentReqHandler      func(commandHandle, walletHandle int32, submitterDID, inputsJSON, outputsJSON *string, cb JSONCallback) ErrorCode
	BuildGetUtxoRequestHandler  func(commandHandle, walletHandle int32, submitterDID, paymentAddress *string, cb JSONCallback) ErrorCode
	BuildSetTxnFeesHandler      func(commandHandle, walletHandle int32, submitterDID, feesJSON *string, cb JSONCallback) ErrorCode
	BuildGetTxnFeesHandler      func(commandHandle, walletHandle int32, submitterDID *string, cb JSONCallback) ErrorCode
	BuildMintTxnHandler         func(commandHandle, walletHandle int32, submitterDID, outputsJSON *string, cb JSONCallback) ErrorCode
)

// PaymentMethod is the handler table a plugin registers with the host.
type PaymentMethod struct {
	CreatePaymentAddress    CreatePaymentAddressHandler
	ListPaymentAddresses    ListPaymentAddressesHandler
	AddRequestFees          AddRequestFeesHandler
	ParseResponseWithFees   ParseResponseHandler
	BuildGetUtxoRequest     BuildGetUtxoRequestHandler
	ParseGetUtxoResponse    ParseResponseHandler
	BuildPaymentReq         BuildPaymentReqHandler
	ParsePaymentResponse    ParseResponseHandler
	BuildMintTxn            BuildMintTxnHandler
	BuildSetTxnFees         BuildSetTxnFeesHandler
	BuildGetTxnFees         BuildGetTxnFeesHandler
	ParseGetTxnFeesResponse ParseResponseHandler
}

// Registrar registers a payment method under a method name. The completion
// code arrives on cb.
type Registrar interface {
	RegisterPaymentMethod(commandHandle int32, methodName string, method *PaymentMethod, cb ECCallback) ErrorCode
}

// Host is everything the plugin needs from the SDK that loads it.
type Host interface {
	CryptoAPI
	AddressLister
	Registrar
}
