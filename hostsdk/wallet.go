package hostsdk

import (
	"crypto/ed25519"
	"crypto/rand"
	"sync"

	"github.com/tyler-smith/go-bip39"

	"github.com/sovrin-foundation/sovtoken/address"
	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// SimHost is an in-memory Host implementation: ed25519 keys held per
// wallet handle, async delivery on goroutines. It stands in for the real
// SDK in tests and examples; the core never depends on it being the
// implementation behind the Host interface.
type SimHost struct {
	mu      sync.Mutex
	wallets map[int32]map[string]ed25519.PrivateKey
	methods map[string]*PaymentMethod
}

// NewSimHost returns an empty simulated host.
func NewSimHost() *SimHost {
	return &SimHost{
		wallets: make(map[int32]map[string]ed25519.PrivateKey),
		methods: make(map[string]*PaymentMethod),
	}
}

func (h *SimHost) CreateKey(commandHandle, walletHandle int32, configJSON string, cb StringCallback) ErrorCode {
	if cb == nil {
		return CommonInvalidParam5
	}

	cfg, err := types.ParsePaymentAddressConfig([]byte(configJSON))
	if err != nil {
		return CommonInvalidStructure
	}

	go func() {
		verkey, ec := h.createKey(walletHandle, cfg.Seed)
		cb(commandHandle, ec, verkey)
	}()
	return Success
}

func (h *SimHost) createKey(walletHandle int32, seed string) (string, ErrorCode) {
	var seedBytes []byte
	if seed == "" {
		seedBytes = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seedBytes); err != nil {
			return "", CommonIOError
		}
	} else {
		seedBytes = []byte(seed)
		if len(seedBytes) != ed25519.SeedSize {
			return "", CommonInvalidStructure
		}
	}

	priv := ed25519.NewKeyFromSeed(seedBytes)
	verkey := utils.Base58Encode(priv.Public().(ed25519.PublicKey))

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.wallets[walletHandle] == nil {
		h.wallets[walletHandle] = make(map[string]ed25519.PrivateKey)
	}
	h.wallets[walletHandle][verkey] = priv

	return verkey, Success
}

// CreateKeyFromMnemonic derives a deterministic key from a BIP-39 seed
// phrase and stores it in the wallet, the way recovery flows restore an
// address. Returns the base58 verkey.
func (h *SimHost) CreateKeyFromMnemonic(walletHandle int32, mnemonic string) (string, ErrorCode) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", CommonInvalidStructure
	}
	seed := bip39.NewSeed(mnemonic, "")
	verkey, ec := h.createKeyFromSeedBytes(walletHandle, seed[:ed25519.SeedSize])
	return verkey, ec
}

func (h *SimHost) createKeyFromSeedBytes(walletHandle int32, seed []byte) (string, ErrorCode) {
	priv := ed25519.NewKeyFromSeed(seed)
	verkey := utils.Base58Encode(priv.Public().(ed25519.PublicKey))

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.wallets[walletHandle] == nil {
		h.wallets[walletHandle] = make(map[string]ed25519.PrivateKey)
	}
	h.wallets[walletHandle][verkey] = priv

	return verkey, Success
}

func (h *SimHost) CryptoSign(commandHandle, walletHandle int32, verkey string, message []byte, cb StringCallback) ErrorCode {
	if cb == nil {
		return CommonInvalidParam6
	}

	h.mu.Lock()
	wallet, ok := h.wallets[walletHandle]
	if !ok {
		h.mu.Unlock()
		return WalletInvalidHandle
	}
	priv, ok := wallet[verkey]
	h.mu.Unlock()

	go func() {
		if !ok {
			cb(commandHandle, WalletItemNotFound, "")
			return
		}
		sig := ed25519.Sign(priv, message)
		cb(commandHandle, Success, utils.Base58Encode(sig))
	}()
	return Success
}

// Verify checks a base58 signature produced by CryptoSign against the
// base58 verkey. Test helper.
func Verify(verkey, signature string, message []byte) bool {
	pub, err := utils.Base58Decode(verkey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := utils.Base58Decode(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

func (h *SimHost) ListAddresses(walletHandle int32) ([]string, ErrorCode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	wallet, ok := h.wallets[walletHandle]
	if !ok {
		return nil, WalletInvalidHandle
	}

	addresses := make([]string, 0, len(wallet))
	for verkey := range wallet {
		raw, err := utils.Base58Decode(verkey)
		if err != nil {
			return nil, CommonInvalidState
		}
		addr, err := address.FromVerkey(raw)
		if err != nil {
			return nil, CommonInvalidState
		}
		addresses = append(addresses, addr)
	}
	return addresses, Success
}

func (h *SimHost) RegisterPaymentMethod(commandHandle int32, methodName string, method *PaymentMethod, cb ECCallback) ErrorCode {
	if method == nil || cb == nil {
		return CommonInvalidParam3
	}

	h.mu.Lock()
	_, exists := h.methods[methodName]
	if !exists {
		h.methods[methodName] = method
	}
	h.mu.Unlock()

	go func() {
		if exists {
			cb(commandHandle, CommonInvalidState)
			return
		}
		cb(commandHandle, Success)
	}()
	return Success
}

// Method returns a registered handler table, for driving the plugin the
// way the host would.
func (h *SimHost) Method(name string) *PaymentMethod {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.methods[name]
}
