// Package plugin is the host-facing edge of the token library: the handler
// table registered with the host SDK, the null-parameter contract, and the
// async bridge that shuttles host results back to callers.
package plugin

import (
	"github.com/sovrin-foundation/sovtoken/config"
	"github.com/sovrin-foundation/sovtoken/hostsdk"
	"github.com/sovrin-foundation/sovtoken/logger"
)

// Plugin binds the handlers to a host SDK instance.
type Plugin struct {
	host hostsdk.Host
	log  logger.Logger
}

// New builds a Plugin against a host. A nil log means silent.
func New(host hostsdk.Host, log logger.Logger) *Plugin {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Plugin{host: host, log: log}
}

// Method returns the handler table to register with the host.
func (p *Plugin) Method() *hostsdk.PaymentMethod {
	return &hostsdk.PaymentMethod{
		CreatePaymentAddress:    p.CreatePaymentAddress,
		ListPaymentAddresses:    p.ListPaymentAddresses,
		AddRequestFees:          p.AddRequestFees,
		ParseResponseWithFees:   p.ParseResponseWithFees,
		BuildGetUtxoRequest:     p.BuildGetUtxoRequest,
		ParseGetUtxoResponse:    p.ParseGetUtxoResponse,
		BuildPaymentReq:         p.BuildPaymentReq,
		ParsePaymentResponse:    p.ParsePaymentResponse,
		BuildMintTxn:            p.BuildMintTxn,
		BuildSetTxnFees:         p.BuildSetTxnFees,
		BuildGetTxnFees:         p.BuildGetTxnFees,
		ParseGetTxnFeesResponse: p.ParseGetTxnFeesResponse,
	}
}

// Init registers the payment method with the host under the configured
// method name and blocks until the host confirms. This is the plugin's
// single entry point, the Go rendering of sovtoken_init.
func Init(host hostsdk.Host, cfg *config.Config, log logger.Logger) hostsdk.ErrorCode {
	if cfg == nil {
		cfg = config.Default()
	}

	p := New(host, log)

	done := make(chan hostsdk.ErrorCode, 1)
	handle, cb := closureToCbEc(func(ec hostsdk.ErrorCode) {
		done <- ec
	})

	if ec := host.RegisterPaymentMethod(handle, cfg.MethodName, p.Method(), cb); ec != hostsdk.Success {
		dropEcCallback(handle)
		return ec
	}
	return <-done
}
