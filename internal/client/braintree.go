package client

import (
	"context"
	"fmt"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"

	"gelato-storefront/internal/config"
)

// CardClient charges cards synchronously through Braintree; the returned
// transaction id becomes the external transaction id reconciliation dedupes on.
type CardClient interface {
	Charge(ctx context.Context, nonce string, amount decimal.Decimal) (string, error)
}

type cardClientImpl struct {
	gateway *braintree.Braintree
}

func NewCardClient(cfg *config.Braintree) CardClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &cardClientImpl{
		gateway: gateway,
	}
}

func (c *cardClientImpl) Charge(ctx context.Context, nonce string, amount decimal.Decimal) (string, error) {
	// Braintree expects NewDecimal(unscaled, scale): 50.00 -> NewDecimal(5000, 2)
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true, // capture immediately
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	return tx.Id, nil
}
