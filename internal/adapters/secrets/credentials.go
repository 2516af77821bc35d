package secrets

import (
	"context"
	"fmt"

	"github.com/kevin07696/liqpay-client/internal/adapters/liqpay"
	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
)

// LoadCredentials resolves the merchant key pair from a secret backend.
// The public and private keys live under sibling paths, e.g.
// "liqpay-client/prod/public_key" and "liqpay-client/prod/private_key".
func LoadCredentials(ctx context.Context, sm ports.SecretManagerAdapter, publicKeyPath, privateKeyPath string) (liqpay.Credentials, error) {
	public, err := sm.GetSecret(ctx, publicKeyPath)
	if err != nil {
		return liqpay.Credentials{}, fmt.Errorf("resolve public key: %w", err)
	}

	private, err := sm.GetSecret(ctx, privateKeyPath)
	if err != nil {
		return liqpay.Credentials{}, fmt.Errorf("resolve private key: %w", err)
	}

	return liqpay.NewCredentials(public.Value, private.Value)
}
