package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (e.g., the merchant private key)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for retrieving the merchant key
// pair from a secret management service. The client only ever reads
// credentials; rotation and writes are operator concerns outside this
// service.
//
// Path format depends on implementation:
//   - local: relative file path under the secrets directory
//   - AWS: "liqpay-client/{env}/private_key"
//   - Vault: "liqpay-client/{env}" (KV v2 mount-relative)
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name. Returns an error if
	// the secret does not exist, permissions are insufficient, or the
	// backing service is unreachable.
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
