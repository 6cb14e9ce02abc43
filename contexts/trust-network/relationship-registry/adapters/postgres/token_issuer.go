package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UUIDTokenIssuer implements ports.TokenIssuer with opaque double-UUID
// tokens. The module never interprets token contents, only expiry.
type UUIDTokenIssuer struct {
	TTL time.Duration
}

func (i UUIDTokenIssuer) Issue(_ context.Context, _ string) (string, time.Time, error) {
	ttl := i.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	token := uuid.NewString() + uuid.NewString()
	return token, time.Now().UTC().Add(ttl), nil
}
