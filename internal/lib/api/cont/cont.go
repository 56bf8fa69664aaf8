// Package cont carries request-scoped values through context.
package cont

import (
	"context"

	"servihogar/entity"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	deviceKey   contextKey = "device_id"
)

// PutIdentity stores the authenticated identity in the context.
func PutIdentity(ctx context.Context, id *entity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the authenticated identity, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *entity.Identity {
	if id, ok := ctx.Value(identityKey).(*entity.Identity); ok {
		return id
	}
	return nil
}

// PutDeviceID stores the caller's device identifier in the context.
func PutDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceKey, deviceID)
}

// GetDeviceID returns the caller's device identifier, or "".
func GetDeviceID(ctx context.Context) string {
	if d, ok := ctx.Value(deviceKey).(string); ok {
		return d
	}
	return ""
}
