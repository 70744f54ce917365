package repository

import (
	"context"
	"errors"
)

// Keys under which the dashboard persists the signed-in user.
const (
	KeyAuthToken   = "authToken"
	KeyCurrentUser = "currentUser"
)

var ErrKeyNotFound = errors.New("client state key not found")

// ClientStateStore is the persistent key/value storage that holds the
// credential between page loads.
type ClientStateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
