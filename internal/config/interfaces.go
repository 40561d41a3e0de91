package config

import "context"

// SecretProvider resolves secret references to plaintext values. The keys
// are the values of *_SECRET_REF variables; the result maps each resolved
// key to its value and omits keys that could not be found.
type SecretProvider interface {
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
