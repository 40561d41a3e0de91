package config

import (
	"context"
	"os"
)

// EnvVarProvider implements SecretProvider by treating each reference as the
// name of another environment variable. Deployments inject secrets under
// platform-managed names and point the service at them with *_SECRET_REF.
type EnvVarProvider struct {
	lookupEnv envLookup
}

// NewEnvVarProvider creates a new EnvVarProvider.
func NewEnvVarProvider() *EnvVarProvider {
	return &EnvVarProvider{lookupEnv: os.LookupEnv}
}

// GetParametersBatch resolves each key via the environment. Missing keys
// are omitted from the result.
func (p *EnvVarProvider) GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if val, ok := p.lookupEnv(key); ok {
			result[key] = val
		}
	}
	return result, nil
}
