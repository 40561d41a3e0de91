// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Load .env file via godotenv (non-fatal if absent).
//  2. Scan environment for _SECRET_REF suffix variables.
//  3. If APP_ENV != "local", resolve the references via the SecretProvider
//     and inject the resolved values back into the environment.
//  4. Use envconfig to process struct tags and populate the Config struct.
//  5. Populate BuildInfo from linker-injected variables.
//  6. Validate the struct using go-playground/validator.
//  7. Require both provider keys unless stub providers are in use.
package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// secretRefSuffix marks pointer variables. GEOAPIFY_API_KEY_SECRET_REF names
// the provider key that holds GEOAPIFY_API_KEY.
const secretRefSuffix = "_SECRET_REF"

// localEnv is the APP_ENV value that bypasses secret resolution and runs
// against stub providers.
const localEnv = "local"

const secretResolutionTimeout = 10 * time.Second

type envLookup func(key string) (string, bool)

type envSet func(key, value string) error

type environ func() []string

// loaderDeps holds the injectable dependencies for the loader so tests do
// not mutate global state.
type loaderDeps struct {
	lookupEnv envLookup
	setEnv    envSet
	environ   environ
}

func defaultDeps() loaderDeps {
	return loaderDeps{
		lookupEnv: os.LookupEnv,
		setEnv:    os.Setenv,
		environ:   os.Environ,
	}
}

// LoadConfig loads and validates the service configuration.
//
// The provider resolves _SECRET_REF variables outside local mode. It may be
// nil when no references are present.
func LoadConfig(provider SecretProvider) (*Config, error) {
	return loadConfigWithDeps(provider, defaultDeps())
}

func loadConfigWithDeps(provider SecretProvider, deps loaderDeps) (*Config, error) {
	// godotenv.Load does NOT override existing environment variables.
	_ = godotenv.Load()

	appEnv, _ := deps.lookupEnv("APP_ENV")
	if appEnv != localEnv {
		if err := resolveSecretRefs(provider, deps); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	if !cfg.UsesStubProviders() {
		if missing := cfg.missingProviderKeys(); len(missing) > 0 {
			return nil, &ConfigError{
				Type:    ErrValidation,
				Message: fmt.Sprintf("provider keys are required in %s: %s", cfg.Environment, strings.Join(missing, ", ")),
			}
		}
	}

	return &cfg, nil
}

// resolveSecretRefs fetches the value behind every *_SECRET_REF variable and
// sets the target variable. A target that is already set wins over its
// reference (Env > SecretProvider).
func resolveSecretRefs(provider SecretProvider, deps loaderDeps) error {
	refToTarget := make(map[string]string)
	var targets []string

	for _, entry := range deps.environ() {
		eqIdx := strings.IndexByte(entry, '=')
		if eqIdx < 0 {
			continue
		}
		key := entry[:eqIdx]
		if !strings.HasSuffix(key, secretRefSuffix) {
			continue
		}

		target := strings.TrimSuffix(key, secretRefSuffix)
		if _, exists := deps.lookupEnv(target); exists {
			continue
		}
		ref := entry[eqIdx+1:]
		if ref == "" {
			continue
		}
		refToTarget[ref] = target
		targets = append(targets, target)
	}

	if len(refToTarget) == 0 {
		return nil
	}
	sort.Strings(targets)

	if provider == nil {
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("SecretProvider is required to resolve: %s", strings.Join(targets, ", ")),
		}
	}

	refs := make([]string, 0, len(refToTarget))
	for ref := range refToTarget {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	ctx, cancel := context.WithTimeout(context.Background(), secretResolutionTimeout)
	defer cancel()

	resolved, err := provider.GetParametersBatch(ctx, refs)
	if err != nil {
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("failed to resolve %d secret references", len(refs)),
			Err:     err,
		}
	}

	var missing []string
	for _, ref := range refs {
		target := refToTarget[ref]
		value, ok := resolved[ref]
		if !ok {
			missing = append(missing, target)
			continue
		}
		if err := deps.setEnv(target, value); err != nil {
			return &ConfigError{
				Type:    ErrSecretResolution,
				Message: fmt.Sprintf("failed to set resolved value for %s", target),
				Err:     err,
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("secret references not found for: %s", strings.Join(missing, ", ")),
		}
	}

	return nil
}
