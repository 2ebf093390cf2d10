// Package secret supplies the signing secrets used to issue and validate
// tokens. Validation accepts both the current and the previous secret so
// a rotation never invalidates outstanding tokens before they expire.
package secret

import "context"

// Provider returns the signing secrets known to the process.
type Provider interface {
	// Current returns the secret new tokens are signed with.
	Current(ctx context.Context) (string, error)
	// AllValid returns every secret accepted at validation time,
	// current first.
	AllValid(ctx context.Context) ([]string, error)
}

// EnvProvider serves secrets loaded from configuration. Values are fixed
// for the process lifetime, so it is safe for concurrent readers; a
// rotation is picked up on restart.
type EnvProvider struct {
	current  string
	previous string
}

// NewEnvProvider creates a provider over the configured current and
// previous secrets. previous may be empty when no rotation is in progress.
func NewEnvProvider(current, previous string) *EnvProvider {
	return &EnvProvider{current: current, previous: previous}
}

func (p *EnvProvider) Current(_ context.Context) (string, error) {
	return p.current, nil
}

func (p *EnvProvider) AllValid(_ context.Context) ([]string, error) {
	secrets := []string{p.current}
	if p.previous != "" && p.previous != p.current {
		secrets = append(secrets, p.previous)
	}
	return secrets, nil
}
