package model

// ExternalIdentity is the normalized result of verifying a token issued
// by a third-party identity provider.
type ExternalIdentity struct {
	ExternalID    string
	Email         string
	EmailVerified bool
	FullName      string
	AvatarURL     string
	Provider      string
}

// Identity is the resolved caller attached to a request after the
// authorization gate allows it. Handlers never see raw credentials.
type Identity struct {
	Username   string
	ExternalID string
	Email      string
}
