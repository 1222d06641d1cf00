package context

import (
	"context"

	"vetgateway/models"
)

type credentialKey struct{}

func NewContextWithCredential(ctx context.Context, cred models.Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

func GetCredentialFromContext(ctx context.Context) (models.Credential, bool) {
	c, ok := ctx.Value(credentialKey{}).(models.Credential)
	return c, ok
}

// ResolveClinicID prefers an explicit clinic id and falls back to the one
// carried by the caller's token. Only for calls the clinic API authorizes.
func ResolveClinicID(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c, ok := GetCredentialFromContext(ctx); ok {
		return c.ClinicID
	}
	return ""
}

// LocalClinicID returns the clinic whose gateway-local records the caller may
// read. It requires a verified token carrying a clinic, and an explicit id
// must name that same clinic.
func LocalClinicID(ctx context.Context, explicit string) (string, bool) {
	c, ok := GetCredentialFromContext(ctx)
	if !ok || !c.Verified || c.ClinicID == "" {
		return "", false
	}
	if explicit != "" && explicit != c.ClinicID {
		return "", false
	}
	return c.ClinicID, true
}
