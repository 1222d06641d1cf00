package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vetgateway/models"
)

var ErrTokenExpired = errors.New("token expired")

// ParseCredential resolves the caller identity carried by a clinic API token.
// With a secret the HS256 signature is verified; without one the claims are
// read unverified and opaque tokens are accepted as-is, since the clinic API
// remains the authority on validity.
func ParseCredential(token, secret string) (models.Credential, error) {
	cred := models.Credential{Token: token}
	claims := jwt.MapClaims{}

	if secret != "" {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return cred, ErrTokenExpired
			}
			return cred, fmt.Errorf("verify token: %w", err)
		}
		cred.Verified = true
	} else {
		if strings.Count(token, ".") != 2 {
			return cred, nil
		}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return cred, nil
		}
	}

	cred.Subject = firstClaim(claims, "sub", "nameid", "userId")
	cred.Name = firstClaim(claims, "name", "unique_name", "email")
	cred.Role = firstClaim(claims, "role")
	cred.ClinicID = firstClaim(claims, "clinicId", "clinic_id")
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		cred.ExpiresAt = &t
	}
	if cred.Expired() {
		return cred, ErrTokenExpired
	}
	return cred, nil
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

// TokenLifetime returns the cookie max-age for a credential, defaulting when
// the token carries no expiry.
func TokenLifetime(cred models.Credential) int {
	if cred.ExpiresAt == nil {
		return DefaultMaxAge
	}
	secs := int(time.Until(*cred.ExpiresAt).Seconds())
	if secs <= 0 {
		return DefaultMaxAge
	}
	return secs
}
