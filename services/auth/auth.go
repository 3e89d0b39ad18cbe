// Package auth holds the credential handling shared by client and worker
// accounts: login envelopes, token issuance and revocation.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/otp"
	"homeserve/utils"
)

// Authenticator bundles what account services need to sign accounts in.
type Authenticator struct {
	OTP      otp.OTPService
	Cache    *TokenCache
	Cipher   *utils.PayloadCipher
	TokenTTL time.Duration
}

// ResolveCredentials returns the login email and password, decrypting the
// RSA envelope when the request carries one.
func (a *Authenticator) ResolveCredentials(req models.LoginRequest) (models.Credentials, error) {
	if req.Payload == "" {
		if req.Email == "" || req.Password == "" {
			return models.Credentials{}, apperr.Validation("email", "email and password are required")
		}
		return models.Credentials{Email: strings.TrimSpace(req.Email), Password: req.Password}, nil
	}
	if a.Cipher == nil {
		return models.Credentials{}, apperr.Validation("payload", "encrypted login is not enabled")
	}

	plain, err := a.Cipher.Decrypt(req.Payload)
	if err != nil {
		return models.Credentials{}, apperr.Validation("payload", "could not decrypt login payload")
	}
	var creds models.Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return models.Credentials{}, apperr.Validation("payload", "login payload is not valid JSON")
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return models.Credentials{}, apperr.Validation("payload", "email and password are required")
	}
	return creds, nil
}

// IssueToken signs a new token and returns it together with its hash.
// Callers store the hash on the account and then call Revoke, so a lookup
// racing the write cannot re-cache the previous hash.
func (a *Authenticator) IssueToken(role, id, email string) (string, string, error) {
	ttl := a.TokenTTL
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	token, err := utils.GenerateToken(id, role, email, ttl)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate auth token: %w", err)
	}
	return token, utils.HashToken(token), nil
}

// Revoke drops the cached hash. Call it after the stored hash changed.
func (a *Authenticator) Revoke(ctx context.Context, role, id string) {
	a.Cache.Invalidate(ctx, role, id)
}

// SendOTP issues a code for purpose. A resend cooldown is not an error
// when a code was already sent.
func (a *Authenticator) SendOTP(ctx context.Context, role, purpose, email, name string) error {
	err := a.OTP.Issue(ctx, role, purpose, email, name)
	var cooling *otp.CooldownError
	if errors.As(err, &cooling) {
		return nil
	}
	return err
}
