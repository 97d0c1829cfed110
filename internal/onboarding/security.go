package onboarding

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"tailorcv-backend/internal/shared/cache"
	"tailorcv-backend/internal/shared/telemetry"
)

const (
	rateLimitRequests = 20
	rateLimitWindow   = time.Hour

	tokenBytes = 32
	tokenTTL   = time.Hour

	captchaTTL = 5 * time.Minute
)

// Gate enforces the security checks on anonymous onboarding uploads:
// a fixed-window per-IP rate limit, a one-time demo token, and an
// optional arithmetic CAPTCHA.
type Gate struct {
	Store cache.Store
}

func NewGate(store cache.Store) *Gate {
	return &Gate{Store: store}
}

// IssueToken mints a one-time token valid for an hour.
func (g *Gate) IssueToken(ctx context.Context) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	if err := g.Store.Set(ctx, "token_"+token, "1", tokenTTL); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// ConsumeToken validates and burns a token. A second use fails.
func (g *Gate) ConsumeToken(ctx context.Context, token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	key := "token_" + token
	if _, err := g.Store.Get(ctx, key); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			telemetry.Error("onboarding.token.lookup_failed", map[string]any{"error": err.Error()})
		}
		return false
	}
	if err := g.Store.Delete(ctx, key); err != nil {
		telemetry.Error("onboarding.token.burn_failed", map[string]any{"error": err.Error()})
	}
	return true
}

// GenerateCaptcha creates a single-digit addition challenge and stores
// the answer for five minutes.
func (g *Gate) GenerateCaptcha(ctx context.Context) (string, error) {
	a, err := randDigit()
	if err != nil {
		return "", err
	}
	b, err := randDigit()
	if err != nil {
		return "", err
	}
	challenge := fmt.Sprintf("%d + %d = ?", a, b)
	answer := fmt.Sprintf("%d", a+b)
	if err := g.Store.Set(ctx, "captcha_"+challenge, answer, captchaTTL); err != nil {
		return "", fmt.Errorf("store captcha: %w", err)
	}
	return challenge, nil
}

// ValidateCaptcha compares an answer against the stored one.
func (g *Gate) ValidateCaptcha(ctx context.Context, challenge, answer string) bool {
	stored, err := g.Store.Get(ctx, "captcha_"+challenge)
	if err != nil {
		return false
	}
	return stored == strings.TrimSpace(answer)
}

// CheckRateLimit counts a request against the caller's IP and reports
// whether it is still within the window budget.
func (g *Gate) CheckRateLimit(ctx context.Context, ip string) bool {
	count, err := g.Store.Incr(ctx, "rate_limit_"+ip, rateLimitWindow)
	if err != nil {
		telemetry.Error("onboarding.rate_limit.incr_failed", map[string]any{"error": err.Error()})
		// Fail open: a cache outage should not lock everyone out.
		return true
	}
	return count <= rateLimitRequests
}

// Validate runs every gate check in order and returns the first failure
// message, phrased for the client.
func (g *Gate) Validate(ctx context.Context, ip, token, captchaChallenge, captchaAnswer string) (bool, string) {
	if !g.CheckRateLimit(ctx, ip) {
		telemetry.Warn("onboarding.gate.rate_limited", map[string]any{"ip": ip})
		return false, "Rate limit exceeded. Please try again later."
	}
	if !g.ConsumeToken(ctx, token) {
		telemetry.Warn("onboarding.gate.invalid_token", map[string]any{"ip": ip})
		return false, "Invalid or expired token. Please request a new token."
	}
	if captchaChallenge != "" && captchaAnswer != "" {
		if !g.ValidateCaptcha(ctx, captchaChallenge, captchaAnswer) {
			telemetry.Warn("onboarding.gate.invalid_captcha", map[string]any{"ip": ip})
			return false, "Invalid CAPTCHA answer."
		}
	}
	return true, ""
}

func randDigit() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return 0, fmt.Errorf("generate captcha digit: %w", err)
	}
	return n.Int64(), nil
}
