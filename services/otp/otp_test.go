package otp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"homeserve/services/notification"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []notification.Email
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg notification.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var codePattern = regexp.MustCompile(`<strong>(\d+)</strong>`)

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	match := codePattern.FindStringSubmatch(m.sent[len(m.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func newTestService(t *testing.T, policy Policy) (*RedisOTPService, *miniredis.Miniredis, *captureMailer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mailer := &captureMailer{}
	return NewRedisOTPService(client, mailer, policy, nil), mr, mailer
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	svc, mr, mailer := newTestService(t, Policy{Length: 6, TTL: 10 * time.Minute, MaxAttempts: 5})

	require.NoError(t, svc.Issue(ctx, "user", PurposeVerify, "Ann@Example.com", "Ann"))
	code := mailer.lastCode(t)
	assert.Len(t, code, 6)
	assert.Equal(t, "Ann@Example.com", mailer.sent[0].To)
	assert.True(t, mr.Exists("otp:user:verify:ann@example.com"))
	assert.Equal(t, 10*time.Minute, mr.TTL("otp:user:verify:ann@example.com"))

	require.NoError(t, svc.Verify(ctx, "user", PurposeVerify, "ann@example.com", code))
	assert.ErrorIs(t, svc.Verify(ctx, "user", PurposeVerify, "ann@example.com", code), ErrOTPExpired)
}

func TestVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()
	svc, mr, mailer := newTestService(t, Policy{Length: 4, TTL: time.Minute, MaxAttempts: 5})

	require.NoError(t, svc.Issue(ctx, "worker", PurposeReset, "w@x.io", ""))
	code := mailer.lastCode(t)
	mr.FastForward(2 * time.Minute)

	assert.ErrorIs(t, svc.Verify(ctx, "worker", PurposeReset, "w@x.io", code), ErrOTPExpired)
}

func TestWrongAttemptsInvalidateCode(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := newTestService(t, Policy{Length: 6, TTL: time.Minute, MaxAttempts: 3})

	require.NoError(t, svc.Issue(ctx, "user", PurposeLogin, "a@b.io", ""))
	code := mailer.lastCode(t)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	assert.ErrorIs(t, svc.Verify(ctx, "user", PurposeLogin, "a@b.io", wrong), ErrOTPInvalid)
	assert.ErrorIs(t, svc.Verify(ctx, "user", PurposeLogin, "a@b.io", wrong), ErrOTPInvalid)
	assert.ErrorIs(t, svc.Verify(ctx, "user", PurposeLogin, "a@b.io", wrong), ErrOTPAttemptsExceeded)
	assert.ErrorIs(t, svc.Verify(ctx, "user", PurposeLogin, "a@b.io", code), ErrOTPExpired)
}

func TestResendCooldown(t *testing.T) {
	ctx := context.Background()
	svc, mr, mailer := newTestService(t, Policy{Length: 6, TTL: time.Minute, MaxAttempts: 5, ResendCooldown: 60 * time.Second})

	require.NoError(t, svc.Issue(ctx, "user", PurposeVerify, "a@b.io", ""))
	err := svc.Issue(ctx, "user", PurposeVerify, "a@b.io", "")
	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, 60*time.Second, cd.RetryAfter)

	mr.FastForward(61 * time.Second)
	require.NoError(t, svc.Issue(ctx, "user", PurposeVerify, "a@b.io", ""))
	assert.Len(t, mailer.sent, 2)

	// Codes for other purposes have their own cooldown.
	require.NoError(t, svc.Issue(ctx, "user", PurposeReset, "a@b.io", ""))
}

func TestMailFailureClearsCooldown(t *testing.T) {
	ctx := context.Background()
	svc, mr, mailer := newTestService(t, Policy{Length: 6, TTL: time.Minute, ResendCooldown: time.Minute})
	mailer.err = errors.New("smtp down")

	assert.Error(t, svc.Issue(ctx, "user", PurposeVerify, "a@b.io", ""))
	assert.False(t, mr.Exists("otp:user:verify:a@b.io:cooldown"))
}

func TestUnknownPurpose(t *testing.T) {
	svc, _, _ := newTestService(t, Policy{})
	assert.ErrorIs(t, svc.Issue(context.Background(), "user", "signup", "a@b.io", ""), ErrUnknownPurpose)
	assert.ErrorIs(t, svc.Verify(context.Background(), "user", "signup", "a@b.io", "1"), ErrUnknownPurpose)
}

func TestGenerateNumericOTP(t *testing.T) {
	code, err := generateNumericOTP(8)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{8}$`, code)
}

func TestRecordAttemptDoesNotRecreateExpiredCode(t *testing.T) {
	ctx := context.Background()
	svc, mr, _ := newTestService(t, Policy{Length: 6, TTL: time.Minute, MaxAttempts: 5})
	key := codeKey("user", PurposeVerify, "a@b.io")

	n, err := svc.recordAttempt(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)
	assert.False(t, mr.Exists(key), "a missing code must stay missing")

	require.NoError(t, svc.Issue(ctx, "user", PurposeVerify, "a@b.io", ""))
	n, err = svc.recordAttempt(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestOTPEmailEscapesName(t *testing.T) {
	msg := otpEmail("a@b.io", `<a href="https://evil.example">Ann</a>`, PurposeVerify, "123456", 10*time.Minute)
	assert.NotContains(t, msg.Body, "<a href")
	assert.Contains(t, msg.Body, "Hi &lt;a href=&#34;https://evil.example&#34;&gt;Ann&lt;/a&gt;,")
	assert.Contains(t, msg.Body, "<strong>123456</strong>")
}
