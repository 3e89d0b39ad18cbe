package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	memoryRepo "homeserve/database/repository/memory"
	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/auth"
	"homeserve/services/otp"
	"homeserve/services/storage"
	"homeserve/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOTP accepts the last issued code per key.
type fakeOTP struct {
	codes  map[string]string
	issued []string
}

func newFakeOTP() *fakeOTP { return &fakeOTP{codes: map[string]string{}} }

func (f *fakeOTP) Issue(_ context.Context, role, purpose, email, _ string) error {
	key := role + ":" + purpose + ":" + strings.ToLower(email)
	f.codes[key] = "123456"
	f.issued = append(f.issued, key)
	return nil
}

func (f *fakeOTP) Verify(_ context.Context, role, purpose, email, code string) error {
	key := role + ":" + purpose + ":" + strings.ToLower(email)
	stored, ok := f.codes[key]
	if !ok {
		return otp.ErrOTPExpired
	}
	if stored != code {
		return otp.ErrOTPInvalid
	}
	delete(f.codes, key)
	return nil
}

type fakeStorage struct{ uploads []string }

func (f *fakeStorage) Upload(_ context.Context, r io.Reader, folder, name, _ string) (storage.UploadedFile, error) {
	if _, err := io.ReadAll(r); err != nil {
		return storage.UploadedFile{}, err
	}
	f.uploads = append(f.uploads, folder+"/"+name)
	return storage.UploadedFile{URL: "https://cdn.test/" + folder + "/" + name, PublicID: folder + "/" + name}, nil
}

func (f *fakeStorage) Delete(context.Context, string, string) error { return nil }

const strongPassword = "Str0ng!pass"

func newTestService() (*DefaultUserService, *fakeOTP) {
	codes := newFakeOTP()
	a := &auth.Authenticator{OTP: codes, TokenTTL: time.Hour}
	return NewUserService(memoryRepo.NewUserRepo(), a, &fakeStorage{}), codes
}

func register(t *testing.T, svc *DefaultUserService, email string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), models.UserRegistrationRequest{
		Name: "Ann", Email: email, PhoneNumber: "+254700000000", Password: strongPassword,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterVerifyAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, codes := newTestService()

	u := register(t, svc, "Ann@Example.com")
	assert.Equal(t, "ann@example.com", u.Email)
	assert.False(t, u.Verified)
	assert.Equal(t, []string{"user:verify:ann@example.com"}, codes.issued)

	_, err := svc.Login(ctx, models.LoginRequest{Email: "ann@example.com", Password: strongPassword})
	var otpErr *apperr.OTPRequiredError
	require.ErrorAs(t, err, &otpErr)
	assert.Equal(t, "verify", otpErr.Purpose)

	_, err = svc.VerifyOTP(ctx, "ann@example.com", "000000")
	assert.ErrorIs(t, err, otp.ErrOTPInvalid)

	res, err := svc.VerifyOTP(ctx, "ann@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.ID)
	assert.NotEmpty(t, res.Token)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ANN@example.com", Password: strongPassword})
	require.NoError(t, err)
	hash, err := svc.TokenHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, utils.HashToken(login.Token), hash)
}

func TestRegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	register(t, svc, "a@b.io")

	_, err := svc.Register(ctx, models.UserRegistrationRequest{Name: "B", Email: "A@b.io", Password: strongPassword})
	var ce *apperr.ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = svc.Register(ctx, models.UserRegistrationRequest{Name: "C", Email: "c@b.io", Password: "weak"})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLoginWrongCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	register(t, svc, "a@b.io")

	_, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.io", Password: "nope"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "who@b.io", Password: strongPassword})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, codes := newTestService()
	u := register(t, svc, "a@b.io")

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@b.io"))
	require.NoError(t, svc.ForgotPassword(ctx, "a@b.io"))
	assert.Contains(t, codes.issued, "user:reset:a@b.io")

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "a@b.io", OTP: "123456", NewPassword: "weak"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	newPassword := "N3w!password"
	require.NoError(t, svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "a@b.io", OTP: "123456", NewPassword: newPassword}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.io", Password: strongPassword})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	res, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.io", Password: newPassword})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.ID)
}

func TestResendOTP(t *testing.T) {
	ctx := context.Background()
	svc, codes := newTestService()
	register(t, svc, "a@b.io")

	require.NoError(t, svc.ResendOTP(ctx, "unknown@b.io", ""))
	require.NoError(t, svc.ResendOTP(ctx, "a@b.io", ""))
	assert.Len(t, codes.issued, 2)

	_, err := svc.VerifyOTP(ctx, "a@b.io", "123456")
	require.NoError(t, err)
	err = svc.ResendOTP(ctx, "a@b.io", otp.PurposeVerify)
	var ce *apperr.ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestProfileUpdatesAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	u := register(t, svc, "a@b.io")

	name, addr := "Ann B", "12 Elm St"
	updated, err := svc.UpdateProfile(ctx, u.ID, models.UserUpdateRequest{Name: &name, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, "12 Elm St", updated.Address)
	assert.Equal(t, "+254700000000", updated.PhoneNumber)

	empty := " "
	_, err = svc.UpdateProfile(ctx, u.ID, models.UserUpdateRequest{Name: &empty})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)

	withAvatar, err := svc.UpdateAvatar(ctx, u.ID, strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/avatars/users/"+u.ID, withAvatar.ProfileImage)

	require.NoError(t, svc.SetFCMToken(ctx, u.ID, "device-token"))

	_, err = svc.ChangePassword(ctx, u.ID, models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "N3w!password"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	res, err := svc.ChangePassword(ctx, u.ID, models.ChangePasswordRequest{CurrentPassword: strongPassword, NewPassword: "N3w!password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	require.NoError(t, svc.Logout(ctx, u.ID))
	hash, err := svc.TokenHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, hash)

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	_, err = svc.GetUserByID(ctx, u.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLoginWithOTP(t *testing.T) {
	ctx := context.Background()
	svc, codes := newTestService()
	u := register(t, svc, "a@b.io")

	_, err := svc.LoginWithOTP(ctx, "nobody@b.io", "123456")
	assert.ErrorIs(t, err, otp.ErrOTPExpired)
	_, err = svc.LoginWithOTP(ctx, "a@b.io", "123456")
	assert.ErrorIs(t, err, otp.ErrOTPExpired, "no login code issued yet")

	require.NoError(t, svc.ResendOTP(ctx, "a@b.io", otp.PurposeLogin))
	assert.Contains(t, codes.issued, "user:login:a@b.io")
	_, err = svc.LoginWithOTP(ctx, "a@b.io", "000000")
	assert.ErrorIs(t, err, otp.ErrOTPInvalid)

	res, err := svc.LoginWithOTP(ctx, "A@b.io", "123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.ID)
	stored, err := svc.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Equal(t, utils.HashToken(res.Token), stored.TokenHash)

	_, err = svc.LoginWithOTP(ctx, "a@b.io", "123456")
	assert.ErrorIs(t, err, otp.ErrOTPExpired, "codes are single use")
}

// staleCacheRepo caches the previous token hash just before each update, as
// an authenticated request reading the account mid-login would.
type staleCacheRepo struct {
	userRepo.UserRepository
	cache *auth.TokenCache
}

func (r *staleCacheRepo) Update(ctx context.Context, u *models.User) error {
	if old, err := r.UserRepository.GetByID(ctx, u.ID); err == nil {
		r.cache.Set(ctx, utils.RoleUser, u.ID, old.TokenHash)
	}
	return r.UserRepository.Update(ctx, u)
}

func TestLoginDropsHashCachedDuringUpdate(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := auth.NewTokenCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	codes := newFakeOTP()
	repo := &staleCacheRepo{UserRepository: memoryRepo.NewUserRepo(), cache: cache}
	svc := NewUserService(repo, &auth.Authenticator{OTP: codes, Cache: cache, TokenTTL: time.Hour}, &fakeStorage{})

	u := register(t, svc, "a@b.io")
	first, err := svc.VerifyOTP(ctx, "a@b.io", "123456")
	require.NoError(t, err)

	second, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.io", Password: strongPassword})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, cached := cache.Get(ctx, utils.RoleUser, u.ID)
	assert.False(t, cached, "a hash cached while the login was being stored must not survive it")
}

type fakeAccountBookings struct {
	calls   []string
	deleted func() bool
}

func (f *fakeAccountBookings) CancelForAccount(_ context.Context, role, id string) (int, error) {
	if f.deleted() {
		return 0, errors.New("account already gone")
	}
	f.calls = append(f.calls, role+":"+id)
	return 1, nil
}

func TestDeleteUserCancelsOpenBookingsFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	u := register(t, svc, "a@b.io")
	bookings := &fakeAccountBookings{deleted: func() bool {
		_, err := svc.GetUserByID(ctx, u.ID)
		return err != nil
	}}
	svc.Bookings = bookings

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	assert.Equal(t, []string{utils.RoleUser + ":" + u.ID}, bookings.calls)
	_, err := svc.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
