package worker

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	memoryRepo "homeserve/database/repository/memory"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/auth"
	"homeserve/services/otp"
	"homeserve/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTP struct{ codes map[string]string }

func (f *fakeOTP) Issue(_ context.Context, role, purpose, email, _ string) error {
	f.codes[role+":"+purpose+":"+strings.ToLower(email)] = "654321"
	return nil
}

func (f *fakeOTP) Verify(_ context.Context, role, purpose, email, code string) error {
	key := role + ":" + purpose + ":" + strings.ToLower(email)
	if f.codes[key] == "" {
		return otp.ErrOTPExpired
	}
	if f.codes[key] != code {
		return otp.ErrOTPInvalid
	}
	delete(f.codes, key)
	return nil
}

type fakeStorage struct {
	resources []string
}

func (f *fakeStorage) Upload(_ context.Context, r io.Reader, folder, name, resource string) (storage.UploadedFile, error) {
	_, _ = io.ReadAll(r)
	f.resources = append(f.resources, resource)
	return storage.UploadedFile{URL: "https://cdn.test/" + folder + "/" + name, PublicID: folder + "/" + name}, nil
}

func (f *fakeStorage) Delete(context.Context, string, string) error { return nil }

const strongPassword = "Str0ng!pass"

func newTestService() (*DefaultWorkerService, *fakeStorage) {
	store := &fakeStorage{}
	a := &auth.Authenticator{OTP: &fakeOTP{codes: map[string]string{}}, TokenTTL: time.Hour}
	return NewWorkerService(memoryRepo.NewWorkerRepo(), a, store), store
}

func registerVerified(t *testing.T, svc *DefaultWorkerService, email, category, city string, vetted bool) *models.Worker {
	t.Helper()
	ctx := context.Background()
	w, err := svc.Register(ctx, models.WorkerRegistrationRequest{
		Name: "Joe", Email: email, PhoneNumber: "+254711111111", Password: strongPassword,
		ServiceCategory: category, Skills: []string{"leaks", " Leaks ", "boilers"}, HourlyRate: 25, City: city,
	})
	require.NoError(t, err)
	_, err = svc.VerifyOTP(ctx, email, "654321")
	require.NoError(t, err)
	if vetted {
		_, err = svc.SetVerified(ctx, w.ID, true)
		require.NoError(t, err)
	}
	return w
}

func TestRegisterValidatesCategoryAndRate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, models.WorkerRegistrationRequest{Name: "J", Email: "j@x.io", Password: strongPassword, ServiceCategory: "astrology", HourlyRate: 10})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "serviceCategory", ve.Field)

	_, err = svc.Register(ctx, models.WorkerRegistrationRequest{Name: "J", Email: "j@x.io", Password: strongPassword, ServiceCategory: "plumbing", HourlyRate: 0})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "hourlyRate", ve.Field)
}

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	w := registerVerified(t, svc, "joe@x.io", "plumbing", "Nairobi", false)
	assert.Equal(t, []string{"leaks", "boilers"}, w.Skills)

	res, err := svc.Login(ctx, models.LoginRequest{Email: "joe@x.io", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "worker", res.Role)

	got, err := svc.GetWorkerByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.False(t, got.Verified)
}

func TestCatalogHidesUnvettedWorkers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	vetted := registerVerified(t, svc, "a@x.io", "plumbing", "Nairobi", true)
	pending := registerVerified(t, svc, "b@x.io", "plumbing", "Nairobi", false)

	res, err := svc.Search(ctx, models.WorkerSearchCriteria{Category: "plumbing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, defaultPageSize, res.Limit)
	require.Len(t, res.Workers, 1)
	assert.Equal(t, vetted.ID, res.Workers[0].ID)

	_, err = svc.GetPublicWorker(ctx, pending.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	pub, err := svc.GetPublicWorker(ctx, vetted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joe", pub.Name)

	_, err = svc.Search(ctx, models.WorkerSearchCriteria{Category: "astrology"})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAvailabilityAndDocuments(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	w := registerVerified(t, svc, "a@x.io", "electrical", "Mombasa", true)

	updated, err := svc.SetAvailability(ctx, w.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	res, err := svc.Search(ctx, models.WorkerSearchCriteria{AvailableOnly: true})
	require.NoError(t, err)
	assert.Empty(t, res.Workers)

	doc, err := svc.AddDocument(ctx, w.ID, "certificate", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "certificate", doc.Type)
	assert.Equal(t, []string{storage.ResourceRaw}, store.resources)

	_, err = svc.AddDocument(ctx, w.ID, "selfie", "image/png", strings.NewReader("png"))
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)

	got, err := svc.GetWorkerByID(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, doc.ID, got.Documents[0].ID)
}

func TestUpdateProfileValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	w := registerVerified(t, svc, "a@x.io", "painting", "Kisumu", false)

	rate := -5.0
	_, err := svc.UpdateProfile(ctx, w.ID, models.WorkerUpdateRequest{HourlyRate: &rate})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)

	bio, newRate := "Ten years of walls", 40.0
	updated, err := svc.UpdateProfile(ctx, w.ID, models.WorkerUpdateRequest{Bio: &bio, HourlyRate: &newRate})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, 40.0, updated.HourlyRate)
}

func TestLoginWithOTP(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	w := registerVerified(t, svc, "joe@x.io", "plumbing", "Nairobi", false)

	_, err := svc.LoginWithOTP(ctx, "joe@x.io", "654321")
	assert.ErrorIs(t, err, otp.ErrOTPExpired)

	require.NoError(t, svc.ResendOTP(ctx, "joe@x.io", otp.PurposeLogin))
	res, err := svc.LoginWithOTP(ctx, "joe@x.io", "654321")
	require.NoError(t, err)
	assert.Equal(t, w.ID, res.ID)
	assert.Equal(t, "worker", res.Role)

	hash, err := svc.TokenHash(ctx, w.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

type fakeAccountBookings struct{ calls []string }

func (f *fakeAccountBookings) CancelForAccount(_ context.Context, role, id string) (int, error) {
	f.calls = append(f.calls, role+":"+id)
	return 0, nil
}

func TestDeleteWorkerCancelsOpenBookings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	w := registerVerified(t, svc, "joe@x.io", "plumbing", "Nairobi", true)
	bookings := &fakeAccountBookings{}
	svc.Bookings = bookings

	require.NoError(t, svc.DeleteWorker(ctx, w.ID))
	assert.Equal(t, []string{"worker:" + w.ID}, bookings.calls)
	_, err := svc.GetWorkerByID(ctx, w.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
