package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/otp"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Validation("email", "bad"), http.StatusBadRequest, "validation"},
		{"conflict", apperr.Conflict("slot_taken", "taken"), http.StatusConflict, "slot_taken"},
		{"otp required", &apperr.OTPRequiredError{Email: "a@b.c", Purpose: "verify"}, http.StatusForbidden, "otp_required"},
		{"cooldown", &otp.CooldownError{RetryAfter: 30 * time.Second}, http.StatusTooManyRequests, "otp_cooldown"},
		{"otp expired", otp.ErrOTPExpired, http.StatusBadRequest, "otp_expired"},
		{"otp attempts", otp.ErrOTPAttemptsExceeded, http.StatusTooManyRequests, "otp_attempts_exceeded"},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrapped not found", errors.Join(errors.New("booking b1"), apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w)["code"])
		})
	}
}

func TestRespondErrorCooldownSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, &otp.CooldownError{RetryAfter: 41500 * time.Millisecond})
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func multipartRequest(t *testing.T, field, filename string, data []byte, extra map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestReadUpload(t *testing.T) {
	run := func(req *http.Request, allowed []string, max int64) (*upload, error) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req
		return readUpload(c, "file", max, allowed)
	}

	got, err := run(multipartRequest(t, "file", "a.png", pngBytes, nil), imageTypes, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)

	_, err = run(multipartRequest(t, "file", "a.png", []byte("just text, renamed"), nil), imageTypes, 1<<20)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "unsupported")

	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	got, err = run(multipartRequest(t, "file", "cert.pdf", pdf, nil), documentTypes, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.MimeType)

	_, err = run(multipartRequest(t, "file", "a.png", pngBytes, nil), imageTypes, 8)
	assert.ErrorAs(t, err, &ve)

	_, err = run(multipartRequest(t, "other", "a.png", pngBytes, nil), imageTypes, 1<<20)
	assert.ErrorAs(t, err, &ve)
}

type fakeReviews struct {
	seen map[string]bool
}

func (f *fakeReviews) Submit(_ context.Context, userID string, req models.ReviewRequest) (*models.Review, bool, error) {
	if req.BookingID == "missing" {
		return nil, false, apperr.ErrNotFound
	}
	created := !f.seen[req.BookingID]
	f.seen[req.BookingID] = true
	return &models.Review{ID: "r-" + req.BookingID, BookingID: req.BookingID, UserID: userID, Rating: req.Rating}, created, nil
}

func (f *fakeReviews) ListMine(context.Context, string) ([]models.Review, error) { return nil, nil }
func (f *fakeReviews) GetByBooking(context.Context, string, string) (*models.Review, error) {
	return nil, apperr.ErrNotFound
}
func (f *fakeReviews) Delete(context.Context, string, string) error { return nil }
func (f *fakeReviews) ListForWorker(context.Context, string, int, int) ([]models.Review, error) {
	return nil, nil
}

func TestSubmitReviewStatusCodes(t *testing.T) {
	h := NewReviewHandler(&fakeReviews{seen: map[string]bool{}})
	r := gin.New()
	r.POST("/api/reviews", func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, "u1")
		c.Next()
	}, h.SubmitReviewHandler)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"bookingId":"b1","rating":4}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", decode(t, w)["userId"])

	assert.Equal(t, http.StatusOK, post(`{"bookingId":"b1","rating":5}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"bookingId":"b1","rating":9}`).Code)
	assert.Equal(t, http.StatusNotFound, post(`{"bookingId":"missing","rating":3}`).Code)
}

func TestSearchWorkersRejectsBadQuery(t *testing.T) {
	h := NewCatalogHandler(nil, nil)
	r := gin.New()
	r.GET("/workers", h.SearchWorkersHandler)

	for _, q := range []string{"page=-1", "limit=x", "minRating=high", "available=maybe"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workers?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}
