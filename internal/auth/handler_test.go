package auth

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/httputil"
	"account-service/internal/logging"
	"account-service/internal/storage"
)

func newTestHandler(t *testing.T) (*Handler, *fakeUserRepo, string) {
	t.Helper()

	dir := t.TempDir()
	photos, err := storage.NewLocalStore(dir, "http://localhost:5001")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	svc := NewService(repo, newTestPasetoService(t, testKey), logging.NewLogger(true), time.Hour)

	return NewHandler(svc, photos), repo, dir
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body httputil.ErrorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Errors
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	h, repo, _ := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/register", RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pass1234",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Len(t, repo.byEmail, 1)
}

func TestHandler_Register_ValidationErrors(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/register", RegisterRequest{
		Name: "Al", Email: "bad", Password: "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{
		"Name must be at least 3 characters long",
		"Invalid email format",
		"Password must be at least 8 characters long",
		"Password must contain at least one number",
	}, decodeErrors(t, rec))
}

func TestHandler_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	req := RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "pass1234"}
	rec := postJSON(t, h.Register, "/api/register", req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Register, "/api/register", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Email already registered"}, decodeErrors(t, rec))
}

func TestHandler_Register_MultipartWithPhoto(t *testing.T) {
	t.Parallel()

	h, repo, dir := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Ann"))
	require.NoError(t, mw.WriteField("email", "ann@x.com"))
	require.NoError(t, mw.WriteField("password", "pass1234"))
	fw, err := mw.CreateFormFile("photo", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored := repo.byEmail["ann@x.com"]
	require.NotNil(t, stored)
	require.NotNil(t, stored.Photo)
	assert.True(t, strings.HasSuffix(*stored.Photo, ".png"))

	_, err = os.Stat(filepath.Join(dir, *stored.Photo))
	assert.NoError(t, err, "uploaded photo must be on disk")
}

func TestHandler_Register_MultipartInvalidDropsPhoto(t *testing.T) {
	t.Parallel()

	h, _, dir := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Ann"))
	require.NoError(t, mw.WriteField("email", "ann@x.com"))
	require.NoError(t, mw.WriteField("password", "short"))
	fw, err := mw.CreateFormFile("photo", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "photo of a failed registration must not linger")
}

func TestHandler_SignIn(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/register", RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pass1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.SignIn, "/api/signin", SignInRequest{Email: "ann@x.com", Password: "pass1234"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body SignInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Token)
}

func TestHandler_SignIn_InvalidCredentialsShape(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/register", RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pass1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	wrongPassword := postJSON(t, h.SignIn, "/api/signin", SignInRequest{Email: "ann@x.com", Password: "wrong-pass1"})
	unknownEmail := postJSON(t, h.SignIn, "/api/signin", SignInRequest{Email: "nobody@x.com", Password: "pass1234"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"unknown email and wrong password must be indistinguishable")
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Logged out successfully", body.Message)
}
