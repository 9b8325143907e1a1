package api

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contactbook/contacts-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	a, _, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "a@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "starter", user["subscription"])
	assert.Contains(t, user["avatarURL"], "gravatar.com/avatar/")

	// Same email again is a conflict
	w = doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "a@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email in use", decodeBody(t, w)["error"])
}

func TestSignupValidation(t *testing.T) {
	a, _, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "not-an-email", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "b@x.com", "password": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "b@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupMailFailureKeepsUser(t *testing.T) {
	a, m, _ := newTestAPI(t)

	m.fail = true
	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "c@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The row was persisted before the send, so a resend recovers it
	m.fail = false
	w = doJSON(t, a, http.MethodPost, "/verify", gin.H{"email": "c@x.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyEmail(t *testing.T) {
	a, m, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "d@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, a, http.MethodGet, "/verify/definitely-not-a-token", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResendVerification(t *testing.T) {
	a, m, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/verify", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/verify", gin.H{"email": "nobody@x.com"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "e@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, a, http.MethodPost, "/verify", gin.H{"email": "e@x.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Inside the cooldown window
	w = doJSON(t, a, http.MethodPost, "/verify", gin.H{"email": "e@x.com"}, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// The re-issued token still works
	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodPost, "/verify", gin.H{"email": "e@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	a, m, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": "f@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Correct credentials but unverified
	w = doJSON(t, a, http.MethodPost, "/login", gin.H{"email": "f@x.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong password keeps the same message as an unknown user
	w = doJSON(t, a, http.MethodPost, "/login", gin.H{"email": "f@x.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email or password is wrong", decodeBody(t, w)["error"])

	w = doJSON(t, a, http.MethodPost, "/login", gin.H{"email": "ghost@x.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email or password is wrong", decodeBody(t, w)["error"])

	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodPost, "/login", gin.H{"email": "f@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "f@x.com", body["user"].(map[string]any)["email"])
}

func TestLogout(t *testing.T) {
	a, m, _ := newTestAPI(t)
	token := signupAndLogin(t, a, m, "g@x.com", "secret1")

	w := doJSON(t, a, http.MethodGet, "/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The old token no longer matches a live session
	w = doJSON(t, a, http.MethodGet, "/logout", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewLoginInvalidatesOldSession(t *testing.T) {
	a, m, _ := newTestAPI(t)
	first := signupAndLogin(t, a, m, "h@x.com", "secret1")

	w := doJSON(t, a, http.MethodPost, "/login", gin.H{"email": "h@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)["token"].(string)

	w = doJSON(t, a, http.MethodGet, "/contacts", nil, first)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, a, http.MethodGet, "/contacts", nil, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	a, m, _ := newTestAPI(t)
	signupAndLogin(t, a, m, "i@x.com", "secret1")

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "i@x.com").First(&user).Error)

	w := doJSON(t, a, http.MethodGet, "/contacts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, a, http.MethodGet, "/contacts", nil, "garbage.token.here")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correctly signed but expired
	expired, err := makeToken(jwt.MapClaims{
		"id":  user.ID,
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	w = doJSON(t, a, http.MethodGet, "/contacts", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correctly signed and fresh, but not the stored session token.
	// Claims differ from the login-issued ones so the strings can't
	// collide.
	forged, err := makeToken(jwt.MapClaims{
		"id":  user.ID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	w = doJSON(t, a, http.MethodGet, "/contacts", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateSubscription(t *testing.T) {
	a, m, _ := newTestAPI(t)
	token := signupAndLogin(t, a, m, "j@x.com", "secret1")

	w := doJSON(t, a, http.MethodPatch, "/", gin.H{"subscription": "pro"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pro", decodeBody(t, w)["user"].(map[string]any)["subscription"])

	w = doJSON(t, a, http.MethodPatch, "/", gin.H{"subscription": "platinum"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An invalid tier leaves the stored one untouched
	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "j@x.com").First(&user).Error)
	assert.Equal(t, "pro", user.Subscription)
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 5))))

	return buf.Bytes()
}

func doMultipart(t *testing.T, a *API, field, filename string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/avatars", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func TestUpdateAvatar(t *testing.T) {
	a, m, av := newTestAPI(t)
	token := signupAndLogin(t, a, m, "k@x.com", "secret1")

	w := doMultipart(t, a, "avatar", "me.png", testPNG(t), token)
	require.Equal(t, http.StatusOK, w.Code)

	avatarURL := decodeBody(t, w)["avatarURL"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "/avatars/"))
	assert.Contains(t, avatarURL, "me.png")
	assert.Len(t, av.saved, 1)

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "k@x.com").First(&user).Error)
	assert.Equal(t, avatarURL, user.AvatarURL)
}

func TestUpdateAvatarErrors(t *testing.T) {
	a, m, av := newTestAPI(t)
	token := signupAndLogin(t, a, m, "l@x.com", "secret1")

	// No file field at all
	w := doMultipart(t, a, "", "", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not an image
	w = doMultipart(t, a, "avatar", "notes.txt", []byte("hello"), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Storage failure is a 500 distinct from the row update
	av.fail = true
	w = doMultipart(t, a, "avatar", "me.png", testPNG(t), token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to save image", decodeBody(t, w)["error"])
}

func TestUnknownRoute(t *testing.T) {
	a, _, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found this page", decodeBody(t, w)["message"])
}

func TestUploadBodyLimit(t *testing.T) {
	a, m, _ := newTestAPI(t)
	token := signupAndLogin(t, a, m, "n@x.com", "secret1")

	viper.Set("upload.max_size", int64(5<<20))

	big := make([]byte, 6<<20)
	w := doMultipart(t, a, "avatar", "huge.png", big, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
