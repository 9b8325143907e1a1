package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"contactbook/contacts-api/internal"
	"contactbook/contacts-api/internal/model"
	"contactbook/contacts-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubMailer struct {
	mu     sync.Mutex
	tokens []string
	fail   bool
}

func (m *stubMailer) SendVerification(token, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errors.New("smtp unreachable")
	}

	m.tokens = append(m.tokens, token)
	return nil
}

func (m *stubMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tokens) == 0 {
		return ""
	}
	return m.tokens[len(m.tokens)-1]
}

type stubAvatars struct {
	saved map[string][]byte
	fail  bool
}

func (s *stubAvatars) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.fail {
		return "", errors.New("disk full")
	}

	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[name] = data

	return "/avatars/" + name, nil
}

func newTestAPI(t *testing.T) (*API, *stubMailer, *stubAvatars) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("storage.type", "local")
	viper.Set("storage.avatar_dir", t.TempDir())
	viper.Set("upload.max_size", int64(5<<20))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Contact{}, model.ResendRequest{}))

	mailer := &stubMailer{}
	avatars := &stubAvatars{}

	a := &API{
		Deps: &internal.Deps{
			DB:      db,
			Argon:   security.New(),
			Mailer:  mailer,
			Avatars: avatars,
		},
	}
	a.Router = a.buildRouter()

	return a, mailer, avatars
}

func doJSON(t *testing.T, a *API, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

// signupAndLogin registers a user, verifies it through the token the
// stub mailer captured and returns a live session token.
func signupAndLogin(t *testing.T, a *API, m *stubMailer, email, password string) string {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, a, http.MethodGet, "/verify/"+m.last(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodPost, "/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code)

	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	return token
}
