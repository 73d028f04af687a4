package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/detect"
	"github.com/CreativeUnicorns/themeprefs/encryption"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	server  *Server
	backend *storage.MemoryStorage
	sealer  *encryption.Sealer
}

func newTestEnv(t *testing.T, fallback themeprefs.Detector) *testEnv {
	t.Helper()

	sealer, err := encryption.NewSealer([]byte(strings.Repeat("k", encryption.MinKeyLength)))
	require.NoError(t, err)

	backend := storage.NewMemoryStorage()
	logger := themeprefs.NewSlogLogger(io.Discard, false)
	server, err := NewServer(Config{
		Backend:    backend,
		Sealer:     sealer,
		Fallback:   fallback,
		SessionTTL: time.Minute,
		Logger:     logger,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Registry().Close()
		_ = backend.Close()
	})
	return &testEnv{server: server, backend: backend, sealer: sealer}
}

func (e *testEnv) do(t *testing.T, method, path string, cookie *http.Cookie, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) themeprefs.State {
	t.Helper()
	var st themeprefs.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st), rec.Body.String())
	return st
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func darkHint() http.Header {
	h := http.Header{}
	h.Set(detect.ColorSchemeHint, "dark")
	return h
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)

	_, err = NewServer(Config{Backend: storage.NewMemoryStorage()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestGetTheme_ClientHint(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/theme", nil, darkHint())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, detect.ColorSchemeHint, rec.Header().Get("Accept-CH"))
	assert.Equal(t, themeprefs.State{Preference: themeprefs.PreferenceDark, Initialized: true}, decodeState(t, rec))

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	id, err := env.sealer.Open(cookie.Value)
	require.NoError(t, err)
	v, err := env.backend.Get(context.Background(), id, themeprefs.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestGetTheme_FallbackDetector(t *testing.T) {
	env := newTestEnv(t, detect.Static(true))
	rec := env.do(t, http.MethodGet, "/api/v1/theme", nil, nil)
	assert.Equal(t, themeprefs.PreferenceDark, decodeState(t, rec).Preference)

	env = newTestEnv(t, nil)
	rec = env.do(t, http.MethodGet, "/api/v1/theme", nil, nil)
	assert.Equal(t, themeprefs.PreferenceLight, decodeState(t, rec).Preference)
}

func TestToggle_CookieRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/theme", nil, darkHint())
	cookie := sessionCookie(t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/theme/toggle", cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, themeprefs.State{Preference: themeprefs.PreferenceLight, Initialized: true}, decodeState(t, rec))
	assert.Empty(t, rec.Result().Cookies(), "a valid cookie must not be reissued")

	// A later hint does not override the session's resolved value.
	rec = env.do(t, http.MethodGet, "/api/v1/theme", cookie, darkHint())
	assert.Equal(t, themeprefs.PreferenceLight, decodeState(t, rec).Preference)
	assert.Equal(t, 1, env.server.Registry().Len())

	id, err := env.sealer.Open(cookie.Value)
	require.NoError(t, err)
	v, err := env.backend.Get(context.Background(), id, themeprefs.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestTamperedCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/theme", nil, nil)
	cookie := sessionCookie(t, rec)

	tampered := &http.Cookie{Name: SessionCookie, Value: cookie.Value[:len(cookie.Value)-2] + "xx"}
	rec = env.do(t, http.MethodGet, "/api/v1/theme", tampered, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	fresh := sessionCookie(t, rec)
	assert.NotEqual(t, cookie.Value, fresh.Value)
	assert.Equal(t, 2, env.server.Registry().Len())
}

func TestSealedNonUUIDCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	token, err := env.sealer.Seal("not-a-uuid")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/theme", &http.Cookie{Name: SessionCookie, Value: token}, nil)
	fresh := sessionCookie(t, rec)
	id, err := env.sealer.Open(fresh.Value)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", id)
}

func TestPage(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/", nil, darkHint())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<html class="antialiased dark"`)
	cookie := sessionCookie(t, rec)

	rec = env.do(t, http.MethodPost, "/toggle", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/", cookie, nil)
	assert.Contains(t, rec.Body.String(), `<html class="antialiased"`)
	assert.Contains(t, rec.Body.String(), "<strong id=\"theme\">light</strong>")
}

func TestUnscopedHandler(t *testing.T) {
	t.Cleanup(func() { themeprefs.SetDefaultLogger(nil) })
	themeprefs.SetDefaultLogger(themeprefs.NewSlogLogger(io.Discard, false))

	env := newTestEnv(t, nil)
	for _, h := range []http.HandlerFunc{env.server.handleGetTheme, env.server.handleToggleTheme} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, themeprefs.State{Preference: themeprefs.PreferenceLight}, decodeState(t, rec))
	}
}

func TestRespondWithError(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.server.respondWithError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusBadRequest, "bad", assert.AnError)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad", body["error"]["message"])
	assert.Equal(t, assert.AnError.Error(), body["error"]["details"])
}
