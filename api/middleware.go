package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/detect"
	"github.com/CreativeUnicorns/themeprefs/encryption"
)

// SessionCookie names the cookie carrying the sealed session ID.
const SessionCookie = "themeprefs_session"

const sessionCookieMaxAge = 365 * 24 * 60 * 60

type sessionKey struct{}

// LoggerMiddleware returns a middleware that logs requests using the provided logger.
func LoggerMiddleware(logger themeprefs.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t0 := time.Now()
			defer func() {
				logger.Info("Served request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"latency_ms", float64(time.Since(t0).Microseconds())/1000.0,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// ClientHintMiddleware asks browsers to send their colour-scheme preference
// on subsequent requests.
func ClientHintMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Accept-CH", detect.ColorSchemeHint)
		w.Header().Add("Vary", detect.ColorSchemeHint)
		next.ServeHTTP(w, r)
	})
}

// SessionMiddleware binds each request to a session controller. A missing,
// tampered or malformed cookie starts a new session.
func SessionMiddleware(reg *Registry, sealer *encryption.Sealer, secure bool, logger themeprefs.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionID(r, sealer)
			if !ok {
				id = uuid.NewString()
				token, err := sealer.Seal(id)
				if err != nil {
					logger.Error("Failed to seal session cookie", "error", err)
				} else {
					http.SetCookie(w, &http.Cookie{
						Name:     SessionCookie,
						Value:    token,
						Path:     "/",
						MaxAge:   sessionCookieMaxAge,
						HttpOnly: true,
						Secure:   secure,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}

			sess := reg.Session(r.Context(), id, detect.ClientHint(r))
			ctx := themeprefs.WithController(r.Context(), sess.Controller)
			ctx = context.WithValue(ctx, sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func sessionID(r *http.Request, sealer *encryption.Sealer) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	id, err := sealer.Open(cookie.Value)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// sessionFromContext returns the request's session, if the session
// middleware ran.
func sessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*Session)
	return sess, ok
}
