package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/KopiTrack/KT-Backend/internal/utils"
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				httputil.Fail(w, http.StatusUnauthorized, "Couldn't find cookie")
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil {
				httputil.Fail(w, http.StatusUnauthorized, "Couldn't find session")
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				httputil.Fail(w, http.StatusUnauthorized, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:5173":        {},
	"http://localhost:5174":        {},
	"https://kopitrack.github.io":  {},
	"https://dash.kopitrack.id":    {},
	"https://staging.kopitrack.id": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it's on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		w.Header().Set("Access-Control-Expose-Headers", "Retry-After, Cache-Control")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type user struct {
	UUID    string `gorm:"primaryKey"`
	IsAdmin bool
}

func (user) TableName() string { return "users" }

func AdminMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				httputil.Fail(w, http.StatusUnauthorized, "Unauthorized: missing user ID in context")
				return
			}

			var u user
			if err := db.DB.First(&u, "uuid = ?", userID).Error; err != nil {
				httputil.Fail(w, http.StatusUnauthorized, "Unauthorized: user not found")
				return
			}

			if !u.IsAdmin {
				httputil.Fail(w, http.StatusForbidden, "Forbidden: admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
