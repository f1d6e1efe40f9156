package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/KopiTrack/KT-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 6 * time.Hour

// RegisterHandler creates a new user account. Users are immutable after
// creation; there is no update endpoint.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if user.Name == "" || user.Email == "" || user.Password == "" {
		httputil.Fail(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existing User
	if err := db.DB.First(&existing, "email = ?", user.Email).Error; err == nil {
		httputil.Fail(w, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		httputil.Internal(w, err)
		return
	}
	user.PasswordHash = string(hashed)
	user.UUID = uuid.NewString()
	user.Password = ""

	if err := db.DB.Create(&user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			httputil.Fail(w, http.StatusConflict, "Email already registered")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusCreated, map[string]string{
		"uuid":  user.UUID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	var user User
	err := db.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(creds.Email))).Error
	if err != nil {
		httputil.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		httputil.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sessionID := uuid.NewString()

	// One session row per user; a fresh login replaces the old session. The
	// cookie is only set once the session row is safely stored.
	var existing Session
	db.DB.Where("user_id = ?", user.UUID).First(&existing)
	if existing.UserID != "" {
		err = db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: time.Now().Add(sessionTTL),
		}).Error
	} else {
		err = db.DB.Create(&Session{
			SessionID: sessionID,
			UserID:    user.UUID,
			ExpiresAt: time.Now().Add(sessionTTL),
		}).Error
	}
	if err != nil {
		httputil.Internal(w, err)
		return
	}

	http.SetCookie(w, sessionCookie(sessionID, sessionTTL))

	httputil.OK(w, http.StatusOK, map[string]interface{}{
		"uuid":     user.UUID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		httputil.Fail(w, http.StatusUnauthorized, "Couldn't find cookie")
		return
	}

	var session Session
	if err := db.DB.First(&session, "session_id = ?", cookie.Value).Error; err != nil {
		httputil.Fail(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	db.DB.Delete(&session)
	http.SetCookie(w, sessionCookie("", -1))

	httputil.OKWithMessage(w, http.StatusOK, "Logout successful", nil)
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Missing user in context")
		return
	}

	var user User
	if err := db.DB.First(&user, "uuid = ?", userID).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Couldn't find user")
		return
	}

	httputil.OK(w, http.StatusOK, map[string]interface{}{
		"uuid":     user.UUID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})
}

func sessionCookie(value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
	if ttl < 0 {
		c.MaxAge = -1
	}
	return c
}
