package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/spf13/viper"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/services"
)

var (
	Store *sessions.CookieStore
	users *services.UserService
)

const sessionName = "mindgrid-session"

type contextKey string

const uidKey contextKey = "uid"

func Init(userService *services.UserService) {
	Store = sessions.NewCookieStore([]byte(viper.GetString("auth.session_secret")))
	users = userService
}

// RegisterHandler creates an account and signs the new player in.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := users.CreateUser(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	setSessionUID(w, r, user.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// LoginHandler validates credentials and starts a session.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := users.AuthenticateUser(&req)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	setSessionUID(w, r, user.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, sessionName)
	delete(session.Values, "uid")
	session.Save(r, w)
	w.WriteHeader(http.StatusNoContent)
}

// Middleware resolves the session's uid into the request context. Anonymous
// players pass through with an empty uid; their records stay local-only.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := ""
		if session, err := Store.Get(r, sessionName); err == nil {
			if v, ok := session.Values["uid"].(string); ok {
				uid = v
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), uidKey, uid)))
	})
}

// UID returns the authenticated player's uid, empty for anonymous requests.
func UID(r *http.Request) string {
	if uid, ok := r.Context().Value(uidKey).(string); ok {
		return uid
	}
	return ""
}

func setSessionUID(w http.ResponseWriter, r *http.Request, uid string) {
	session, _ := Store.Get(r, sessionName)
	session.Values["uid"] = uid
	session.Save(r, w)
}
