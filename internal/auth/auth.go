package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/mulvri/nindo/internal/logger"
)

var Store *sessions.CookieStore

const sessionName = "nindo-session"

// Guard protects the API with a single access password. Self-hosted
// installs on a LAN typically leave it empty, which disables the check.
type Guard struct {
	hash    []byte
	enabled bool
	log     *logger.Log
}

func Init(log *logger.Log) (*Guard, error) {
	Store = sessions.NewCookieStore([]byte(viper.GetString("auth.session_secret")))

	g := &Guard{log: log}

	if hash := viper.GetString("auth.password_hash"); hash != "" {
		g.hash = []byte(hash)
		g.enabled = true
		return g, nil
	}

	if password := viper.GetString("auth.password"); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		g.hash = hash
		g.enabled = true
		log.Warn("auth.password is set in plain text; prefer auth.password_hash")
	}

	return g, nil
}

func (g *Guard) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if g.enabled {
		if err := bcrypt.CompareHashAndPassword(g.hash, []byte(req.Password)); err != nil {
			g.log.Warn("Rejected login attempt")
			http.Error(w, `{"error":"invalid password"}`, http.StatusUnauthorized)
			return
		}
	}

	session, _ := Store.Get(r, sessionName)
	session.Values["authenticated"] = true
	if err := session.Save(r, w); err != nil {
		http.Error(w, `{"error":"failed to save session"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"authenticated": true})
}

func (g *Guard) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, sessionName)
	session.Values["authenticated"] = false
	if err := session.Save(r, w); err != nil {
		http.Error(w, `{"error":"failed to save session"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"authenticated": false})
}

// Middleware rejects unauthenticated requests when a password is configured.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled {
			next.ServeHTTP(w, r)
			return
		}

		session, _ := Store.Get(r, sessionName)
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
