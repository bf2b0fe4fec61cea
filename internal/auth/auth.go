package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const subjectKey contextKey = "subject"

const cookieName = "session_token"

type Authenv struct {
	JWTkey  []byte
	KeyHash []byte
	TTL     time.Duration
	Logger  *slog.Logger
	now     func() time.Time
}

func NewAuthenv(jwtKey, keyHash string, ttl time.Duration, logger *slog.Logger) *Authenv {
	return &Authenv{JWTkey: []byte(jwtKey), KeyHash: []byte(keyHash), TTL: ttl, Logger: logger, now: time.Now}
}

// limiterIdle is how long an IP may go without a request before its limiter
// is dropped.
const limiterIdle = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*ipLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	clock     clockwork.Clock
	lastSweep time.Time
}

type TokenRequest struct {
	Client    string `json:"client"`
	AccessKey string `json:"access_key"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return newIPRateLimiter(r, b, clockwork.NewRealClock())
}

func newIPRateLimiter(r rate.Limit, b int, clock clockwork.Clock) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*ipLimiter),
		r:         r,
		b:         b,
		clock:     clock,
		lastSweep: clock.Now(),
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.clock.Now()
	if now.Sub(i.lastSweep) >= limiterIdle {
		for k, v := range i.ips {
			if now.Sub(v.lastSeen) >= limiterIdle {
				delete(i.ips, k)
			}
		}
		i.lastSweep = now
	}

	entry, exists := i.ips[ip]
	if !exists {
		entry = &ipLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Len reports how many IPs currently hold a limiter.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// LimitMiddleware rejects requests once the caller's IP exhausts its budget.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		if !i.getLimiter(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, "Too Many Requests. Try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HashKey returns the bcrypt hash to put in ACCESS_KEY_HASH.
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}

// Subject returns the client name the request was authenticated as.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok
}

func (env *Authenv) parse(tokenString string) (string, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	}, jwt.WithTimeFunc(env.clock))
	if err != nil || !token.Valid {
		if err != nil && env.Logger != nil {
			env.Logger.Debug("token rejected", "error", err)
		}
		return "", false
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func (env *Authenv) clock() time.Time {
	if env.now == nil {
		return time.Now()
	}
	return env.now()
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware accepts a JWT from the Authorization header or the session
// cookie and stores its subject in the request context.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearer(r)
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		sub, ok := env.parse(tokenString)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (env *Authenv) issue(client string) (TokenResponse, error) {
	expires := env.clock().Add(env.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   client,
		IssuedAt:  jwt.NewNumericDate(env.clock()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	tokenString, err := token.SignedString(env.JWTkey)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: tokenString, ExpiresAt: expires}, nil
}

func (env *Authenv) addCookie(w http.ResponseWriter, tok TokenResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok.Token,
		Expires:  tok.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenHandler exchanges the shared access key for a signed session token.
func (env *Authenv) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Client = strings.TrimSpace(req.Client)
	if req.Client == "" || req.AccessKey == "" {
		writeError(w, http.StatusBadRequest, "Client and access key required")
		return
	}
	if err := bcrypt.CompareHashAndPassword(env.KeyHash, []byte(req.AccessKey)); err != nil {
		if env.Logger != nil {
			env.Logger.Warn("access key rejected", "client", req.Client)
		}
		writeError(w, http.StatusUnauthorized, "Invalid access key")
		return
	}

	tok, err := env.issue(req.Client)
	if err != nil {
		if env.Logger != nil {
			env.Logger.Error("token signing failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "Token error")
		return
	}
	env.addCookie(w, tok)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tok)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
