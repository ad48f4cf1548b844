package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/snehitv/vidshare-server/internal/auth"
	"github.com/snehitv/vidshare-server/internal/models"
	"github.com/snehitv/vidshare-server/internal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

type MiddlewareHandler struct {
	Logger         *log.Logger
	Tokens         *auth.TokenService
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger *log.Logger, tokens *auth.TokenService, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		Tokens:         tokens,
		AllowedOrigins: allowedOrigins,
	}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// puts the verified caller on the request context. Missing, malformed and
// expired tokens all get the same 401.
func (mh *MiddlewareHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			mh.Logger.Println("Missing Authorization header")
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Access Denied"})
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			mh.Logger.Println("Malformed Authorization header")
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Access Denied"})
			return
		}

		userID, err := mh.Tokens.Validate(tokenStr)
		if err != nil {
			mh.Logger.Println("Invalid token:", err)
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Invalid Token"})
			return
		}

		user := &models.User{ID: userID}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && !mh.isOriginAllowed(origin) {
			mh.Logger.Printf("Origin not allowed: %s", origin)
			utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"message": "Origin not allowed"})
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Expose-Headers", "Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		mh.Logger.Printf("Request: %s %s | Origin: %s",
			r.Method, r.URL.Path, origin)

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) isOriginAllowed(origin string) bool {
	for _, allowedOrigin := range mh.AllowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}

func GetUserFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}
