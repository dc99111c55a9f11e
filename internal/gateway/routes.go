package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gradeboard/internal/auth"
	"gradeboard/internal/gateway/handlers"
	"gradeboard/internal/gateway/util"
	"gradeboard/internal/shared"
	"gradeboard/internal/storage"
)

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(config *shared.Config, store storage.Store, authService *auth.Service) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (Allow the dashboard frontend)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{AuthService: authService}
	uploadHandler := &handlers.UploadHandler{Store: store, Config: config}
	studentHandler := &handlers.StudentHandler{Store: store}
	statsHandler := &handlers.StatsHandler{Store: store}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---

		// Auth
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout) // Logout handles its own token extraction, safe to be public-ish

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			// Inject Auth Middleware
			r.Use(AuthMiddleware(authService))

			// Auth (Authenticated Only)
			r.Get("/auth/validate", authHandler.ValidateToken)

			// Score Data
			r.Post("/upload", uploadHandler.Upload)
			r.Get("/uploads", uploadHandler.ListUploads)
			r.Get("/students", studentHandler.ListStudents)
			r.Get("/stats", statsHandler.GetStats)
		})
	})

	return r
}

// AuthMiddleware creates a middleware that validates JWT tokens via the auth service.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract Token
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			// 2. Validate
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, err := authService.Validate(ctx, tokenStr)
			if err != nil {
				util.HandleServiceError(w, err)
				return
			}

			// 3. Inject User into Context
			// The handlers can now access user details via r.Context().Value("user")
			ctxWithUser := context.WithValue(r.Context(), "user", user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}
