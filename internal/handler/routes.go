package handler

import (
	"net/http"

	"github.com/msomdec/taskdeck/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
//
// Register/login share one rate limit bucket (5 per minute per IP) and
// refresh gets a looser one (10 per minute per IP); all other routes are
// unthrottled.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	tokens *service.TokenService,
	tasks *service.TaskService,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	taskHandler := NewTaskHandler(tasks)

	authLimiter := service.NewTokenBucket(5.0/60.0, 5)
	refreshLimiter := service.NewTokenBucket(10.0/60.0, 10)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /api/auth/register", RateLimit(authLimiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", RateLimit(authLimiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("POST /api/auth/refresh", RateLimit(refreshLimiter, http.HandlerFunc(authHandler.HandleRefresh)))
	mux.Handle("GET /api/auth/me", RequireAuth(tokens, http.HandlerFunc(authHandler.HandleMe)))
	mux.Handle("POST /api/auth/logout", RequireAuth(tokens, http.HandlerFunc(authHandler.HandleLogout)))

	mux.Handle("POST /api/tasks", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleCreate)))
	mux.Handle("GET /api/tasks", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleList)))
	mux.Handle("GET /api/tasks/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleGet)))
	mux.Handle("PUT /api/tasks/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleUpdate)))
	mux.Handle("DELETE /api/tasks/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleDelete)))
}
