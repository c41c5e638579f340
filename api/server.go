/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for the React client
  5. RequireUser: X-User-ID header on every /api route except /ping

ROUTE GROUPS:
  /api/expenses/*       Expense records and summary
  /api/budgets/*        Budgets and the savings simulator
  /api/savings-goals/*  Savings goals
  /api/achievements/*   Achievements and stats
  /api/user-data/*      Financial summary and insights
  /api/scenarios/*      Demo data sets
  /api/ping             Liveness

USER IDENTITY:
  Authentication happens upstream. The caller's identity arrives in the
  X-User-ID header; every record read or written is scoped to it.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

// UserHeader carries the authenticated user's id.
const UserHeader = "X-User-ID"

type userKey struct{}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", UserHeader},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, MessageResponse{Message: "pong"})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.RequireUser)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.ListExpenses)
				r.Post("/", h.CreateExpense)
				r.Get("/summary", h.ExpenseSummary)
				r.Put("/{id}", h.UpdateExpense)
				r.Delete("/{id}", h.DeleteExpense)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", h.ListBudgets)
				r.Post("/", h.CreateBudget)
				r.Post("/simulate", h.Simulate)
				r.Put("/{id}", h.UpdateBudget)
				r.Delete("/{id}", h.DeleteBudget)
			})

			r.Route("/savings-goals", func(r chi.Router) {
				r.Get("/", h.ListGoals)
				r.Post("/", h.CreateGoal)
				r.Put("/{id}", h.UpdateGoal)
				r.Delete("/{id}", h.DeleteGoal)
				r.Post("/{id}/add", h.AddFunds)
			})

			r.Route("/achievements", func(r chi.Router) {
				r.Get("/", h.ListAchievements)
				r.Get("/stats", h.AchievementStats)
				r.Post("/check", h.CheckAchievementsHandler)
			})

			r.Route("/user-data", func(r chi.Router) {
				r.Get("/financial-summary", h.FinancialSummary)
				r.Get("/insights", h.Insights)
			})

			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.ListScenarios)
				r.Get("/current", h.GetCurrentScenario)
				r.Post("/load", h.LoadScenario)
			})
		})
	})

	return r
}

// RequireUser rejects requests without an X-User-ID header and records the
// user so background jobs can find it.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id == "" {
			writeError(w, http.StatusBadRequest, "Missing "+UserHeader+" header", finance.ErrUserRequired)
			return
		}

		userID := finance.UserID(id)
		if err := h.Store.EnsureUser(r.Context(), finance.User{ID: userID, CreatedAt: h.now().UTC()}); err != nil {
			h.fail(w, r, "Error registering user", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// WithUser returns a context carrying the user id.
func WithUser(ctx context.Context, id finance.UserID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

func userFrom(ctx context.Context) finance.UserID {
	id, _ := ctx.Value(userKey{}).(finance.UserID)
	return id
}
