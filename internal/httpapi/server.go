// Package httpapi exposes the ledger services as a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/loveeee/ledger/internal/auth"
	"github.com/loveeee/ledger/internal/middleware"
	"github.com/loveeee/ledger/internal/service"
)

// User-facing messages.
const (
	msgExpenseCreated = "Đã thêm chi tiêu"
	msgExpenseUpdated = "Đã cập nhật chi tiêu"
	msgExpenseDeleted = "Đã xóa chi tiêu"
	msgCoupleCreated  = "Đã thiết lập cặp đôi"
	msgCoupleUpdated  = "Đã cập nhật cặp đôi"
	msgInternal       = "Đã xảy ra lỗi, vui lòng thử lại sau"
	msgIdentity       = "Bạn không có quyền thực hiện thao tác này"
	msgLoginRequired  = "Vui lòng đăng nhập"
	msgRateLimited    = "Quá nhiều yêu cầu, vui lòng thử lại sau"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the services into the API.
type Config struct {
	Expenses *service.ExpenseService
	Couples  *service.CoupleService
	Auth     *service.AuthService
	JWT      *auth.JWTManager

	// DB is pinged by /readyz.
	DB Pinger

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// RequireAuth rejects ledger requests without a valid bearer token.
	RequireAuth bool
}

// Server holds the HTTP handlers.
type Server struct {
	expenses    *service.ExpenseService
	couples     *service.CoupleService
	auth        *service.AuthService
	jwt         *auth.JWTManager
	db          Pinger
	metrics     http.Handler
	requireAuth bool
}

// New creates a Server.
func New(cfg Config) *Server {
	return &Server{
		expenses:    cfg.Expenses,
		couples:     cfg.Couples,
		auth:        cfg.Auth,
		jwt:         cfg.JWT,
		db:          cfg.DB,
		metrics:     cfg.Metrics,
		requireAuth: cfg.RequireAuth,
	}
}

// Routes registers every endpoint on a new ServeMux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /expenses", s.identified(s.listExpenses))
	mux.Handle("POST /expenses", s.identified(s.createExpense))
	mux.Handle("PUT /expenses", s.identified(s.updateExpense))
	mux.Handle("DELETE /expenses", s.identified(s.deleteExpense))
	mux.Handle("GET /expenses/summary", s.identified(s.summary))

	mux.Handle("GET /couples", s.identified(s.getCouple))
	mux.Handle("POST /couples", s.identified(s.createCouple))
	mux.Handle("PUT /couples", s.identified(s.updateCouple))

	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)

	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /readyz", s.readyz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	return mux
}

// identified runs the token check for ledger endpoints.
func (s *Server) identified(h http.HandlerFunc) http.Handler {
	if s.jwt == nil {
		return h
	}
	if s.requireAuth {
		return middleware.RequireAuth(s.jwt, unauthorized)(h)
	}
	return middleware.OptionalAuth(s.jwt, unauthorized)(h)
}

func unauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusUnauthorized, msgLoginRequired+": "+err.Error())
}

// RateLimited answers requests rejected by the rate limiter.
func RateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, msgRateLimited)
}

// callerID decides who is acting. A token's user wins; a supplied userId
// that disagrees with it is refused. Without a token the supplied userId is
// trusted unless auth is required.
func (s *Server) callerID(w http.ResponseWriter, r *http.Request, supplied string) (string, bool) {
	tokenUser := middleware.GetUserID(r.Context())
	switch {
	case tokenUser != "" && supplied != "" && supplied != tokenUser:
		writeError(w, http.StatusForbidden, msgIdentity)
		return "", false
	case tokenUser != "":
		return tokenUser, true
	case s.requireAuth:
		writeError(w, http.StatusUnauthorized, msgLoginRequired)
		return "", false
	}
	return supplied, true
}
