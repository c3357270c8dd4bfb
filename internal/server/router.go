package server

import (
	"context"
	"net/http"

	"github.com/paraiso360/paraiso360/internal/auth"
	"github.com/paraiso360/paraiso360/internal/handlers"
	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/middleware"
	"github.com/paraiso360/paraiso360/internal/models"
	"github.com/paraiso360/paraiso360/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth checks that the session user still exists and is active;
	// RequireAdmin additionally checks the role.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ? AND status = ?", uid, models.UserActive).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})
	auth.SetRoleResolver(func(_ context.Context, uid uint) string {
		var user models.User
		if err := db.Select("role").First(&user, uid).Error; err != nil {
			return ""
		}
		return user.Role
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auditSvc := services.NewAuditService(db)
	assignmentSvc := services.NewAssignmentService(db)

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Public wayfinding search (no auth; visitors locate plots)
	wf := handlers.NewWayfindingHandler(db)
	mux.HandleFunc("/wayfinding/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		wf.Search(w, r)
	})

	// Plot endpoints
	ph := handlers.NewPlotHandler(db, assignmentSvc, auditSvc)
	mux.Handle("/plots", staff(listCreate(ph.List, ph.Create)))
	mux.Handle("/plots/get", staff(getOnly(ph.Get)))
	mux.Handle("/plots/update", staff(postOnly(ph.Update)))
	mux.Handle("/plots/assign", staff(postOnly(ph.Assign)))
	mux.Handle("/plots/release", staff(postOnly(ph.Release)))
	mux.Handle("/plots/interments", staff(postOnly(ph.AddInterment)))

	// Client endpoints
	ch := handlers.NewClientHandler(db, auditSvc)
	mux.Handle("/clients", staff(listCreate(ch.List, ch.Create)))
	mux.Handle("/clients/get", staff(getOnly(ch.Get)))
	mux.Handle("/clients/update", staff(postOnly(ch.Update)))

	// Payment endpoints
	payh := handlers.NewPaymentHandler(db, auditSvc)
	mux.Handle("/payments", staff(listCreate(payh.List, payh.Create)))
	mux.Handle("/payments/update", staff(postOnly(payh.Update)))

	// Document metadata endpoints
	dh := handlers.NewDocumentHandler(db, auditSvc)
	mux.Handle("/documents", staff(listCreate(dh.List, dh.Create)))
	mux.Handle("/documents/delete", staff(postOnly(dh.Delete)))

	// Dashboard stats
	dash := handlers.NewDashboardHandler(db)
	mux.Handle("/dashboard/stats", staff(getOnly(dash.Stats)))

	// Profile and notifications
	profile := handlers.NewProfileHandler(db)
	mux.Handle("/profile/password", staff(postOnly(profile.ChangePassword)))
	nh := handlers.NewNotificationHandler(db)
	mux.Handle("/notifications", staff(getOnly(nh.List)))
	mux.Handle("/notifications/read", staff(postOnly(nh.MarkRead)))

	// Admin-only: user management and audit trail
	uh := handlers.NewUserHandler(db, auditSvc)
	mux.Handle("/users", admin(listCreate(uh.List, uh.Create)))
	mux.Handle("/users/update", admin(postOnly(uh.Update)))
	al := handlers.NewAuditLogHandler(db)
	mux.Handle("/audit-logs", admin(getOnly(al.List)))

	return middleware.Recover(middleware.Logging(auth.Middleware(mux)))
}

func staff(next http.Handler) http.Handler { return auth.RequireAuth(next) }
func admin(next http.Handler) http.Handler { return auth.RequireAdmin(next) }

func listCreate(list, create http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
}

func getOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	})
}

func postOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	})
}
