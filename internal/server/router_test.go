package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paraiso360/paraiso360/internal/auth"
	dbpkg "github.com/paraiso360/paraiso360/internal/db"
	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouterDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:router_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	auth.CreateSession(rec, uid)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func createUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	u := models.User{Username: username, Password: "x", FullName: username, Role: role, Status: models.UserActive}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return u
}

func TestHealthEndpoint(t *testing.T) {
	app := New(setupRouterDB(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}
}

func TestStaffRoutesRequireSession(t *testing.T) {
	app := New(setupRouterDB(t))
	for _, path := range []string{"/plots", "/clients", "/payments", "/documents", "/dashboard/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s without session: %d, want 401", path, rr.Code)
		}
	}
}

func TestWayfindingIsPublic(t *testing.T) {
	app := New(setupRouterDB(t))
	req := httptest.NewRequest(http.MethodGet, "/wayfinding/search?q=rivera", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("public search: %d %s", rr.Code, rr.Body.String())
	}
}

func TestAdminRoutesRejectStaff(t *testing.T) {
	db := setupRouterDB(t)
	app := New(db)
	staff := createUser(t, db, "staffer", models.RoleStaff)

	for _, path := range []string{"/users", "/audit-logs"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(sessionCookie(t, staff.ID))
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("%s as staff: %d, want 403", path, rr.Code)
		}
	}

	// Same paths work for an admin.
	admin := createUser(t, db, "boss", models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(sessionCookie(t, admin.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("/users as admin: %d %s", rr.Code, rr.Body.String())
	}
}

func TestInactiveUserSessionRejected(t *testing.T) {
	db := setupRouterDB(t)
	app := New(db)
	u := createUser(t, db, "gone", models.RoleStaff)
	if err := db.Model(&u).Update("status", models.UserInactive).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/plots", nil)
	req.AddCookie(sessionCookie(t, u.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("inactive user: %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "unauthorized") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := setupRouterDB(t)
	app := New(db)
	staff := createUser(t, db, "staffer", models.RoleStaff)

	req := httptest.NewRequest(http.MethodDelete, "/plots", nil)
	req.AddCookie(sessionCookie(t, staff.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /plots: %d, want 405", rr.Code)
	}
	if rr.Header().Get("Allow") != "GET,POST" {
		t.Errorf("Allow = %q", rr.Header().Get("Allow"))
	}
}
