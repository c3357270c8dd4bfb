package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dbpkg "github.com/paraiso360/paraiso360/internal/db"
	"github.com/paraiso360/paraiso360/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPwdDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:pwd_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("OldPass123"), bcrypt.DefaultCost)
	u := models.User{Username: "staffer", Password: string(hash), FullName: "Staff One", Role: models.RoleStaff, Status: models.UserActive}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return db
}

func changePassword(t *testing.T, app http.Handler, sess *http.Cookie, current, next, confirm string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"current":"` + current + `","new":"` + next + `","confirm":"` + confirm + `"}`
	req := httptest.NewRequest(http.MethodPost, "/profile/password", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sess)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func TestPasswordChangeSuccess(t *testing.T) {
	db := setupPwdDB(t)
	app := NewApp(db)
	sess := login(t, app, "staffer", "OldPass123")

	rr := changePassword(t, app, sess, "OldPass123", "NewPass456", "NewPass456")
	if rr.Code != http.StatusOK {
		t.Fatalf("change: %d %s", rr.Code, rr.Body.String())
	}

	// Old password no longer works, the new one does.
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"staffer","password":"OldPass123"}`))
	req.Header.Set("Content-Type", "application/json")
	old := httptest.NewRecorder()
	app.ServeHTTP(old, req)
	if old.Code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: %d", old.Code)
	}
	login(t, app, "staffer", "NewPass456")
}

func TestPasswordChangeWrongCurrent(t *testing.T) {
	db := setupPwdDB(t)
	app := NewApp(db)
	sess := login(t, app, "staffer", "OldPass123")

	rr := changePassword(t, app, sess, "nope", "NewPass456", "NewPass456")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("wrong current: %d, want 400", rr.Code)
	}
}

func TestPasswordChangeMismatchOrShort(t *testing.T) {
	db := setupPwdDB(t)
	app := NewApp(db)
	sess := login(t, app, "staffer", "OldPass123")

	if rr := changePassword(t, app, sess, "OldPass123", "NewPass456", "Different1"); rr.Code != http.StatusBadRequest {
		t.Errorf("mismatch: %d, want 400", rr.Code)
	}
	if rr := changePassword(t, app, sess, "OldPass123", "short", "short"); rr.Code != http.StatusBadRequest {
		t.Errorf("short: %d, want 400", rr.Code)
	}
}
