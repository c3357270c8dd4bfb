package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/paraiso360/paraiso360/internal/httpx"
	"github.com/paraiso360/paraiso360/internal/models"
	"github.com/paraiso360/paraiso360/internal/services"
	"github.com/paraiso360/paraiso360/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler is the admin-only account management surface.
type UserHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewUserHandler(db *gorm.DB, audit *services.AuditService) *UserHandler {
	return &UserHandler{DB: db, Audit: audit}
}

type userView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	LastLogin any    `json:"last_login"`
}

func toUserView(u models.User) userView {
	v := userView{ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email, Role: u.Role, Status: u.Status}
	if u.LastLogin != nil {
		v.LastLogin = *u.LastLogin
	}
	return v
}

// List: GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("username asc").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Create: POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("username", req.Username, v)
	validation.Required("fullName", req.FullName, v)
	if len(req.Password) < 8 {
		v["password"] = "too_short"
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}
	validation.OneOf("role", req.Role, []string{models.RoleAdmin, models.RoleStaff}, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Password: string(hash),
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		Status:   models.UserActive,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "username_taken", nil)
		return
	}
	if actor, ok := currentUser(h.DB, r); ok {
		h.Audit.Record(actor.ID, actor.Username, "create", "User", strconv.FormatUint(uint64(user.ID), 10))
	}
	httpx.JSON(w, http.StatusCreated, toUserView(user))
}

type updateUserRequest struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Update: POST /users/update – role and status changes; an admin cannot
// deactivate or demote their own account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req updateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	v := validation.Violations{}
	if req.Role != "" {
		validation.OneOf("role", req.Role, []string{models.RoleAdmin, models.RoleStaff}, v)
	}
	if req.Status != "" {
		validation.OneOf("status", req.Status, []string{models.UserActive, models.UserInactive}, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Report())
		return
	}
	if req.ID == actor.ID && ((req.Role != "" && req.Role != models.RoleAdmin) || req.Status == models.UserInactive) {
		httpx.JSONError(w, http.StatusConflict, "cannot_modify_own_access", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	oldRole := user.Role
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if err := h.DB.Save(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_user", nil)
		return
	}
	if oldRole != user.Role {
		h.Audit.RecordChange(actor.ID, actor.Username, "update", "User", strconv.FormatUint(uint64(user.ID), 10), "role", oldRole, user.Role)
	} else {
		h.Audit.Record(actor.ID, actor.Username, "update", "User", strconv.FormatUint(uint64(user.ID), 10))
	}
	httpx.JSON(w, http.StatusOK, toUserView(user))
}
