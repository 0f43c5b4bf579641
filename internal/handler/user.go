package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
	"github.com/finbeam/guarantor-intake/internal/repository"
)

// UserHandler exposes the admin-only user directory.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type userResp struct {
	ID              uint64    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name,omitempty"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

type userListResp struct {
	Data  []userResp `json:"data"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// List handles GET /v1/users with optional name substring and exact
// role filters. Paging reuses the same clamping rules as the
// submission listing.
func (h *UserHandler) List(c echo.Context) error {
	var page query.PageRequest
	page.Page, _ = strconv.Atoi(c.QueryParam("page"))
	page.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	spec := query.Resolve(page)

	role := strings.ToUpper(strings.TrimSpace(c.QueryParam("role")))
	if role != "" && role != model.RoleUser && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.List(ctx, c.QueryParam("name"), role, spec.Limit, spec.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	data := make([]userResp, 0, len(users))
	for _, u := range users {
		data = append(data, toUserResp(u))
	}
	return c.JSON(http.StatusOK, userListResp{Data: data, Total: total, Page: spec.Page, Limit: spec.Limit})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
