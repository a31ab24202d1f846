package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/api/metrics"
	"github.com/sp23/transit-system/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create registers a new account. Admin only.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.Request().Context(), caller(c), req.toInput())
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}
