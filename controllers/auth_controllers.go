package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Login -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var form models.LoginForm
	if !bindJSON(c, &form) {
		return
	}

	result, err := ac.Auth.Login(c.Request.Context(), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

// Register selalu membuat akun dengan role user
func (ac *AuthController) Register(c *gin.Context) {
	var form models.RegisterForm
	if !bindJSON(c, &form) {
		return
	}

	result, err := ac.Auth.Register(c.Request.Context(), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", result)
}

func (ac *AuthController) Me(c *gin.Context) {
	user, _ := middlewares.CurrentUser(c)
	utils.RespondJSON(c, http.StatusOK, "Current user", user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.GetString(middlewares.ContextToken)); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
