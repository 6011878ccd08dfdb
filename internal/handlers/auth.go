package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geniusclasses/backend/internal/gate"
	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/requestdata"
	"github.com/geniusclasses/backend/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	gateRegistry *gate.Registry
}

func NewAuthHandler(authService services.AuthService, gateRegistry *gate.Registry) *AuthHandler {
	return &AuthHandler{authService: authService, gateRegistry: gateRegistry}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		GateToken string `json:"gateToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, errors.New("invalid request body"))
		return
	}
	accessToken, refreshToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	// The gate session has served its purpose once the admin is in.
	if req.GateToken != "" {
		ah.gateRegistry.Drop(req.GateToken)
	}
	expiresIn := int(ah.authService.AccessTTL().Seconds())
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    expiresIn,
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "logged out successfully"})
}

// Me confirms the session is still valid and names the signed-in admin.
func (ah *AuthHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, apierr.CodeAuthOther, errors.New("no session"))
		return
	}
	RespondOK(c, gin.H{"userID": rd.UserID})
}
