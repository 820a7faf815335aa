package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/middleware"
	"galleria/api/internal/models"
	"galleria/api/internal/service"
)

type adminResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type userResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
	FirebaseUID    string `json:"firebaseUid"`
}

func newAdminResponse(admin models.Admin) adminResponse {
	return adminResponse{ID: admin.ID, Email: admin.Email, Name: admin.Name}
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		ProfilePicture: user.ProfilePicture,
		FirebaseUID:    user.FirebaseUID,
	}
}

type registerAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

func (h HandlerSet) RegisterAdmin(c *gin.Context) {
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, token, err := h.auth.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, middleware.CookieAdminToken, token, h.cfg.Security.AdminTokenTTL)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"admin": newAdminResponse(admin),
	})
}

type loginAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) LoginAdmin(c *gin.Context) {
	var req loginAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, token, err := h.auth.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, middleware.CookieAdminToken, token, h.cfg.Security.AdminTokenTTL)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": newAdminResponse(admin),
	})
}

type loginUserRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

func (h HandlerSet) LoginUser(c *gin.Context) {
	var req loginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.FederatedLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, middleware.CookieUserToken, token, h.cfg.Security.UserTokenTTL)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.clearSessionCookie(c, middleware.CookieAdminToken)
	h.clearSessionCookie(c, middleware.CookieUserToken)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me resolves the caller from whichever session cookie is present, admin
// cookie first.
func (h HandlerSet) Me(c *gin.Context) {
	if token, err := c.Cookie(middleware.CookieAdminToken); err == nil && token != "" {
		admin, err := h.auth.ResolveAdmin(c.Request.Context(), token)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"user": newAdminResponse(admin),
				"role": models.RoleAdmin,
			})
			return
		}
	}

	if token, err := c.Cookie(middleware.CookieUserToken); err == nil && token != "" {
		user, err := h.auth.ResolveUser(c.Request.Context(), token)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"user": newUserResponse(user),
				"role": models.RoleUser,
			})
			return
		}
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, name, token string, ttl time.Duration) {
	secure := h.cfg.Environment == "production"
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, token, int(ttl/time.Second), "/", h.cfg.Security.CookieDomain, secure, true)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context, name string) {
	secure := h.cfg.Environment == "production"
	c.SetCookie(name, "", -1, "/", h.cfg.Security.CookieDomain, secure, true)
}
