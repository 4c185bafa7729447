package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/auth"
	"taskboard/internal/entity"
	"taskboard/internal/service"
)

// Signup registers a new account and returns a token pair.
func (h *HTTPHandler) Signup(c *gin.Context) {
	if !h.cfg.AllowSignup {
		ErrorResponse(c, http.StatusForbidden, ErrCodeRegistrationClosed, "registration is closed")
		return
	}

	var req entity.AuthSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.authService.Signup(ctx, req, clientInfo(c))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			Conflict(c, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("signup failed")
		InternalError(c, "failed to create account")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a token pair.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.authService.Login(ctx, req, clientInfo(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
			return
		}
		logrus.WithError(err).Error("login failed")
		InternalError(c, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token into a new token pair.
func (h *HTTPHandler) Refresh(c *gin.Context) {
	var req entity.AuthRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.authService.Refresh(ctx, req.RefreshToken, clientInfo(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidToken, "invalid refresh token")
			return
		}
		logrus.WithError(err).Error("token refresh failed")
		InternalError(c, "failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the current session, or a named one owned by the caller.
func (h *HTTPHandler) Logout(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.AuthLogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c)
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.Logout(ctx, *principal, req.SessionID); err != nil {
		if errors.Is(err, auth.ErrOwnershipDenied) {
			Forbidden(c, "cannot revoke another user's session")
			return
		}
		logrus.WithError(err).Error("logout failed")
		InternalError(c, "failed to log out")
		return
	}

	c.JSON(http.StatusOK, entity.AuthMessageResponse{Message: "logged out"})
}

// LogoutAll revokes every session of the caller.
func (h *HTTPHandler) LogoutAll(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.LogoutAll(ctx, *principal); err != nil {
		logrus.WithError(err).Error("logout all failed")
		InternalError(c, "failed to log out")
		return
	}

	c.JSON(http.StatusOK, entity.AuthMessageResponse{Message: "logged out everywhere"})
}

// ForgotPassword issues a reset token. The response does not reveal whether
// the email matched an account.
func (h *HTTPHandler) ForgotPassword(c *gin.Context) {
	var req entity.AuthForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.authService.ForgotPassword(ctx, req.Email); err != nil {
		logrus.WithError(err).Error("forgot password failed")
		InternalError(c, "failed to process request")
		return
	}

	c.JSON(http.StatusOK, entity.AuthMessageResponse{Message: "if the email exists, a reset link has been sent"})
}

// ResetPassword consumes a reset token and replaces the password.
func (h *HTTPHandler) ResetPassword(c *gin.Context) {
	var req entity.AuthResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.authService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			BadRequest(c, ErrCodeInvalidToken, "invalid or expired reset token")
			return
		}
		logrus.WithError(err).Error("password reset failed")
		InternalError(c, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, entity.AuthMessageResponse{Message: "password updated"})
}

// VerifyEmail consumes an email verification token.
func (h *HTTPHandler) VerifyEmail(c *gin.Context) {
	var req entity.AuthVerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.VerifyEmail(ctx, req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidVerificationToken) {
			BadRequest(c, ErrCodeInvalidToken, "invalid or expired verification token")
			return
		}
		logrus.WithError(err).Error("email verification failed")
		InternalError(c, "failed to verify email")
		return
	}

	c.JSON(http.StatusOK, entity.AuthMessageResponse{Message: "email verified"})
}

// Me returns the caller's profile.
func (h *HTTPHandler) Me(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", principal.UserID).Error("failed to load profile")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, entity.MakeUserSummary(user))
}

// ListSessions returns the caller's sessions for device review.
func (h *HTTPHandler) ListSessions(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	activeOnly := c.Query("active") == "true"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.authService.ListSessions(ctx, *principal, activeOnly)
	if err != nil {
		logrus.WithError(err).Error("failed to list sessions")
		InternalError(c, "failed to load sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
