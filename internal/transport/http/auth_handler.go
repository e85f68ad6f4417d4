package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

type AuthUseCases interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	RefreshAccess(ctx context.Context, accessToken string) (*service.AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type OTPUseCases interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
}

type PasswordUseCases interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, rawToken, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type AuthHandler struct {
	auth      AuthUseCases
	otps      OTPUseCases
	passwords PasswordUseCases
	cookies   CookieConfig
	log       logging.Logger
}

func RegisterAuth(e *echo.Echo, requireAuth echo.MiddlewareFunc, auth AuthUseCases, otps OTPUseCases, passwords PasswordUseCases, cookies CookieConfig, log logging.Logger) {
	if log == nil {
		log = logging.Nop{}
	}
	handler := &AuthHandler{
		auth:      auth,
		otps:      otps,
		passwords: passwords,
		cookies:   cookies,
		log:       log.With("component", "http.auth"),
	}

	g := e.Group("/api/v1/auth")
	g.POST("/send-otp", handler.sendOTP)
	g.POST("/verify-otp", handler.verifyOTP)
	g.POST("/signup", handler.signUp)
	g.POST("/signin", handler.signIn)
	g.POST("/refresh-token", handler.refreshToken)
	g.POST("/forgot-password", handler.forgotPassword)
	g.GET("/reset-password", handler.resetPasswordPage)
	g.POST("/reset-password", handler.resetPassword)
	g.POST("/logout", handler.logout, requireAuth)
	g.POST("/change-password", handler.changePassword, requireAuth)
}

// sendOTP godoc
// @Summary Email a one-time verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body SendOTPRequest true "Recipient"
// @Success 200 {object} MessageResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/auth/send-otp [post]
func (h *AuthHandler) sendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	if err := h.otps.SendOTP(c.Request().Context(), req.Email); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "OTP sent"})
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	if err := h.otps.VerifyOTP(c.Request().Context(), req.Email, strings.TrimSpace(req.OTP)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "OTP verified"})
}

// signUp godoc
// @Summary Register an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body SignUpRequest true "Registration"
// @Success 201 {object} AuthTokenResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) signUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	result, err := h.auth.SignUp(c.Request().Context(), service.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	setAccessCookie(c, h.cookies, result.AccessToken)
	return c.JSON(http.StatusCreated, tokenResponse(result))
}

// signIn godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body SignInRequest true "Credentials"
// @Success 200 {object} AuthTokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/signin [post]
func (h *AuthHandler) signIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	result, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	setAccessCookie(c, h.cookies, result.AccessToken)
	return c.JSON(http.StatusOK, tokenResponse(result))
}

// refreshToken godoc
// @Summary Issue a new access token while the stored refresh token is live
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthTokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/refresh-token [post]
func (h *AuthHandler) refreshToken(c echo.Context) error {
	token := extractToken(c, h.cookies.name())
	if token == "" {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	result, err := h.auth.RefreshAccess(c.Request().Context(), token)
	if err != nil {
		return respondError(c, h.log, err)
	}
	setAccessCookie(c, h.cookies, result.AccessToken)
	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHandler) logout(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	if err := h.auth.Logout(c.Request().Context(), identity.UserID); err != nil {
		return respondError(c, h.log, err)
	}
	clearAccessCookie(c, h.cookies)
	return c.JSON(http.StatusOK, util.Envelope{"message": "Signed out"})
}

// forgotPassword godoc
// @Summary Email a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	if err := h.passwords.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Password reset link sent"})
}

// resetPassword godoc
// @Summary Redeem a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body ResetPasswordRequest true "Reset payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/auth/reset-password [post]
func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	fromForm := strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationForm)
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}

	err := h.applyReset(c.Request().Context(), req)
	if fromForm {
		page := resetPage{Token: req.Token, UserID: req.UserID}
		if err != nil {
			if service.KindOf(err) == service.KindDependency {
				h.log.Error(c.Request().Context(), "reset password form failed", "error", err.Error())
			}
			page.Error = resetFailureMessage(err)
			return renderResetPage(c, statusFor(service.KindOf(err)), page)
		}
		page.Success = "Password has been reset successfully."
		return renderResetPage(c, http.StatusOK, page)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Password has been reset"})
}

func (h *AuthHandler) applyReset(ctx context.Context, req ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.NewPassword) == "" {
		return service.ErrValidation.WithMessage("token and new_password are required")
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		return service.ErrValidation.WithMessage("passwords do not match")
	}
	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return service.ErrInvalidOrExpiredResetToken
	}
	return h.passwords.ResetPassword(ctx, userID, strings.TrimSpace(req.Token), req.NewPassword)
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	if err := h.passwords.ChangePassword(c.Request().Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Password updated"})
}

func tokenResponse(result *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessExpiresAt.UTC().Format(time.RFC3339),
		User:        toAuthUser(result.User),
	}
}
