package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

type BankDetailUseCases interface {
	Create(ctx context.Context, userID uuid.UUID, in service.BankDetailInput) (*domain.BankDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankDetail, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.BankDetail, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type BankHandler struct {
	banks BankDetailUseCases
	log   logging.Logger
}

// BankDetailRequest is the payload for adding a payout account.
type BankDetailRequest struct {
	BankName      string `json:"bank_name" example:"State Bank"`
	AccountHolder string `json:"account_holder" example:"Asha Rao"`
	AccountNumber string `json:"account_number" example:"123456789012"`
	IFSCCode      string `json:"ifsc_code,omitempty" example:"SBIN0000001"`
	UPIID         string `json:"upi_id,omitempty" example:"asha@upi"`
}

func RegisterBanks(e *echo.Echo, requireAuth echo.MiddlewareFunc, banks BankDetailUseCases, log logging.Logger) {
	if log == nil {
		log = logging.Nop{}
	}
	handler := &BankHandler{banks: banks, log: log.With("component", "http.banks")}

	g := e.Group("/api/v1/user/banks", requireAuth)
	g.GET("", handler.list)
	g.POST("", handler.create)
	g.GET("/:id", handler.get)
	g.DELETE("/:id", handler.remove)
}

// RegisterAdmin mounts the admin-only routes.
func RegisterAdmin(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	g := e.Group("/api/v1/admin", requireAuth, RequireRoles(domain.RoleAdmin))
	g.GET("/ping", func(c echo.Context) error {
		identity, _ := CurrentIdentity(c)
		return c.JSON(http.StatusOK, util.Envelope{"ok": true, "user_id": identity.UserID})
	})
}

func (h *BankHandler) list(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	details, err := h.banks.ListByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Data("banks", details))
}

// create godoc
// @Summary Add a payout bank account
// @Tags Banks
// @Accept json
// @Produce json
// @Param payload body BankDetailRequest true "Bank account"
// @Success 201 {object} domain.BankDetail
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/user/banks [post]
func (h *BankHandler) create(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	var req BankDetailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "invalid request body"))
	}
	detail, err := h.banks.Create(c.Request().Context(), identity.UserID, service.BankDetailInput{
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
		UPIID:         req.UPIID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, util.Data("bank", detail))
}

func (h *BankHandler) get(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "id must be a valid UUID"))
	}
	detail, err := h.banks.GetByID(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Data("bank", detail))
}

func (h *BankHandler) remove(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return respondError(c, h.log, service.ErrAuthenticationTokenMissing)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.CodedError(service.ErrValidation.Code, "id must be a valid UUID"))
	}
	if err := h.banks.Delete(c.Request().Context(), identity.UserID, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"id": id, "message": "Bank detail removed"})
}
