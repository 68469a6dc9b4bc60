// Package transferdelivery manages delivery layer of money movements.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/internal/middleware"
	"github.com/NarwhalsOrg/BankingApp/internal/transferservice"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/tokenpkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Deposit(ctx context.Context, callerUserID int64, arg transferservice.DepositParams) (domain.Transaction, error)
	Withdraw(ctx context.Context, callerUserID int64, arg transferservice.WithdrawParams) (domain.Transaction, error)
	Transfer(ctx context.Context, callerUserID int64, arg transferservice.TransferParams) (domain.Transaction, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

func bindingError(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		gctx.JSON(http.StatusBadRequest, web.Response{Error: field.Field() + web.GetErrorMsg(field)})

		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

func writeServiceError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
		return
	case domain.ErrAccountOwnerMismatch:
		gctx.JSON(http.StatusUnauthorized, web.Error(err))
		return
	case
		domain.ErrInsufficientFunds,
		domain.ErrSameAccountTransfer,
		domain.ErrNonPositiveAmount:
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}

type depositRequest struct {
	AccountID   int64  `json:"account_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required,amount"`
	Description string `json:"description" binding:"max=255"`
}

// Deposit handles http request to credit the caller's account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, err)
		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, err := h.service.Deposit(ctx, authPayload.UserID, transferservice.DepositParams{
		AccountID:   req.AccountID,
		Amount:      decimal.RequireFromString(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

type withdrawRequest struct {
	AccountID   int64  `json:"account_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required,amount"`
	Description string `json:"description" binding:"max=255"`
}

// Withdraw handles http request to debit the caller's account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req withdrawRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, err)
		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, err := h.service.Withdraw(ctx, authPayload.UserID, transferservice.WithdrawParams{
		AccountID:   req.AccountID,
		Amount:      decimal.RequireFromString(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

type transferRequest struct {
	FromAccountID int64  `json:"from_account_id" binding:"required,min=1"`
	ToAccountID   int64  `json:"to_account_id" binding:"required,min=1,nefield=FromAccountID"`
	Amount        string `json:"amount" binding:"required,amount"`
	Description   string `json:"description" binding:"max=255"`
}

// Transfer handles http request to move money between two accounts. The
// returned transaction is the debit leg on the caller's account.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, err)
		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, err := h.service.Transfer(ctx, authPayload.UserID, transferservice.TransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        decimal.RequireFromString(req.Amount),
		Description:   req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}
