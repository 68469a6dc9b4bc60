package transferdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/NarwhalsOrg/BankingApp/internal/accountdelivery"
	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/internal/middleware"
	"github.com/NarwhalsOrg/BankingApp/internal/transferservice"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/randompkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/tokenpkg"
)

func newTestServer(t *testing.T, service Service, tokenMaker tokenpkg.Maker) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		require.NoError(t, v.RegisterValidation("amount", accountdelivery.ValidAmount))
		require.NoError(t, v.RegisterValidation("accounttype", accountdelivery.ValidAccountType))
	}

	handler := NewHandler(service)

	server := gin.New()
	server.Use(middleware.AuthMiddleware(tokenMaker))
	server.POST("/deposits", handler.Deposit)
	server.POST("/withdrawals", handler.Withdraw)
	server.POST("/transfers", handler.Transfer)

	return server
}

func TestTransferAPI(t *testing.T) {
	const (
		callerUserID  = int64(1)
		fromAccountID = int64(10)
		toAccountID   = int64(20)
	)

	amount := "100.00"

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transferService := NewMockService(ctrl)
	server := newTestServer(t, transferService, tokenMaker)

	arg := transferservice.TransferParams{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        decimal.RequireFromString(amount),
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {},
			buildStubs: func(service *MockService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "SameAccountRejectedByBinding",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   fromAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NegativeAmount",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          "-5.00",
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "TooManyDecimalPlaces",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          "10.001",
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "OwnerMismatch",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountOwnerMismatch)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "InsufficientFunds",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrInsufficientFunds)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "DestinationNotFound",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"from_account_id": fromAccountID,
				"to_account_id":   toAccountID,
				"amount":          amount,
			},
			setupAuth: func(t *testing.T, request *http.Request) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{
						ID:                    1,
						UserID:                callerUserID,
						AccountID:             fromAccountID,
						Type:                  domain.Transfer,
						Amount:                arg.Amount.Neg(),
						CounterpartyAccountID: toAccountID,
					}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tc.buildStubs(transferService)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			require.NoError(t, err)

			tc.setupAuth(t, req)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestDepositAPI(t *testing.T) {
	const (
		callerUserID = int64(1)
		accountID    = int64(10)
	)

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transferService := NewMockService(ctrl)
	server := newTestServer(t, transferService, tokenMaker)

	arg := transferservice.DepositParams{
		AccountID:   accountID,
		Amount:      decimal.RequireFromString("250.00"),
		Description: "payday",
	}

	testCases := []struct {
		name        string
		requestBody gin.H
		buildStubs  func(service *MockService)
		wantStatus  int
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"account_id":  accountID,
				"amount":      "250.00",
				"description": "payday",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{ID: 1, AccountID: accountID, Type: domain.Deposit, Amount: arg.Amount}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "MissingAmount",
			requestBody: gin.H{
				"account_id": accountID,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "AccountNotFound",
			requestBody: gin.H{
				"account_id":  accountID,
				"amount":      "250.00",
				"description": "payday",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tc.buildStubs(transferService)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestWithdrawAPI(t *testing.T) {
	const (
		callerUserID = int64(1)
		accountID    = int64(10)
	)

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transferService := NewMockService(ctrl)
	server := newTestServer(t, transferService, tokenMaker)

	arg := transferservice.WithdrawParams{
		AccountID: accountID,
		Amount:    decimal.RequireFromString("40.00"),
	}

	testCases := []struct {
		name        string
		requestBody gin.H
		buildStubs  func(service *MockService)
		wantStatus  int
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"account_id": accountID,
				"amount":     "40.00",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{ID: 1, AccountID: accountID, Type: domain.Withdrawal, Amount: arg.Amount.Neg()}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "InsufficientFunds",
			requestBody: gin.H{
				"account_id": accountID,
				"amount":     "40.00",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(callerUserID), gomock.Eq(arg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrInsufficientFunds)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ZeroAmount",
			requestBody: gin.H{
				"account_id": accountID,
				"amount":     "0.00",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Withdraw(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tc.buildStubs(transferService)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, callerUserID, time.Minute)
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}
