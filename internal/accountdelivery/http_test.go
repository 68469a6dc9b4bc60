package accountdelivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/NarwhalsOrg/BankingApp/internal/accountrepo"
	"github.com/NarwhalsOrg/BankingApp/internal/accountservice"
	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/internal/middleware"
	"github.com/NarwhalsOrg/BankingApp/pkg/identpkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/randompkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/tokenpkg"
)

func newTestServer(t *testing.T) (*gin.Engine, *accountservice.Service, tokenpkg.Maker) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		require.NoError(t, v.RegisterValidation("accounttype", ValidAccountType))
		require.NoError(t, v.RegisterValidation("amount", ValidAmount))
	}

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	service := accountservice.New(accountrepo.NewRepoMem())
	handler := NewHandler(service)

	server := gin.New()
	server.Use(middleware.AuthMiddleware(tokenMaker))
	server.POST("/accounts", handler.Create)
	server.GET("/accounts/:id", handler.Get)
	server.GET("/accounts", handler.List)

	return server, service, tokenMaker
}

func TestCreateAPI(t *testing.T) {
	server, _, tokenMaker := newTestServer(t)

	testCases := []struct {
		name        string
		requestBody gin.H
		wantStatus  int
	}{
		{
			name:        "OK",
			requestBody: gin.H{"type": "savings"},
			wantStatus:  http.StatusOK,
		},
		{
			name:        "UnsupportedType",
			requestBody: gin.H{"type": "offshore"},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "MissingType",
			requestBody: gin.H{},
			wantStatus:  http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, 1, time.Minute)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)

			if tc.wantStatus == http.StatusOK {
				var res struct {
					Data struct {
						Account domain.Account `json:"account"`
					} `json:"data"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, domain.Savings, res.Data.Account.Type)
				require.True(t, res.Data.Account.Balance.IsZero())
				require.Len(t, res.Data.Account.Number, identpkg.NumberLength)
			}
		})
	}
}

func TestGetAPI(t *testing.T) {
	server, service, tokenMaker := newTestServer(t)

	account, err := service.Create(context.Background(), 1, domain.Checking, decimal.RequireFromString("2500.00"))
	require.NoError(t, err)

	testCases := []struct {
		name         string
		url          string
		callerUserID int64
		wantStatus   int
	}{
		{
			name:         "OK",
			url:          fmt.Sprintf("/accounts/%d", account.ID),
			callerUserID: 1,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "NotFound",
			url:          fmt.Sprintf("/accounts/%d", account.ID+100),
			callerUserID: 1,
			wantStatus:   http.StatusNotFound,
		},
		{
			name:         "OwnerMismatch",
			url:          fmt.Sprintf("/accounts/%d", account.ID),
			callerUserID: 2,
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "InvalidID",
			url:          "/accounts/0",
			callerUserID: 1,
			wantStatus:   http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, tc.callerUserID, time.Minute)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestListAPI(t *testing.T) {
	server, service, tokenMaker := newTestServer(t)

	for _, accountType := range []domain.AccountType{domain.Checking, domain.Savings} {
		_, err := service.Create(context.Background(), 1, accountType, decimal.Zero)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(http.MethodGet, "/accounts", nil)
	require.NoError(t, err)

	middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, 1, time.Minute)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			Accounts []domain.Account `json:"accounts"`
		} `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Len(t, res.Data.Accounts, 2)
	require.Equal(t, domain.Checking, res.Data.Accounts[0].Type)
	require.Equal(t, domain.Savings, res.Data.Accounts[1].Type)
}
