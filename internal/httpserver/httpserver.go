// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/NarwhalsOrg/BankingApp/internal/accountdelivery"
	"github.com/NarwhalsOrg/BankingApp/internal/accountrepo"
	"github.com/NarwhalsOrg/BankingApp/internal/accountservice"
	"github.com/NarwhalsOrg/BankingApp/internal/middleware"
	"github.com/NarwhalsOrg/BankingApp/internal/transactiondelivery"
	"github.com/NarwhalsOrg/BankingApp/internal/transactionrepo"
	"github.com/NarwhalsOrg/BankingApp/internal/transactionservice"
	"github.com/NarwhalsOrg/BankingApp/internal/transferdelivery"
	"github.com/NarwhalsOrg/BankingApp/internal/transferservice"
	"github.com/NarwhalsOrg/BankingApp/internal/userdelivery"
	"github.com/NarwhalsOrg/BankingApp/internal/userrepo"
	"github.com/NarwhalsOrg/BankingApp/internal/userservice"
	"github.com/NarwhalsOrg/BankingApp/pkg/configpkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/tokenpkg"
)

// Server holds the router and configuration.
type Server struct {
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Run attaches the router to a http.Server and starts listening.
func (s *Server) Run() error {
	return s.Engine.Run(s.Config.ServerAddress)
}

// ledgerStore is the full transaction log surface: the coordinator appends
// to it and the transaction service reads from it.
type ledgerStore interface {
	transferservice.Ledger
	transactionservice.Repo
}

type stores struct {
	users    userservice.Repo
	accounts accountservice.Repo
	balances transferservice.AccountStore
	ledger   ledgerStore
}

func newStores(conn *sql.DB, config configpkg.Config) (stores, error) {
	switch config.StorageDriver {
	case "memory":
		accounts := accountrepo.NewRepoMem()

		return stores{
			users:    userrepo.NewRepoMem(),
			accounts: accounts,
			balances: accounts,
			ledger:   transactionrepo.NewRepoMem(),
		}, nil
	case "postgres":
		if conn == nil {
			return stores{}, errors.New("postgres storage requires a database connection")
		}

		accounts := accountrepo.NewRepoPGS(conn)

		return stores{
			users:    userrepo.NewRepoPGS(conn),
			accounts: accounts,
			balances: accounts,
			ledger:   transactionrepo.NewRepoPGS(conn),
		}, nil
	}

	return stores{}, fmt.Errorf("unsupported storage driver %q", config.StorageDriver)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	st, err := newStores(conn, config)
	if err != nil {
		return nil, err
	}

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	accountService := accountservice.New(st.accounts)
	userService := userservice.New(st.users, accountService)
	transferService := transferservice.New(st.balances, st.ledger)
	transactionService := transactionservice.New(st.ledger, st.accounts)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	if config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Register)
	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.PATCH("/users/profile", userHandler.UpdateProfile)
	authRoutes.PUT("/users/password", userHandler.ChangePassword)

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:id/transactions", transactionHandler.ListByAccount)

	authRoutes.GET("/transactions", transactionHandler.List)
	authRoutes.GET("/transactions/:id", transactionHandler.Get)

	authRoutes.POST("/deposits", transferHandler.Deposit)
	authRoutes.POST("/withdrawals", transferHandler.Withdraw)
	authRoutes.POST("/transfers", transferHandler.Transfer)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accounttype", accountdelivery.ValidAccountType); err != nil {
			return nil, errors.New("cannot register account type validator")
		}

		if err := v.RegisterValidation("amount", accountdelivery.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		Engine: engine,
		Config: config,
	}

	return server, nil
}
