package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "expense-approval-service/internal/adapter/http"
	"expense-approval-service/internal/adapter/middleware"
	"expense-approval-service/internal/adapter/repository/mysql"
	"expense-approval-service/internal/config"
	"expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	"expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/domain/uow"
	"expense-approval-service/internal/infrastructure/cache"
	"expense-approval-service/internal/infrastructure/db"
	"expense-approval-service/internal/infrastructure/fx"
	"expense-approval-service/internal/usecase/decision"
	"expense-approval-service/internal/usecase/flowadmin"
	"expense-approval-service/internal/usecase/submission"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	gormDB, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("open mysql", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&company.Company{}, &company.User{},
		&expense.Expense{}, &approval.Approval{},
		&flow.Flow{}, &flow.Step{}, &flow.Rule{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("open redis", zap.Error(err))
	}

	repos := uow.Repos{
		Users:     mysql.NewUserRepository(gormDB),
		Expenses:  mysql.NewExpenseRepository(gormDB),
		Approvals: mysql.NewApprovalRepository(gormDB),
		Flows:     mysql.NewFlowRepository(gormDB),
	}
	tx := mysql.NewGormUoW(gormDB)
	converter := fx.NewStatic(cfg.FxTable())

	submissionUC := submission.NewUsecase(repos, tx, converter, logger)
	decisionUC := decision.NewUsecase(repos, tx, logger, cfg.EscalateUnit)
	flowUC := flowadmin.NewUsecase(repos, tx, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover())

	idemp := middleware.Idempotency(rdb, cfg.IdempTTL, logger)

	health := httpadp.NewHandler()
	expenses := httpadp.NewExpenseHandler(submissionUC)
	decisions := httpadp.NewDecisionHandler(decisionUC)
	flows := httpadp.NewFlowHandler(flowUC)

	httpadp.RegisterRoutes(e, health, expenses, decisions, flows, middleware.Identity(), idemp)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}
