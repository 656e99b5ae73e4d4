package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/artvitrina/portfolio-back/internal/config"
	"github.com/artvitrina/portfolio-back/internal/db"
	"github.com/artvitrina/portfolio-back/internal/service"
	"github.com/artvitrina/portfolio-back/internal/transport"
)

func NewLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func main() {
	app := fx.New(
		fx.Provide(NewLogger),
		config.Module,
		db.Module,
		service.Module,
		transport.Module,
		fx.Invoke(func(*transport.HTTPServer) {}),
	)
	app.Run()
}
