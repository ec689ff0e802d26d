package main

import (
	"context"
	"log/slog"
	"os"

	"grocery-catalog-crawlers/pkg/app"
	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/logger"
	"grocery-catalog-crawlers/pkg/rabbitmq"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
	lg := logger.NewLogger(true)

	var cfg Config
	if _, err := toml.DecodeFile("./cfg/local.cfg", &cfg); err != nil {
		lg.Errorf("decoding toml: %v", err)
		os.Exit(1)
	}

	dbc, err := initDatabaseConnection(lg, cfg.Database, false)
	if err != nil {
		lg.Errorf("connect main db: %v", err)
		os.Exit(1)
	}

	var rmq *rabbitmq.Client
	if cfg.RabbitURL != "" {
		rmq, err = rabbitmq.NewClient(cfg.RabbitURL, lg)
		if err != nil {
			lg.Errorf("connect rabbitmq: %v", err)
			os.Exit(1)
		}
		defer func() { _ = rmq.Close() }()
	}

	a := app.New(dbc, lg, rmq, cfg.App)
	ctx := context.Background()

	if rmq != nil {
		go func() {
			if err := a.ConsumeProductTasks(ctx); err != nil {
				lg.Errorf("consume product tasks: %v", err)
			}
		}()
	}

	if cfg.Listen != "" {
		if err := a.Serve(cfg.Listen); err != nil {
			lg.Errorf("serve api: %v", err)
			os.Exit(1)
		}
		return
	}

	if cfg.App.Ingestion.ProductsPath != "" {
		if err := a.Ingestor.Run(ctx); err != nil {
			lg.Errorf("ingestion failed: %v", err)
			os.Exit(1)
		}
	}

	if err := a.Walmart.CatalogParse(ctx); err != nil {
		lg.Errorf("CatalogParse failed: %v", err)
		os.Exit(1)
	}
	lg.Printf("END")
}

func initDatabaseConnection(lg logger.Logger, connOps *pg.Options, sqlVerbose bool) (*pg.DB, error) {
	dbc := pg.Connect(connOps)
	if sqlVerbose {
		queryLogger := logger.NewSimpleLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelInfo,
		})))
		dbc.AddQueryHook(&db.QueryLogger{SimpleLogger: queryLogger})
	}
	var v string
	if _, err := dbc.QueryOne(pg.Scan(&v), "select version()"); err != nil {
		return nil, err
	}
	lg.Printf("%s", v)
	return dbc, nil
}

type Config struct {
	Database  *pg.Options
	RabbitURL string
	Listen    string
	App       app.Config
}
