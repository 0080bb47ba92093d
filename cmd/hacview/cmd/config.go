package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hacview-backend/lib/configutil"
	"hacview-backend/lib/gradestore"
	"hacview-backend/lib/scrapers/homeaccess"
	"hacview-backend/lib/telemetry"
	"hacview-backend/lib/weights"
)

type DatabaseConfig struct {
	File string `json:"file"`
	Url  string `json:"url"`
}

type Config struct {
	BaseUrl        string           `json:"base_url"`
	Username       string           `json:"username"`
	Password       string           `json:"password"`
	District       string           `json:"district"`
	TimeoutSeconds int              `json:"timeout_seconds"`
	WeightTable    string           `json:"weight_table"`
	Database       DatabaseConfig   `json:"database"`
	Telemetry      telemetry.Config `json:"telemetry"`
}

func mustSetup(ctx context.Context) Config {
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config](configPath)
	if err != nil {
		slog.Error("failed to read config file", "path", configPath, "err", err.Error())
		os.Exit(1)
	}

	_, err = telemetry.Setup(ctx, "hacview", config.Telemetry)
	if err != nil {
		slog.Error("failed to setup telemetry", "err", err.Error())
		os.Exit(1)
	}
	return config
}

func mustLogin(ctx context.Context, config Config) *homeaccess.Client {
	client, err := homeaccess.NewClient(homeaccess.ClientOptions{
		BaseUrl:  config.BaseUrl,
		Username: config.Username,
		Password: config.Password,
		District: config.District,
		Timeout:  time.Duration(config.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		slog.Error("failed to create client", "err", err.Error())
		os.Exit(1)
	}

	err = client.Login(ctx)
	if err != nil {
		slog.Error("failed to log in", "err", err.Error())
		os.Exit(1)
	}
	return client
}

func weightProvider(config Config) weights.Provider {
	if config.WeightTable == "" {
		return weights.Fixed(1)
	}
	table, err := weights.LoadTable(config.WeightTable)
	if err != nil {
		slog.Warn(
			"failed to load weight table, weighing every course 1",
			"path", config.WeightTable,
			"err", err.Error(),
		)
		return weights.Fixed(1)
	}
	return table
}

func openStore(config DatabaseConfig) (gradestore.Store, error) {
	var db *sql.DB
	var err error
	if config.Url != "" {
		db, err = sql.Open("libsql", config.Url)
	} else {
		file := config.File
		if file == "" {
			file = "hacview.db"
		}
		db, err = sql.Open("sqlite", fmt.Sprintf("file:%s", file))
	}
	if err != nil {
		return gradestore.Store{}, err
	}
	_, err = db.Exec(gradestore.Schema)
	if err != nil {
		return gradestore.Store{}, err
	}
	return gradestore.NewStore(db), nil
}
