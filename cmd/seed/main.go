// Command seed fills the phonebook's Redis store with deterministic sample
// mappings. It reads the same environment as the server.
//
// Run: go run ./cmd/seed -n 10000 -seed 1
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/phonebook/internal/config"
	"github.com/utafrali/phonebook/internal/event"
	redisrepo "github.com/utafrali/phonebook/internal/repository/redis"
	"github.com/utafrali/phonebook/internal/seed"
	"github.com/utafrali/phonebook/internal/service"
	"github.com/utafrali/phonebook/pkg/database"
	"github.com/utafrali/phonebook/pkg/logger"
)

func main() {
	n := flag.Int("n", 10000, "number of mappings to create")
	seedValue := flag.Int64("seed", 1, "random seed; the same seed yields the same mappings")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("phonebook-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	rdb, err := database.NewRedisClient(connectCtx, cfg.Redis())
	connectCancel()
	if err != nil {
		log.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rdb.Close()

	svc := service.NewAddressService(redisrepo.NewAddressRepository(rdb, log), event.NopPublisher{}, log)

	start := time.Now()
	res, err := seed.Run(ctx, svc, seed.Generate(*seedValue, *n), log)
	if err != nil {
		log.Error("seed failed",
			slog.String("error", err.Error()),
			slog.Int("created", res.Created),
		)
		os.Exit(1)
	}

	log.Info("seed complete",
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Duration("elapsed", time.Since(start)),
	)
}
