package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/booking"
	"github.com/iliyamo/exam-appointment-booking/internal/config"
	"github.com/iliyamo/exam-appointment-booking/internal/database"
	"github.com/iliyamo/exam-appointment-booking/internal/repository"
	"github.com/iliyamo/exam-appointment-booking/internal/repository/pgstore"
)

// OpenStore connects the configured database, applies the migrations and
// returns the matching store with a function releasing the connections.
func OpenStore(ctx context.Context, cfg config.Config, log *zap.Logger) (booking.Store, func(), error) {
	switch cfg.DBDriver {
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		db := stdlib.OpenDBFromPool(pool)
		if err := database.Migrate(ctx, db, "postgres"); err != nil {
			_ = db.Close()
			pool.Close()
			return nil, nil, err
		}
		_ = db.Close()
		log.Info("database ready", zap.String("driver", "postgres"))
		return pgstore.New(pool), pool.Close, nil
	default:
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := database.Migrate(ctx, db, "mysql"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("database ready", zap.String("driver", "mysql"))
		return repository.NewStore(db), func() { _ = db.Close() }, nil
	}
}
