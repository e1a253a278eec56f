package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
)

// IngestedArticle is one ledger row.
type IngestedArticle struct {
	Collection string    `gorm:"primaryKey;size:64"`
	ArticleID  string    `gorm:"primaryKey"`
	DocumentID string    `gorm:"index;not null"`
	IngestedAt time.Time `gorm:"autoCreateTime"`
}

// Postgres is a Ledger stored in PostgreSQL through gorm.
//
// The active *gorm.DB is kept in an atomic pointer so MonitorConnection
// can swap it after a reconnect without blocking readers.
type Postgres struct {
	cfg    *Config
	logger logger.Logger
	client atomic.Pointer[gorm.DB]

	shutdownSignal chan struct{}
	shutdownOnce   sync.Once
}

var _ Ledger = (*Postgres)(nil)

// NewPostgres connects and migrates the ledger table.
func NewPostgres(cfg *Config, log logger.Logger) (*Postgres, error) {
	if log == nil {
		log = logger.NewNop()
	}

	conn, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&IngestedArticle{}); err != nil {
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}

	p := &Postgres{cfg: cfg, logger: log, shutdownSignal: make(chan struct{})}
	p.client.Store(conn)

	log.Info("Connected to ledger database", nil, map[string]interface{}{
		"host":     cfg.Host,
		"database": cfg.DbName,
	})
	return p, nil
}

// connect opens a gorm connection and applies the pool settings, falling
// back to package defaults for unset values.
func connect(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("ledger: connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ledger: get database handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	maxLifetime := cfg.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = time.Minute
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	return db, nil
}

// DB returns the current connection.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

func (p *Postgres) Seen(ctx context.Context, collection, articleID string) (bool, error) {
	var n int64
	err := p.DB().WithContext(ctx).
		Model(&IngestedArticle{}).
		Where("collection = ? AND article_id = ?", collection, articleID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("ledger: look up %s/%s: %w", collection, articleID, TranslateError(err))
	}
	return n > 0, nil
}

func (p *Postgres) Record(ctx context.Context, collection, articleID, documentID string) error {
	row := IngestedArticle{Collection: collection, ArticleID: articleID, DocumentID: documentID}
	err := p.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("ledger: record %s/%s: %w", collection, articleID, TranslateError(err))
	}
	return nil
}

func (p *Postgres) Forget(ctx context.Context, collection, documentID string) error {
	err := p.DB().WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, documentID).
		Delete(&IngestedArticle{}).Error
	if err != nil {
		return fmt.Errorf("ledger: forget %s/%s: %w", collection, documentID, TranslateError(err))
	}
	return nil
}

// MonitorConnection pings the database every HealthCheckInterval and
// reconnects when a ping fails. It returns when ctx is done or Close is
// called.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	interval := p.cfg.HealthCheckInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := p.healthCheck(ctx)
			if err == nil {
				continue
			}
			p.logger.Warn("Ledger database unhealthy, reconnecting", err, nil)
			conn, err := connect(p.cfg)
			if err != nil {
				p.logger.Error("Ledger reconnection failed", err, nil)
				continue
			}
			p.client.Store(conn)
			p.logger.Info("Reconnected to ledger database", nil, nil)
		}
	}
}

func (p *Postgres) healthCheck(ctx context.Context) error {
	sqlDB, err := p.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// Close stops the monitor and closes the connection pool.
func (p *Postgres) Close() error {
	p.shutdownOnce.Do(func() { close(p.shutdownSignal) })
	sqlDB, err := p.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
