package storage

import (
	"fmt"

	"github.com/LENAX/task-order/pkg/config"
	"github.com/LENAX/task-order/pkg/storage"
	"github.com/LENAX/task-order/pkg/storage/mysql"
	"github.com/LENAX/task-order/pkg/storage/postgres"
	"github.com/LENAX/task-order/pkg/storage/sqlite"
)

// NewOrderingRepository 按数据库类型创建排序历史Repository（内部方法）
// dbType: 数据库类型（sqlite/mysql/postgres）
// dsn: 数据库连接字符串
func NewOrderingRepository(dbType, dsn string, opts storage.PoolOptions) (storage.OrderingRepository, error) {
	var (
		repo *storage.SQLRepository
		err  error
	)
	switch dbType {
	case "sqlite":
		repo, err = sqlite.Open(dsn, opts)
	case "mysql":
		repo, err = mysql.Open(dsn, opts)
	case "postgres", "postgresql":
		repo, err = postgres.Open(dsn, opts)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s repository failed: %w", dbType, err)
	}
	return repo, nil
}

// FromConfig 根据配置创建Repository，未配置数据库时返回 nil
func FromConfig(cfg *config.Config) (storage.OrderingRepository, error) {
	if !cfg.StorageEnabled() {
		return nil, nil
	}
	db := cfg.TaskOrder.Storage.Database
	return NewOrderingRepository(db.Type, db.DSN, storage.PoolOptions{
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
	})
}
