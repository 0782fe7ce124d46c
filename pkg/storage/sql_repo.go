package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LENAX/task-order/pkg/storage/dao"
)

const historyTable = "ordering_history"

// historySchema SQLite语法的建表语句，其他方言通过 CreateTableSQL 转换
const historySchema = `
CREATE TABLE IF NOT EXISTS ordering_history (
	id VARCHAR(36) PRIMARY KEY,
	tasks INTEGER NOT NULL,
	edge_count INTEGER NOT NULL,
	edges TEXT NOT NULL,
	result_order TEXT,
	has_cycle INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	duration_us BIGINT NOT NULL,
	create_time DATETIME NOT NULL
);`

// PoolOptions 连接池配置
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLRepository 基于sqlx的排序历史Repository实现（对外导出）
type SQLRepository struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open 通过DSN打开数据库并初始化表结构
func Open(d Dialect, dsn string, opts PoolOptions) (*SQLRepository, error) {
	db, err := sqlx.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	repo, err := NewSQLRepository(db, d)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository 使用已有连接创建Repository并初始化表结构
func NewSQLRepository(db *sqlx.DB, d Dialect) (*SQLRepository, error) {
	for _, stmt := range d.ConfigureDB() {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("配置%s失败: %w", d.Name(), err)
		}
	}

	repo := &SQLRepository{db: db, dialect: d}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return repo, nil
}

// initSchema 初始化数据库表结构
func (r *SQLRepository) initSchema() error {
	stmts := []string{
		r.dialect.CreateTableSQL(historySchema),
		r.dialect.CreateIndexSQL(historyTable, "idx_ordering_history_create_time", "create_time"),
	}
	for _, stmt := range stmts {
		if stmt == "" {
			continue
		}
		if _, err := r.db.Exec(stmt); err != nil && !r.dialect.IgnoreSchemaError(err) {
			return err
		}
	}
	return nil
}

// DB 获取底层数据库连接
func (r *SQLRepository) DB() *sqlx.DB {
	return r.db
}

// Dialect 获取方言
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

// Close 关闭数据库连接
func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save 保存记录
func (r *SQLRepository) Save(ctx context.Context, rec *OrderingRecord) error {
	row, err := toDAO(rec)
	if err != nil {
		return err
	}
	query := `INSERT INTO ordering_history
		(id, tasks, edge_count, edges, result_order, has_cycle, error_message, duration_us, create_time)
		VALUES (:id, :tasks, :edge_count, :edges, :result_order, :has_cycle, :error_message, :duration_us, :create_time)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("保存排序记录失败: ID=%s, Error=%w", rec.ID, err)
	}
	return nil
}

// GetByID 按ID查询
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*OrderingRecord, error) {
	var row dao.OrderingDAO
	query := r.db.Rebind(`SELECT * FROM ordering_history WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: ID=%s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("查询排序记录失败: ID=%s, Error=%w", id, err)
	}
	return fromDAO(&row)
}

// List 按创建时间倒序列出记录
func (r *SQLRepository) List(ctx context.Context, limit, offset int) ([]*OrderingRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var rows []dao.OrderingDAO
	query := r.db.Rebind(`SELECT * FROM ordering_history ORDER BY create_time DESC, id LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("查询排序记录失败: %w", err)
	}

	records := make([]*OrderingRecord, 0, len(rows))
	for i := range rows {
		rec, err := fromDAO(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteBefore 删除早于 before 的记录
func (r *SQLRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM ordering_history WHERE create_time < ?`)
	result, err := r.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("清理排序记录失败: %w", err)
	}
	return result.RowsAffected()
}

func toDAO(rec *OrderingRecord) (*dao.OrderingDAO, error) {
	edges := rec.Edges
	if edges == nil {
		edges = [][2]int{}
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, fmt.Errorf("序列化边失败: %w", err)
	}
	row := &dao.OrderingDAO{
		ID:         rec.ID,
		Tasks:      rec.Tasks,
		EdgeCount:  len(rec.Edges),
		Edges:      string(edgesJSON),
		Cycle:      rec.Cycle,
		DurationUS: rec.Duration.Microseconds(),
		CreateTime: rec.CreateTime.UTC(),
	}
	if rec.Order != nil {
		orderJSON, err := json.Marshal(rec.Order)
		if err != nil {
			return nil, fmt.Errorf("序列化拓扑序失败: %w", err)
		}
		row.ResultOrder = sql.NullString{String: string(orderJSON), Valid: true}
	}
	if rec.ErrorMessage != "" {
		row.ErrorMessage = sql.NullString{String: rec.ErrorMessage, Valid: true}
	}
	return row, nil
}

func fromDAO(row *dao.OrderingDAO) (*OrderingRecord, error) {
	rec := &OrderingRecord{
		ID:           row.ID,
		Tasks:        row.Tasks,
		Cycle:        row.Cycle,
		ErrorMessage: row.ErrorMessage.String,
		Duration:     time.Duration(row.DurationUS) * time.Microsecond,
		CreateTime:   row.CreateTime,
	}
	if err := json.Unmarshal([]byte(row.Edges), &rec.Edges); err != nil {
		return nil, fmt.Errorf("解析边失败: ID=%s, Error=%w", row.ID, err)
	}
	if row.ResultOrder.Valid {
		if err := json.Unmarshal([]byte(row.ResultOrder.String), &rec.Order); err != nil {
			return nil, fmt.Errorf("解析拓扑序失败: ID=%s, Error=%w", row.ID, err)
		}
	}
	return rec, nil
}

var _ OrderingRepository = (*SQLRepository)(nil)
