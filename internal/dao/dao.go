// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/studyforge/study-note-service/pkg/fileurl"
	"github.com/studyforge/study-note-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Config 数据库连接配置，由应用容器从 AppConfig 映射而来
type Config struct {
	Type         string
	Path         string
	UserName     string
	Password     string
	Host         string
	Name         string
	TablePrefix  string
	Charset      string
	ParseTime    bool
	MaxIdleConns int
	MaxOpenConns int
	RunMode      string
}

// Dao 数据访问对象，持有 DB 连接与写队列
type Dao struct {
	db     *gorm.DB
	wq     *writequeue.Manager
	logger *zap.Logger
}

// New 创建 Dao 实例
func New(db *gorm.DB, wq *writequeue.Manager, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, wq: wq, logger: lg}
}

// DB 返回底层 gorm 连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// ExecuteWrite executes fn inside a transaction, serialized on key
// Writes sharing the same key run strictly one at a time in FIFO order
// ExecuteWrite 在事务中执行 fn，并按 key 串行化
// 同一 key 的写操作严格按 FIFO 顺序逐个执行
func (d *Dao) ExecuteWrite(ctx context.Context, key string, fn func(tx *gorm.DB) error) error {
	if d.wq == nil {
		return d.db.WithContext(ctx).Transaction(fn)
	}
	return d.wq.Execute(ctx, key, func() error {
		return d.db.WithContext(ctx).Transaction(fn)
	})
}

// NewDBEngine 创建数据库引擎
func NewDBEngine(c Config) (*gorm.DB, error) {

	db, err := gorm.Open(dialector(c), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	} else {
		db.Config.Logger = logger.Default.LogMode(logger.Silent)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)

	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	// 内存库每个连接各自持有一个独立的空库，必须固定为单连接
	if c.Type == "sqlite" && c.Path == ":memory:" {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	return db, nil
}

func dialector(c Config) gorm.Dialector {
	if c.Type == "mysql" {
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	} else if c.Type == "sqlite" {
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
