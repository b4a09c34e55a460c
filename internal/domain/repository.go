package domain

import (
	"context"
	"time"
)

// SessionRepository 会话仓储接口
type SessionRepository interface {
	// GetByID 根据ID获取会话
	GetByID(ctx context.Context, id string) (*Session, error)

	// Create 创建会话
	Create(ctx context.Context, session *Session) (*Session, error)

	// CompareAndSwapState 状态 CAS 转换，返回是否转换成功
	CompareAndSwapState(ctx context.Context, id string, from, to SessionState) (bool, error)

	// ExpireGuestsBefore 将 TTL 已过期的访客会话置为终态，返回影响行数
	ExpireGuestsBefore(ctx context.Context, now time.Time) (int64, error)
}

// ConversionRepository guest→user conversion as one atomic unit
// ConversionRepository 访客转正的原子单元
// 过期旧会话、创建账户与新会话、丢弃旧配额计数器、转移笔记归属，
// 全部在单个事务内完成
type ConversionRepository interface {
	ConvertGuest(ctx context.Context, guestSessionID string, user *User, newSession *Session) (*Session, *User, error)
}

// UserRepository 账户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取账户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByUsername 根据用户名获取账户
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// QuotaRepository 配额计数器仓储接口
// 计数器的读改写由 QuotaService 通过键队列串行化，仓储本身只负责存取
type QuotaRepository interface {
	// Get 获取计数器，不存在时返回 nil
	Get(ctx context.Context, sessionID string, kind ActionKind) (*QuotaCounter, error)

	// Save 创建或更新计数器
	Save(ctx context.Context, counter *QuotaCounter) (*QuotaCounter, error)

	// DeleteBySession 丢弃会话的全部计数器
	DeleteBySession(ctx context.Context, sessionID string) error
}

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id int64, ownerSessionID string) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateStatus 更新笔记状态
	UpdateStatus(ctx context.Context, id int64, ownerSessionID string, status NoteStatus) error

	// List 分页获取笔记列表
	List(ctx context.Context, ownerSessionID string, page, pageSize int) ([]*Note, int64, error)

	// Delete 删除笔记及其章节、主题和全部版本（级联）
	Delete(ctx context.Context, id int64, ownerSessionID string) error
}

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// GetByID 根据ID获取章节
	GetByID(ctx context.Context, id int64) (*Chapter, error)

	// Create 创建章节
	Create(ctx context.Context, chapter *Chapter) (*Chapter, error)

	// ListByNote 获取笔记下的章节，按 Position 升序
	ListByNote(ctx context.Context, noteID int64) ([]*Chapter, error)

	// NextPosition 笔记下一个章节序号
	NextPosition(ctx context.Context, noteID int64) (int64, error)

	// Delete 删除章节及其主题和全部版本（级联）
	Delete(ctx context.Context, id int64) error
}

// TopicRepository 主题仓储接口
type TopicRepository interface {
	// GetByID 根据ID获取主题
	GetByID(ctx context.Context, id int64) (*Topic, error)

	// Create 创建主题
	Create(ctx context.Context, topic *Topic) (*Topic, error)

	// ListByChapter 获取章节下的主题，按 Position 升序
	ListByChapter(ctx context.Context, chapterID int64) ([]*Topic, error)

	// NextPosition 章节下一个主题序号
	NextPosition(ctx context.Context, chapterID int64) (int64, error)

	// UpdateCurrentVersion 更新主题的最新版本号
	UpdateCurrentVersion(ctx context.Context, id int64, versionNumber int64) error

	// Delete 删除主题及其全部版本（级联）
	Delete(ctx context.Context, id int64) error
}

// VersionRepository 版本仓储接口
// 版本写入由 VersionService 按目标键串行化
type VersionRepository interface {
	// Create 写入版本快照
	Create(ctx context.Context, version *Version) (*Version, error)

	// GetByID 获取目标下的指定版本
	GetByID(ctx context.Context, id int64, targetID int64) (*Version, error)

	// GetLatest 获取目标的最新版本，不存在时返回 nil
	GetLatest(ctx context.Context, targetID int64) (*Version, error)

	// ListByTarget 获取目标全部版本，按版本号降序
	ListByTarget(ctx context.Context, targetID int64) ([]*Version, error)

	// MaxVersionNumber 目标当前最大版本号，无版本时返回 0
	MaxVersionNumber(ctx context.Context, targetID int64) (int64, error)

	// CountByTarget 目标现存版本数
	CountByTarget(ctx context.Context, targetID int64) (int64, error)

	// DeleteOldest 删除目标最旧的一个版本（保留策略）
	DeleteOldest(ctx context.Context, targetID int64) error
}

// UsageRepository 使用记录仓储接口，只增不删
type UsageRepository interface {
	// Append 追加一条使用记录
	Append(ctx context.Context, entry *UsageHistoryEntry) (*UsageHistoryEntry, error)

	// ListBySession 分页获取会话的使用记录，按时间降序
	ListBySession(ctx context.Context, sessionID string, page, pageSize int) ([]*UsageHistoryEntry, int64, error)
}
