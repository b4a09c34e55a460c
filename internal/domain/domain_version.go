package domain

import "time"

// Version content snapshot, immutable once written
// Version 内容快照，写入后不可变
// 版本号按目标严格递增、从不复用，清理旧版本后允许留下空洞
type Version struct {
	ID             int64
	TargetID       int64
	VersionNumber  int64
	Content        string
	ChangesSummary string
	CreatedBy      string
	SavedAt        time.Time
}
