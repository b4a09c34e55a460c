package model

import "github.com/studyforge/study-note-service/pkg/timex"

const TableNameVersion = "version"

// Version mapped from table <version>
// 版本快照写入后不可变
type Version struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	TargetID       int64      `gorm:"column:target_id;not null;uniqueIndex:idx_version_target_number,priority:1" json:"targetId" form:"targetId"`
	VersionNumber  int64      `gorm:"column:version_number;not null;uniqueIndex:idx_version_target_number,priority:2" json:"versionNumber" form:"versionNumber"`
	Content        string     `gorm:"column:content" json:"content" form:"content"`
	ChangesSummary string     `gorm:"column:changes_summary" json:"changesSummary" form:"changesSummary"`
	CreatedBy      string     `gorm:"column:created_by;not null" json:"createdBy" form:"createdBy"`
	SavedAt        timex.Time `gorm:"column:saved_at;type:datetime;autoCreateTime" json:"savedAt" form:"savedAt"`
}

// TableName Version's table name
func (*Version) TableName() string {
	return TableNameVersion
}
