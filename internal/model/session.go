package model

import "github.com/studyforge/study-note-service/pkg/timex"

const TableNameSession = "session"

// Session mapped from table <session>
type Session struct {
	ID                     string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	State                  string     `gorm:"column:state;not null;index:idx_session_state" json:"state" form:"state"`
	UserUID                int64      `gorm:"column:user_uid;default:0" json:"userUid" form:"userUid"`
	ConvertedFromSessionID string     `gorm:"column:converted_from_session_id" json:"convertedFromSessionId" form:"convertedFromSessionId"`
	ExpiresAt              timex.Time `gorm:"column:expires_at;type:datetime;default:NULL" json:"expiresAt" form:"expiresAt"`
	CreatedAt              timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt              timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Session's table name
func (*Session) TableName() string {
	return TableNameSession
}

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Username  string     `gorm:"column:username;not null;uniqueIndex:idx_user_username" json:"username" form:"username"`
	Password  string     `gorm:"column:password;not null" json:"-" form:"-"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
