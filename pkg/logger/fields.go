package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldSessionID 会话 ID 字段
	FieldSessionID = "sessionId"

	// FieldUserID 用户 ID 字段
	FieldUserID = "userId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldTargetID 目标 ID 字段（笔记/章节/主题）
	FieldTargetID = "targetId"

	// FieldVersion 版本号字段
	FieldVersion = "version"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldQuotaKind 配额窗口类型字段
	FieldQuotaKind = "quotaKind"

	// FieldCount 计数字段
	FieldCount = "count"
)
