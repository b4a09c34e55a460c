package code

// Success codes // 成功码
var (
	Success = NewSuss(0, lang{
		en:    "Success",
		zh_cn: "成功",
	})
	SuccessCreate = NewSuss(1, lang{
		en:    "Created successfully",
		zh_cn: "创建成功",
	})
	SuccessUpdate = NewSuss(2, lang{
		en:    "Updated successfully",
		zh_cn: "更新成功",
	})
	SuccessDelete = NewSuss(3, lang{
		en:    "Deleted successfully",
		zh_cn: "删除成功",
	})
	SuccessNoUpdate = NewSuss(4, lang{
		en:    "No update needed",
		zh_cn: "无需更新",
	})
)

// Common server errors // 通用服务错误
var (
	ServerError = NewError(10000000, lang{
		en:    "Server internal error",
		zh_cn: "服务内部错误",
	})
	ErrorServerInternal = NewError(10000001, lang{
		en:    "Server internal error",
		zh_cn: "服务内部错误",
	})
	ErrorInvalidParams = NewError(10000002, lang{
		en:    "Invalid request parameters",
		zh_cn: "入参错误",
	})
	ErrorNotFoundAPI = NewError(10000003, lang{
		en:    "API not found",
		zh_cn: "找不到API",
	})
	ErrorTooManyRequests = NewError(10000004, lang{
		en:    "Too many requests",
		zh_cn: "请求过多",
	})
	ErrorDBQuery = NewError(10000005, lang{
		en:    "Database query error",
		zh_cn: "数据库查询错误",
	})
	ErrorTimeout = NewError(10000006, lang{
		en:    "Request timeout",
		zh_cn: "请求超时",
	})
	ErrorTokenGenerate = NewError(10000007, lang{
		en:    "Token generation failed",
		zh_cn: "令牌生成失败",
	})
)

// Session errors // 会话错误
var (
	ErrorNotSessionAuthToken = NewError(10010001, lang{
		en:    "Session token required",
		zh_cn: "缺少会话令牌",
	})
	ErrorInvalidSessionAuthToken = NewError(10010002, lang{
		en:    "Invalid session token",
		zh_cn: "无效的会话令牌",
	})
	ErrorInvalidSession = NewError(10010003, lang{
		en:    "Session does not exist or is invalid",
		zh_cn: "会话不存在或无效",
	})
	ErrorSessionExpired = NewError(10010004, lang{
		en:    "Session has expired",
		zh_cn: "会话已过期",
	})
	ErrorConversionConflict = NewError(10010005, lang{
		en:    "Session is already bound to an account",
		zh_cn: "会话已绑定账户",
	})
	ErrorAccountAlreadyExists = NewError(10010006, lang{
		en:    "Account already exists",
		zh_cn: "账户已存在",
	})
	ErrorPasswordNotValid = NewError(10010007, lang{
		en:    "Password does not meet requirements",
		zh_cn: "密码不符合要求",
	})
)

// Quota errors // 配额错误
var (
	ErrorQuotaExceeded = NewError(10020001, lang{
		en:    "Usage quota exceeded",
		zh_cn: "使用配额已用尽",
	})
	ErrorUnknownActionKind = NewError(10020002, lang{
		en:    "Unknown action kind",
		zh_cn: "未知的操作类型",
	})
)

// Content hierarchy errors // 内容层级错误
var (
	ErrorNoteNotFound = NewError(10030001, lang{
		en:    "Note not found",
		zh_cn: "笔记不存在",
	})
	ErrorChapterNotFound = NewError(10030002, lang{
		en:    "Chapter not found",
		zh_cn: "章节不存在",
	})
	ErrorTopicNotFound = NewError(10030003, lang{
		en:    "Topic not found",
		zh_cn: "主题不存在",
	})
	ErrorNoteModifyOrCreateFailed = NewError(10030004, lang{
		en:    "Note create or modify failed",
		zh_cn: "笔记创建或修改失败",
	})
	ErrorNoteDeleteFailed = NewError(10030005, lang{
		en:    "Note delete failed",
		zh_cn: "笔记删除失败",
	})
)

// Version errors // 版本错误
var (
	ErrorVersionNotFound = NewError(10040001, lang{
		en:    "Version not found",
		zh_cn: "版本不存在",
	})
	ErrorConcurrentModification = NewError(10040002, lang{
		en:    "Content was modified concurrently, please retry",
		zh_cn: "内容被并发修改，请重试",
	})
	ErrorVersionSaveFailed = NewError(10040003, lang{
		en:    "Version save failed",
		zh_cn: "版本保存失败",
	})
)

// AI errors // AI 错误
var (
	ErrorAiInvokeFailed = NewError(10050001, lang{
		en:    "AI invocation failed",
		zh_cn: "AI 调用失败",
	})
	ErrorAiBackendUnavailable = NewError(10050002, lang{
		en:    "AI backend unavailable",
		zh_cn: "AI 后端不可用",
	})
)
