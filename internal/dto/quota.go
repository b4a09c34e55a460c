package dto

// QuotaPeekRequest 配额查询请求参数
type QuotaPeekRequest struct {
	ActionKind string `json:"actionKind" form:"actionKind" binding:"required"`
}

// QuotaDTO 配额计数响应，供 UI 展示剩余用量
type QuotaDTO struct {
	ActionKind string `json:"actionKind"`
	Count      int64  `json:"count"`
	Limit      int64  `json:"limit"`
	Window     string `json:"window"`
}
