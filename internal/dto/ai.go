package dto

// AiInvokeRequest AI 工具调用请求参数
type AiInvokeRequest struct {
	ToolType string `json:"toolType" form:"toolType" binding:"required"`
	Input    string `json:"input" form:"input" binding:"required"`
}

// AiResultDTO AI 工具调用响应
type AiResultDTO struct {
	OutputID       string `json:"outputId"`
	Content        string `json:"content"`
	TokensUsed     int64  `json:"tokensUsed"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	Success        bool   `json:"success"`
}
