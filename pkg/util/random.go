package util

import (
	"math/rand"
)

// GetRandomString 生成指定长度的随机字符串
func GetRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	for i := range b {
		// 直接使用全局 rand，无需每次都 NewSource
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
