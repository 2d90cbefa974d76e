// Package imagegen 封装角色与场景插图的文生图能力
package imagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Provider 图片生成提供方
// 返回生成的图片二进制数据（PNG）
type Provider interface {
	// GenerateImage 根据提示词生成一张图片
	GenerateImage(ctx context.Context, prompt string, size string) ([]byte, error)

	// ModelName 返回底层模型名称，用于记录图片来源
	ModelName() string
}

// PromptHash 计算提示词哈希，用于画廊记录的去重与溯源
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}
