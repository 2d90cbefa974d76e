package book

import "time"

const (
	// MaxGalleryImages 角色图库上限，超出时先淘汰最旧的一张（下标0）
	MaxGalleryImages = 10

	// MaxImageHistory 场景生成历史上限，超出时先淘汰最旧的一条
	MaxImageHistory = 20

	// UnknownModelName 图片记录来源模型未知时使用的占位值
	UnknownModelName = "unknown"
)

// ImageRecord 图片记录（仅元数据）
// 实际图片数据存放在外部资产存储中，以 ID 为键
type ImageRecord struct {
	ID         string    `json:"id"`                    // 资产ID（UUID）
	ModelName  string    `json:"model_name"`            // 生成该图片的模型名称
	Timestamp  time.Time `json:"timestamp"`             // 生成时间
	PromptHash string    `json:"prompt_hash,omitempty"` // 提示词摘要（可选）
}
