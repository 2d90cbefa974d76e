package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"fable/internal/config"
)

const (
	defaultArkImageModel = "doubao-seedream-3-0-t2i-250415"
	defaultArkBaseURL    = "https://ark.cn-beijing.volces.com/api/v3"
	defaultImageSize     = "1024x1024"
)

// ArkProvider 火山引擎Ark文生图客户端
// 参考 Python SDK: volcenginesdkarkruntime.Ark().images.generate()
type ArkProvider struct {
	client *arkruntime.Client
	model  string
	size   string
}

// NewArkProvider 创建Ark文生图客户端
func NewArkProvider(cfg config.ImageGenConfig) (*ArkProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("imagegen.api_key is required")
	}

	m := cfg.Model
	if m == "" {
		m = defaultArkImageModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultArkBaseURL
	}

	arkClient := arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL))

	return &ArkProvider{
		client: arkClient,
		model:  m,
		size:   cfg.Size,
	}, nil
}

// ModelName 返回底层模型名称
func (p *ArkProvider) ModelName() string {
	return p.model
}

// GenerateImage 根据提示词生成一张图片
func (p *ArkProvider) GenerateImage(ctx context.Context, prompt string, size string) ([]byte, error) {
	if size == "" {
		size = p.size
	}
	if size == "" {
		size = defaultImageSize
	}

	responseFormat := "b64_json"
	watermark := false

	input := model.GenerateImagesRequest{
		Model:          p.model,
		Prompt:         prompt,
		Size:           &size,
		ResponseFormat: &responseFormat,
		Watermark:      &watermark,
	}

	output, err := p.client.GenerateImages(ctx, input)
	if err != nil {
		log.Error().Err(err).Msg("failed to call Ark GenerateImages API")
		return nil, fmt.Errorf("Ark GenerateImages API call failed: %w", err)
	}

	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	firstImage := output.Data[0]
	if firstImage.B64Json == nil {
		return nil, fmt.Errorf("no b64_json in response data")
	}

	imageData, err := base64.StdEncoding.DecodeString(*firstImage.B64Json)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	return imageData, nil
}
