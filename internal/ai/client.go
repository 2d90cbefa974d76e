// Package ai 封装提示词草拟能力
// 生成插图前，用文本模型把书籍风格、角色设定和场景描述
// 组织成一段适合文生图模型的英文提示词。
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"fable/internal/ai/component"
	"fable/internal/config"
	"fable/internal/model/book"
)

const draftSystemPrompt = "You are an art director for illustrated fiction. " +
	"Given story context, write a single concise English prompt for a text-to-image model. " +
	"Describe subject, composition, mood and art style. Output only the prompt, no commentary."

// Client 提示词草拟客户端
type Client struct {
	chatModel model.BaseChatModel
}

// NewClient 创建提示词草拟客户端
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &Client{chatModel: chatModel}, nil
}

// DraftCharacterPrompt 草拟角色立绘提示词
func (c *Client) DraftCharacterPrompt(ctx context.Context, b *book.Book, ch *book.Character) (string, error) {
	var sb strings.Builder
	sb.WriteString("Draw a character portrait.\n")
	if b.Style != "" {
		fmt.Fprintf(&sb, "Art style: %s\n", b.Style)
	}
	if b.BackgroundSetup != "" {
		fmt.Fprintf(&sb, "World setting: %s\n", b.BackgroundSetup)
	}
	fmt.Fprintf(&sb, "Character name: %s\n", ch.Name)
	if ch.Description != "" {
		fmt.Fprintf(&sb, "Character description: %s\n", ch.Description)
	}

	return c.draft(ctx, sb.String())
}

// DraftScenePrompt 草拟场景插图提示词
// 场景引用的角色设定一并带入，保证生成结果与角色形象一致
func (c *Client) DraftScenePrompt(ctx context.Context, b *book.Book, st *book.Story, sc *book.Scene) (string, error) {
	var sb strings.Builder
	sb.WriteString("Draw a scene illustration.\n")
	if b.Style != "" {
		fmt.Fprintf(&sb, "Art style: %s\n", b.Style)
	}
	if st.BackgroundSetup != "" {
		fmt.Fprintf(&sb, "Story setting: %s\n", st.BackgroundSetup)
	} else if b.BackgroundSetup != "" {
		fmt.Fprintf(&sb, "World setting: %s\n", b.BackgroundSetup)
	}
	fmt.Fprintf(&sb, "Scene: %s\n", sc.Title)
	if sc.Description != "" {
		fmt.Fprintf(&sb, "Scene description: %s\n", sc.Description)
	}
	if sc.TextPanel != "" {
		fmt.Fprintf(&sb, "Narration: %s\n", sc.TextPanel)
	}

	for _, name := range sc.Characters {
		// 先找故事级角色，再回落到书级角色
		ch := st.Character(name)
		if ch == nil {
			ch = b.Character(name)
		}
		if ch != nil && ch.Description != "" {
			fmt.Fprintf(&sb, "Character %s: %s\n", ch.Name, ch.Description)
		}
	}
	for _, name := range sc.Elements {
		el := st.Element(name)
		if el != nil && el.Description != "" {
			fmt.Fprintf(&sb, "Element %s: %s\n", el.Name, el.Description)
		}
	}

	return c.draft(ctx, sb.String())
}

// draft 调用模型生成提示词
func (c *Client) draft(ctx context.Context, input string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(draftSystemPrompt),
		schema.UserMessage(input),
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("prompt drafting failed: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}
