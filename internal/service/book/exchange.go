package book

import (
	"context"

	"fable/internal/model/book"
)

// 交换格式：面向跨系统导入导出的可移植子集。
// 不携带内部ID，导入时所有ID重新生成，绝不信任来源载荷里的标识；
// 生成历史属于瞬态数据，导出时省略，导入时兼容接受（超限部分按规则淘汰）。

// CharacterExchange 角色交换格式
// 画廊记录绑定在本系统的资产存储上，不可移植，因此只导出名称与描述
type CharacterExchange struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ElementExchange 元素交换格式
type ElementExchange struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// SceneExchange 场景交换格式
type SceneExchange struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	TextPanel    string               `json:"text_panel,omitempty"`
	DiagramPanel *book.DiagramPanel   `json:"diagram_panel,omitempty"`
	Layout       *book.LayoutOverride `json:"layout,omitempty"`
	Characters   []string             `json:"characters"`
	Elements     []string             `json:"elements"`
	ImageHistory []book.ImageRecord   `json:"image_history,omitempty"`
}

// StoryExchange 故事交换格式
type StoryExchange struct {
	Story struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		BackgroundSetup string `json:"background_setup"`
	} `json:"story"`
	Characters []CharacterExchange  `json:"characters"`
	Elements   []ElementExchange    `json:"elements"`
	Scenes     []SceneExchange      `json:"scenes"`
	Layout     *book.LayoutOverride `json:"layout,omitempty"`
}

// BookExchange 书籍交换格式（顶层载荷）
type BookExchange struct {
	Book struct {
		Title           string               `json:"title"`
		Description     string               `json:"description"`
		BackgroundSetup string               `json:"background_setup"`
		AspectRatio     string               `json:"aspect_ratio"`
		Style           string               `json:"style"`
		DefaultLayout   *book.LayoutOverride `json:"default_layout,omitempty"`
		Characters      []CharacterExchange  `json:"characters"`
	} `json:"book"`
	Stories []StoryExchange `json:"stories"`
}

// ExportBook 导出书籍为交换格式
func (s *Service) ExportBook(ctx context.Context, userID, bookID string) (*BookExchange, error) {
	b, err := s.loadOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return exportBook(b), nil
}

func exportBook(b *book.Book) *BookExchange {
	out := &BookExchange{Stories: []StoryExchange{}}
	out.Book.Title = b.Title
	out.Book.Description = b.Description
	out.Book.BackgroundSetup = b.BackgroundSetup
	out.Book.AspectRatio = b.AspectRatio
	out.Book.Style = b.Style
	out.Book.DefaultLayout = b.DefaultLayout
	out.Book.Characters = exportCharacters(b.Characters)

	for i := range b.Stories {
		out.Stories = append(out.Stories, exportStory(&b.Stories[i]))
	}
	return out
}

func exportCharacters(chs []book.Character) []CharacterExchange {
	out := make([]CharacterExchange, 0, len(chs))
	for _, ch := range chs {
		out = append(out, CharacterExchange{Name: ch.Name, Description: ch.Description})
	}
	return out
}

func exportStory(st *book.Story) StoryExchange {
	var out StoryExchange
	out.Story.Title = st.Title
	out.Story.Description = st.Description
	out.Story.BackgroundSetup = st.BackgroundSetup
	out.Characters = exportCharacters(st.Characters)
	out.Layout = st.Layout

	out.Elements = make([]ElementExchange, 0, len(st.Elements))
	for _, el := range st.Elements {
		out.Elements = append(out.Elements, ElementExchange{
			Name:        el.Name,
			Description: el.Description,
			Category:    el.Category,
		})
	}

	out.Scenes = make([]SceneExchange, 0, len(st.Scenes))
	for _, sc := range st.Scenes {
		out.Scenes = append(out.Scenes, SceneExchange{
			Title:        sc.Title,
			Description:  sc.Description,
			TextPanel:    sc.TextPanel,
			DiagramPanel: sc.DiagramPanel,
			Layout:       sc.Layout,
			Characters:   append([]string{}, sc.Characters...),
			Elements:     append([]string{}, sc.Elements...),
		})
	}
	return out
}

// ImportBook 从交换格式导入为一本新书
// 所有ID重新生成，导入结果是一份全新的聚合，不会覆盖已有书籍。
// 导入前跑完整校验，悬空引用或重名直接拒绝。
func (s *Service) ImportBook(ctx context.Context, userID string, payload *BookExchange) (*book.Book, error) {
	b := book.NewBook(userID, payload.Book.Title, payload.Book.Description, payload.Book.BackgroundSetup)
	b.ID = newID()
	b.AspectRatio = payload.Book.AspectRatio
	b.Style = payload.Book.Style
	b.DefaultLayout = payload.Book.DefaultLayout

	for _, ch := range payload.Book.Characters {
		if err := b.AddCharacter(book.Character{Name: ch.Name, Description: ch.Description}); err != nil {
			return nil, &MigrationError{
				Code:          MigrationConflict,
				Message:       "导入载荷书级角色重名：" + ch.Name,
				CharacterName: ch.Name,
			}
		}
	}

	for _, se := range payload.Stories {
		st, err := importStory(se)
		if err != nil {
			return nil, err
		}
		b.AddStory(*st)
	}

	if result := ValidateBook(b); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func importStory(se StoryExchange) (*book.Story, error) {
	st := book.NewStory(se.Story.Title, se.Story.Description, se.Story.BackgroundSetup)
	st.ID = newID()
	st.Layout = se.Layout

	for _, ch := range se.Characters {
		if err := st.AddCharacter(book.Character{Name: ch.Name, Description: ch.Description}); err != nil {
			return nil, &MigrationError{
				Code:          MigrationConflict,
				Message:       "导入载荷故事角色重名：" + ch.Name,
				CharacterName: ch.Name,
			}
		}
	}
	for _, el := range se.Elements {
		if err := st.AddElement(book.Element{Name: el.Name, Description: el.Description, Category: el.Category}); err != nil {
			return nil, &MigrationError{
				Code:    MigrationConflict,
				Message: "导入载荷元素重名：" + el.Name,
			}
		}
	}

	for _, sce := range se.Scenes {
		sc := book.NewScene(sce.Title, sce.Description)
		sc.ID = newID()
		sc.TextPanel = sce.TextPanel
		sc.DiagramPanel = sce.DiagramPanel
		sc.Layout = sce.Layout
		sc.Characters = append([]string{}, sce.Characters...)
		sc.Elements = append([]string{}, sce.Elements...)
		// 兼容携带生成历史的载荷，按上限规则淘汰最旧的
		for _, rec := range sce.ImageHistory {
			rec.ID = newID()
			if rec.ModelName == "" {
				rec.ModelName = book.UnknownModelName
			}
			sc.AppendImageHistory(rec)
		}
		st.AddScene(*sc)
	}
	return st, nil
}
