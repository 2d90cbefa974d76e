package book

import "time"

// DiagramPanel 图示面板内容
type DiagramPanel struct {
	Format  string `json:"format"`  // 图示格式，如 mermaid
	Content string `json:"content"` // 图示源文本
}

// Scene 场景实体
// 场景对角色/元素的引用只记录名称，读取时在所属 Story 与 Book 的角色并集中解析，
// 不做反范式冗余。
type Scene struct {
	ID           string          `json:"id"`                      // 场景ID（UUID）
	Title        string          `json:"title"`                   // 场景标题
	Description  string          `json:"description"`             // 场景描述
	TextPanel    string          `json:"text_panel,omitempty"`    // 文字面板内容（可选）
	DiagramPanel *DiagramPanel   `json:"diagram_panel,omitempty"` // 图示面板内容（可选）
	Layout       *LayoutOverride `json:"layout,omitempty"`        // 场景级版面覆盖（可选）
	Characters   []string        `json:"characters"`              // 角色名称引用（有序）
	Elements     []string        `json:"elements"`                // 元素名称引用（有序）
	ImageHistory []ImageRecord   `json:"image_history,omitempty"` // 生成图片历史（最新在尾部，上限20）
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewScene 创建场景
func NewScene(title, description string) *Scene {
	now := time.Now()
	return &Scene{
		Title:       title,
		Description: description,
		Characters:  []string{},
		Elements:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch 刷新更新时间
func (s *Scene) Touch() {
	s.UpdatedAt = time.Now()
}

// AddCharacterRef 追加角色名称引用（忽略大小写去重）
func (s *Scene) AddCharacterRef(name string) {
	for _, ref := range s.Characters {
		if sameName(ref, name) {
			return
		}
	}
	s.Characters = append(s.Characters, name)
	s.Touch()
}

// RemoveCharacterRef 移除角色名称引用
func (s *Scene) RemoveCharacterRef(name string) bool {
	for i, ref := range s.Characters {
		if sameName(ref, name) {
			s.Characters = append(s.Characters[:i], s.Characters[i+1:]...)
			s.Touch()
			return true
		}
	}
	return false
}

// RenameCharacterRef 重写角色名称引用（保持原有顺序）
func (s *Scene) RenameCharacterRef(oldName, newName string) bool {
	changed := false
	for i, ref := range s.Characters {
		if sameName(ref, oldName) {
			s.Characters[i] = newName
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed
}

// AddElementRef 追加元素名称引用（忽略大小写去重）
func (s *Scene) AddElementRef(name string) {
	for _, ref := range s.Elements {
		if sameName(ref, name) {
			return
		}
	}
	s.Elements = append(s.Elements, name)
	s.Touch()
}

// RemoveElementRef 移除元素名称引用
func (s *Scene) RemoveElementRef(name string) bool {
	for i, ref := range s.Elements {
		if sameName(ref, name) {
			s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
			s.Touch()
			return true
		}
	}
	return false
}

// RenameElementRef 重写元素名称引用
func (s *Scene) RenameElementRef(oldName, newName string) bool {
	changed := false
	for i, ref := range s.Elements {
		if sameName(ref, oldName) {
			s.Elements[i] = newName
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed
}

// SetLayout 设置场景级版面覆盖
func (s *Scene) SetLayout(layout *LayoutOverride) {
	s.Layout = layout
	s.Touch()
}

// ClearLayout 清除场景级版面覆盖，回退到 Story/Book 级设置
func (s *Scene) ClearLayout() {
	s.Layout = nil
	s.Touch()
}

// AppendImageHistory 追加生成图片记录
// 超出上限时从头部淘汰最旧的记录并返回，调用方负责清理对应资产。
func (s *Scene) AppendImageHistory(rec ImageRecord) []ImageRecord {
	s.ImageHistory = append(s.ImageHistory, rec)

	var evicted []ImageRecord
	for len(s.ImageHistory) > MaxImageHistory {
		evicted = append(evicted, s.ImageHistory[0])
		s.ImageHistory = s.ImageHistory[1:]
	}
	s.Touch()
	return evicted
}
