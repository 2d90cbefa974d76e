package book

import "time"

// Story 故事实体
// 拥有自己的角色、元素与场景，并可持有 Story 级版面覆盖。
type Story struct {
	ID              string          `json:"id"`               // 故事ID（UUID）
	Title           string          `json:"title"`            // 故事标题
	Description     string          `json:"description"`      // 故事简介
	BackgroundSetup string          `json:"background_setup"` // 背景设定
	Characters      []Character     `json:"characters"`       // Story 级角色
	Elements        []Element       `json:"elements"`         // 元素（仅 Story 级）
	Scenes          []Scene         `json:"scenes"`           // 场景（有序）
	Layout          *LayoutOverride `json:"layout,omitempty"` // Story 级版面覆盖（可选）
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewStory 创建故事
func NewStory(title, description, backgroundSetup string) *Story {
	now := time.Now()
	return &Story{
		Title:           title,
		Description:     description,
		BackgroundSetup: backgroundSetup,
		Characters:      []Character{},
		Elements:        []Element{},
		Scenes:          []Scene{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch 刷新更新时间
func (st *Story) Touch() {
	st.UpdatedAt = time.Now()
}

// Character 按名称查找 Story 级角色（忽略大小写）
func (st *Story) Character(name string) *Character {
	for i := range st.Characters {
		if sameName(st.Characters[i].Name, name) {
			return &st.Characters[i]
		}
	}
	return nil
}

// AddCharacter 添加 Story 级角色，同名（忽略大小写）冲突时报错
func (st *Story) AddCharacter(ch Character) error {
	if st.Character(ch.Name) != nil {
		return ErrDuplicateName
	}
	st.Characters = append(st.Characters, ch)
	st.Touch()
	return nil
}

// DetachCharacter 从角色列表中摘除角色但保留场景引用
// 用于角色升级迁移：迁移后名称仍可在 Book 级解析，引用不应被清理。
func (st *Story) DetachCharacter(name string) (Character, bool) {
	for i := range st.Characters {
		if sameName(st.Characters[i].Name, name) {
			ch := st.Characters[i]
			st.Characters = append(st.Characters[:i], st.Characters[i+1:]...)
			st.Touch()
			return ch, true
		}
	}
	return Character{}, false
}

// RemoveCharacter 删除 Story 级角色并级联清理所有场景中的引用
func (st *Story) RemoveCharacter(name string) bool {
	if _, ok := st.DetachCharacter(name); !ok {
		return false
	}
	for i := range st.Scenes {
		st.Scenes[i].RemoveCharacterRef(name)
	}
	st.Touch()
	return true
}

// RenameCharacter 重命名 Story 级角色并同步重写所有场景引用
func (st *Story) RenameCharacter(oldName, newName string) error {
	ch := st.Character(oldName)
	if ch == nil {
		return nil
	}
	// 改名后的名称不能与其他角色冲突（忽略大小写，自身除外）
	if dup := st.Character(newName); dup != nil && dup != ch {
		return ErrDuplicateName
	}
	ch.Name = newName
	for i := range st.Scenes {
		st.Scenes[i].RenameCharacterRef(oldName, newName)
	}
	st.Touch()
	return nil
}

// Element 按名称查找元素（忽略大小写）
func (st *Story) Element(name string) *Element {
	for i := range st.Elements {
		if sameName(st.Elements[i].Name, name) {
			return &st.Elements[i]
		}
	}
	return nil
}

// AddElement 添加元素，同名（忽略大小写）冲突时报错
func (st *Story) AddElement(el Element) error {
	if st.Element(el.Name) != nil {
		return ErrDuplicateName
	}
	st.Elements = append(st.Elements, el)
	st.Touch()
	return nil
}

// RemoveElement 删除元素并级联清理所有场景中的引用
func (st *Story) RemoveElement(name string) bool {
	for i := range st.Elements {
		if sameName(st.Elements[i].Name, name) {
			st.Elements = append(st.Elements[:i], st.Elements[i+1:]...)
			for j := range st.Scenes {
				st.Scenes[j].RemoveElementRef(name)
			}
			st.Touch()
			return true
		}
	}
	return false
}

// RenameElement 重命名元素并同步重写所有场景引用
func (st *Story) RenameElement(oldName, newName string) error {
	el := st.Element(oldName)
	if el == nil {
		return nil
	}
	if dup := st.Element(newName); dup != nil && dup != el {
		return ErrDuplicateName
	}
	el.Name = newName
	for i := range st.Scenes {
		st.Scenes[i].RenameElementRef(oldName, newName)
	}
	st.Touch()
	return nil
}

// Scene 按ID查找场景
func (st *Story) Scene(id string) *Scene {
	for i := range st.Scenes {
		if st.Scenes[i].ID == id {
			return &st.Scenes[i]
		}
	}
	return nil
}

// AddScene 追加场景
func (st *Story) AddScene(sc Scene) {
	st.Scenes = append(st.Scenes, sc)
	st.Touch()
}

// RemoveScene 删除场景
func (st *Story) RemoveScene(id string) bool {
	for i := range st.Scenes {
		if st.Scenes[i].ID == id {
			st.Scenes = append(st.Scenes[:i], st.Scenes[i+1:]...)
			st.Touch()
			return true
		}
	}
	return false
}
