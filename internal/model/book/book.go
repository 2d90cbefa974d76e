package book

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Book 书籍聚合根（主表）
// 整个层级结构的顶点：持有全书风格、默认版面、Book 级角色与所有 Story。
// Book 的生命周期决定其下所有 Story/Scene 的生命周期。
type Book struct {
	ID              string          `json:"id"`      // 书籍ID（UUID）
	UserID          string          `json:"user_id"` // 归属用户
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	BackgroundSetup string          `json:"background_setup"`
	AspectRatio     string          `json:"aspect_ratio"`             // 全书默认画幅，如 "16:9"
	Style           string          `json:"style"`                    // 全书画风描述
	DefaultLayout   *LayoutOverride `json:"default_layout,omitempty"` // Book 级默认版面（可选）
	Characters      []Character     `json:"characters"`               // Book 级角色（全书共享）
	Stories         []Story         `json:"stories"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// NewBook 创建书籍
func NewBook(userID, title, description, backgroundSetup string) *Book {
	now := time.Now()
	return &Book{
		UserID:          userID,
		Title:           title,
		Description:     description,
		BackgroundSetup: backgroundSetup,
		Characters:      []Character{},
		Stories:         []Story{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch 刷新更新时间
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// Story 按ID查找故事
func (b *Book) Story(id string) *Story {
	for i := range b.Stories {
		if b.Stories[i].ID == id {
			return &b.Stories[i]
		}
	}
	return nil
}

// AddStory 追加故事
func (b *Book) AddStory(st Story) {
	b.Stories = append(b.Stories, st)
	b.Touch()
}

// RemoveStory 删除故事（其下场景随之删除）
func (b *Book) RemoveStory(id string) bool {
	for i := range b.Stories {
		if b.Stories[i].ID == id {
			b.Stories = append(b.Stories[:i], b.Stories[i+1:]...)
			b.Touch()
			return true
		}
	}
	return false
}

// Character 按名称查找 Book 级角色（忽略大小写）
func (b *Book) Character(name string) *Character {
	for i := range b.Characters {
		if sameName(b.Characters[i].Name, name) {
			return &b.Characters[i]
		}
	}
	return nil
}

// AddCharacter 添加 Book 级角色，同名（忽略大小写）冲突时报错
func (b *Book) AddCharacter(ch Character) error {
	if b.Character(ch.Name) != nil {
		return ErrDuplicateName
	}
	b.Characters = append(b.Characters, ch)
	b.Touch()
	return nil
}

// DetachCharacter 从 Book 级列表摘除角色但保留场景引用（用于降级迁移）
func (b *Book) DetachCharacter(name string) (Character, bool) {
	for i := range b.Characters {
		if sameName(b.Characters[i].Name, name) {
			ch := b.Characters[i]
			b.Characters = append(b.Characters[:i], b.Characters[i+1:]...)
			b.Touch()
			return ch, true
		}
	}
	return Character{}, false
}

// RemoveCharacter 删除 Book 级角色并级联清理所有 Story 场景中的引用
// 某个 Story 自己持有同名角色时跳过该 Story：其场景引用解析到的是 Story 级角色。
func (b *Book) RemoveCharacter(name string) bool {
	if _, ok := b.DetachCharacter(name); !ok {
		return false
	}
	for i := range b.Stories {
		if b.Stories[i].Character(name) != nil {
			continue
		}
		for j := range b.Stories[i].Scenes {
			b.Stories[i].Scenes[j].RemoveCharacterRef(name)
		}
	}
	b.Touch()
	return true
}

// RenameCharacter 重命名 Book 级角色并同步重写所有 Story 场景中的引用
// 与 RemoveCharacter 相同，持有同名 Story 级角色的 Story 不受影响。
func (b *Book) RenameCharacter(oldName, newName string) error {
	ch := b.Character(oldName)
	if ch == nil {
		return nil
	}
	if dup := b.Character(newName); dup != nil && dup != ch {
		return ErrDuplicateName
	}
	ch.Name = newName
	for i := range b.Stories {
		if b.Stories[i].Character(oldName) != nil {
			continue
		}
		for j := range b.Stories[i].Scenes {
			b.Stories[i].Scenes[j].RenameCharacterRef(oldName, newName)
		}
	}
	b.Touch()
	return nil
}

// Collection 返回集合名称
func (b *Book) Collection() string { return "books" }

// EnsureIndexes 创建和维护索引
func (b *Book) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(b.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "stories.id", Value: 1}},
			Options: options.Index().SetName("idx_story_id"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
