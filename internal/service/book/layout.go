package book

import (
	"fable/internal/model/book"
)

// LayoutSource 版面来源层级
type LayoutSource string

const (
	LayoutSourceScene   LayoutSource = "scene"   // 场景级覆盖
	LayoutSourceStory   LayoutSource = "story"   // 故事级覆盖
	LayoutSourceBook    LayoutSource = "book"    // 书籍默认版面
	LayoutSourceDefault LayoutSource = "default" // 系统默认
)

// DefaultLayoutType 三级均未配置时的系统默认版面类型
const DefaultLayoutType = book.LayoutTypeOverlay

// ResolveLayout 解析场景实际生效的版面
// 按 scene > story > book 的优先级取第一个存在的覆盖；story/book 可为 nil，
// 视为该层级缺席而非错误。三级都没有时返回 nil，调用方使用系统默认。
// 解析结果永远即时推导，不缓存进实体：任何一级的修改都要立即生效。
func ResolveLayout(sc *book.Scene, st *book.Story, b *book.Book) *book.LayoutOverride {
	if sc != nil && sc.Layout != nil {
		return sc.Layout
	}
	if st != nil && st.Layout != nil {
		return st.Layout
	}
	if b != nil && b.DefaultLayout != nil {
		return b.DefaultLayout
	}
	return nil
}

// LayoutSourceOf 解析版面来源层级
func LayoutSourceOf(sc *book.Scene, st *book.Story, b *book.Book) LayoutSource {
	if sc != nil && sc.Layout != nil {
		return LayoutSourceScene
	}
	if st != nil && st.Layout != nil {
		return LayoutSourceStory
	}
	if b != nil && b.DefaultLayout != nil {
		return LayoutSourceBook
	}
	return LayoutSourceDefault
}

// SceneHasOwnLayout 场景是否有自己的版面覆盖
func SceneHasOwnLayout(sc *book.Scene) bool {
	return sc != nil && sc.Layout != nil
}

// StoryHasLayout 故事是否有版面覆盖
func StoryHasLayout(st *book.Story) bool {
	return st != nil && st.Layout != nil
}

// BookHasDefaultLayout 书籍是否有默认版面
func BookHasDefaultLayout(b *book.Book) bool {
	return b != nil && b.DefaultLayout != nil
}
