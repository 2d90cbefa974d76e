package book

// Element 故事元素（道具、地点、氛围等）
// 元素始终归属于 Story，名称在所属 Story 内大小写不敏感唯一。
type Element struct {
	Name        string `json:"name"`               // 元素名称（Story 内唯一，忽略大小写）
	Description string `json:"description"`        // 元素描述
	Category    string `json:"category,omitempty"` // 分类（可选）
}
