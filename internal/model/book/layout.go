package book

// LayoutType 版面类型
type LayoutType string

const (
	LayoutTypeOverlay         LayoutType = "overlay"          // 文字叠加在图片上
	LayoutTypeComicSideBySide LayoutType = "comic-sidebyside" // 漫画左右分栏
	LayoutTypeComicVertical   LayoutType = "comic-vertical"   // 漫画上下分栏
	LayoutTypeCustom          LayoutType = "custom"           // 自定义版面
)

// Canvas 画布尺寸
type Canvas struct {
	Width       int    `json:"width"`        // 画布宽度（像素）
	Height      int    `json:"height"`       // 画布高度（像素）
	AspectRatio string `json:"aspect_ratio"` // 宽高比，如 "16:9"
}

// PositionedRect 定位矩形
// 描述某个版面元素在画布上的位置与层级
type PositionedRect struct {
	X           float64 `json:"x"`                      // 左上角 X 坐标
	Y           float64 `json:"y"`                      // 左上角 Y 坐标
	Width       float64 `json:"width"`                  // 宽度
	Height      float64 `json:"height"`                 // 高度
	ZIndex      int     `json:"z_index"`                // 层级（越大越靠上）
	AspectRatio string  `json:"aspect_ratio,omitempty"` // 宽高比（可选）
}

// LayoutElements 版面元素集合
type LayoutElements struct {
	Image        PositionedRect  `json:"image"`                   // 生成图片的位置（必有）
	TextPanel    *PositionedRect `json:"text_panel,omitempty"`    // 文字面板位置（可选）
	DiagramPanel *PositionedRect `json:"diagram_panel,omitempty"` // 图示面板位置（可选）
}

// LayoutOverride 版面覆盖
// Scene/Story/Book 三级均可持有，读取时按 scene > story > book 逐级回退解析
type LayoutOverride struct {
	Type     LayoutType     `json:"type"`     // 版面类型
	Canvas   Canvas         `json:"canvas"`   // 画布尺寸
	Elements LayoutElements `json:"elements"` // 各元素的定位
}
