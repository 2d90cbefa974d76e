package book

import (
	"reflect"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
)

// fullBook 构造一本字段全覆盖的书，用于映射往返测试
func fullBook() *book.Book {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tp := book.PositionedRect{X: 0, Y: 800, Width: 1920, Height: 280, ZIndex: 2}
	layout := &book.LayoutOverride{
		Type: book.LayoutTypeOverlay,
		Canvas: book.Canvas{Width: 1920, Height: 1080, AspectRatio: "16:9"},
		Elements: book.LayoutElements{
			Image:     book.PositionedRect{X: 0, Y: 0, Width: 1920, Height: 1080, ZIndex: 1, AspectRatio: "16:9"},
			TextPanel: &tp,
		},
	}

	scene := book.Scene{
		ID:          "scene-1",
		Title:       "相遇",
		Description: "两人在码头初次相遇",
		TextPanel:   "海风吹过。",
		DiagramPanel: &book.DiagramPanel{
			Format:  "mermaid",
			Content: "graph TD; A-->B",
		},
		Layout:     layout,
		Characters: []string{"Alice", "bob"},
		Elements:   []string{"灯塔"},
		ImageHistory: []book.ImageRecord{
			{ID: "h1", ModelName: "doubao-seedream", Timestamp: now, PromptHash: "abcd1234"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	story := book.Story{
		ID:              "story-1",
		Title:           "第一卷",
		Description:     "起点",
		BackgroundSetup: "港口小镇",
		Characters: []book.Character{
			{
				Name:        "bob",
				Description: "水手",
				ImageGallery: []book.ImageRecord{
					{ID: "g1", ModelName: "doubao-seedream", Timestamp: now},
				},
				SelectedImageID: "g1",
			},
		},
		Elements: []book.Element{
			{Name: "灯塔", Description: "镇口的旧灯塔", Category: "地点"},
		},
		Scenes:    []book.Scene{scene},
		Layout:    layout,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &book.Book{
		ID:              "book-1",
		UserID:          "user-1",
		Title:           "灯塔之约",
		Description:     "测试用书",
		BackgroundSetup: "近代海滨",
		AspectRatio:     "16:9",
		Style:           "水彩插画",
		DefaultLayout:   layout,
		Characters: []book.Character{
			{
				Name:        "Alice",
				Description: "主角",
				ImageGallery: []book.ImageRecord{
					{ID: "g2", ModelName: "doubao-seedream", Timestamp: now, PromptHash: "ff00"},
				},
				SelectedImageID:  "g2",
				ReferenceImageID: "g2",
			},
		},
		Stories:   []book.Story{story},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDocumentMapping(t *testing.T) {
	Convey("存储文档映射", t, func() {
		Convey("实体与文档往返后内容不变", func() {
			b := fullBook()
			got := fromDocument(toDocument(b))
			So(reflect.DeepEqual(got, b), ShouldBeTrue)
		})

		Convey("往返是幂等的", func() {
			b := fullBook()
			once := fromDocument(toDocument(b))
			twice := fromDocument(toDocument(once))
			So(reflect.DeepEqual(twice, once), ShouldBeTrue)
		})

		Convey("空书往返后切片保持非nil", func() {
			b := book.NewBook("user-1", "空书", "", "")
			b.ID = "book-empty"
			got := fromDocument(toDocument(b))
			So(got.Characters, ShouldNotBeNil)
			So(got.Stories, ShouldNotBeNil)
			So(reflect.DeepEqual(got, b), ShouldBeTrue)
		})

		Convey("软删除时间被保留", func() {
			b := fullBook()
			deleted := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			b.DeletedAt = &deleted
			got := fromDocument(toDocument(b))
			So(got.DeletedAt, ShouldNotBeNil)
			So(got.DeletedAt.Equal(deleted), ShouldBeTrue)
		})

		Convey("缺失的模型名用占位值补齐", func() {
			doc := imageRecordDocument{ID: "g1", Timestamp: time.Now()}
			rec := imageRecordFromDocument(doc)
			So(rec.ModelName, ShouldEqual, book.UnknownModelName)
		})
	})
}
