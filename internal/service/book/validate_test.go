package book

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
)

func validBook() *book.Book {
	b := book.NewBook("user-1", "灯塔之约", "海滨小镇群像", "近代海滨小镇")
	b.ID = "book-1"

	st := book.NewStory("第一卷", "故事的起点", "港口")
	st.ID = "story-1"
	_ = st.AddCharacter(book.Character{Name: "Bob", Description: "水手"})
	_ = st.AddElement(book.Element{Name: "灯塔", Description: "镇口的旧灯塔"})

	sc := book.NewScene("相遇", "两人在码头初次相遇")
	sc.ID = "scene-1"
	sc.Characters = []string{"Bob"}
	sc.Elements = []string{"灯塔"}
	st.AddScene(*sc)

	b.AddStory(*st)
	_ = b.AddCharacter(book.Character{Name: "Alice", Description: "主角"})
	return b
}

func TestValidateBook(t *testing.T) {
	Convey("引用完整性校验", t, func() {
		Convey("结构完整的书通过校验", func() {
			result := ValidateBook(validBook())
			So(result.IsValid, ShouldBeTrue)
			So(result.Errors, ShouldBeEmpty)
		})

		Convey("必填字段为空是错误", func() {
			b := validBook()
			b.Title = "  "
			b.Stories[0].Description = ""
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeFalse)
			So(len(result.Errors), ShouldEqual, 2)
		})

		Convey("故事背景设定为空是错误", func() {
			b := validBook()
			b.Stories[0].BackgroundSetup = "   "
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeFalse)
			So(len(result.Errors), ShouldEqual, 1)
		})

		Convey("大小写不同的重名全部报告", func() {
			b := validBook()
			b.Characters = append(b.Characters, book.Character{Name: "alice", Description: "重名"})
			b.Stories[0].Characters = append(b.Stories[0].Characters,
				book.Character{Name: "BOB", Description: "重名"})
			b.Stories[0].Elements = append(b.Stories[0].Elements,
				book.Element{Name: "灯塔", Description: "重名"})

			result := ValidateBook(b)
			So(result.IsValid, ShouldBeFalse)
			So(len(result.Errors), ShouldEqual, 3)
		})

		Convey("场景角色引用在故事级与书级并集中解析", func() {
			b := validBook()
			b.Stories[0].Scenes[0].Characters = []string{"alice", "BOB"}
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeTrue)
		})

		Convey("悬空引用是错误而不是静默丢弃", func() {
			b := validBook()
			b.Stories[0].Scenes[0].Characters = append(b.Stories[0].Scenes[0].Characters, "Ghost")
			b.Stories[0].Scenes[0].Elements = append(b.Stories[0].Scenes[0].Elements, "幽灵船")
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeFalse)
			So(len(result.Errors), ShouldEqual, 2)
		})

		Convey("元素引用只在故事内解析，书级角色名不算", func() {
			b := validBook()
			b.Stories[0].Scenes[0].Elements = []string{"Alice"}
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeFalse)
		})

		Convey("孤立校验故事时场景不能引用书级角色", func() {
			b := validBook()
			st := b.Stories[0]
			st.Scenes[0].Characters = []string{"Alice"}
			result := ValidateStory(&st)
			So(result.IsValid, ShouldBeFalse)
		})

		Convey("空引用场景产生警告而非错误", func() {
			b := validBook()
			b.Stories[0].Scenes[0].Characters = []string{}
			b.Stories[0].Scenes[0].Elements = []string{}
			result := ValidateBook(b)
			So(result.IsValid, ShouldBeTrue)
			So(len(result.Warnings), ShouldEqual, 1)
		})
	})
}
