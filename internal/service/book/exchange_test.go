package book

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/book"
)

func TestExchangeCodec(t *testing.T) {
	Convey("交换格式导入导出", t, func() {
		ctx := context.Background()
		svc, _, _ := newTestService(t)
		b, st, sc := seedBook(t, svc)

		_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "Alice", "主角")
		So(err, ShouldBeNil)
		_, err = svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, "Bob", "水手")
		So(err, ShouldBeNil)
		_, err = svc.AddElement(ctx, testUserID, b.ID, st.ID, "灯塔", "镇口的旧灯塔", "地点")
		So(err, ShouldBeNil)

		chars := []string{"Alice", "Bob"}
		els := []string{"灯塔"}
		_, err = svc.UpdateScene(ctx, testUserID, b.ID, st.ID, sc.ID, SceneUpdate{
			Characters: &chars,
			Elements:   &els,
		})
		So(err, ShouldBeNil)
		So(svc.SetStoryLayout(ctx, testUserID, b.ID, st.ID, layoutOf(book.LayoutTypeComicVertical)), ShouldBeNil)

		Convey("导出包含全部可移植字段，不含内部ID", func() {
			payload, err := svc.ExportBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)

			So(payload.Book.Title, ShouldEqual, "灯塔之约")
			So(payload.Book.Style, ShouldEqual, "水彩插画")
			So(len(payload.Book.Characters), ShouldEqual, 1)
			So(payload.Book.Characters[0].Name, ShouldEqual, "Alice")

			So(len(payload.Stories), ShouldEqual, 1)
			se := payload.Stories[0]
			So(se.Story.Title, ShouldEqual, "第一卷")
			So(se.Layout, ShouldNotBeNil)
			So(len(se.Characters), ShouldEqual, 1)
			So(len(se.Elements), ShouldEqual, 1)
			So(len(se.Scenes), ShouldEqual, 1)
			So(se.Scenes[0].Characters, ShouldResemble, []string{"Alice", "Bob"})
			So(se.Scenes[0].ImageHistory, ShouldBeEmpty)
		})

		Convey("导入生成全新ID，不碰已有书籍", func() {
			payload, err := svc.ExportBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)

			imported, err := svc.ImportBook(ctx, testUserID, payload)
			So(err, ShouldBeNil)
			So(imported.ID, ShouldNotEqual, b.ID)
			So(imported.Stories[0].ID, ShouldNotEqual, st.ID)
			So(imported.Stories[0].Scenes[0].ID, ShouldNotEqual, sc.ID)

			// 内容等价
			So(imported.Title, ShouldEqual, b.Title)
			So(imported.Stories[0].Characters[0].Name, ShouldEqual, "Bob")
			So(imported.Stories[0].Scenes[0].Characters, ShouldResemble, []string{"Alice", "Bob"})

			// 原书保持可读
			original, err := svc.GetBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)
			So(original.ID, ShouldEqual, b.ID)

			books, total, err := svc.ListBooks(ctx, testUserID, 0, 0)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 2)
			So(len(books), ShouldEqual, 2)
		})

		Convey("载荷里的重名被拒绝", func() {
			payload, err := svc.ExportBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)
			payload.Book.Characters = append(payload.Book.Characters,
				CharacterExchange{Name: "ALICE", Description: "重名"})

			_, err = svc.ImportBook(ctx, testUserID, payload)
			So(err, ShouldNotBeNil)
		})

		Convey("悬空引用的载荷被校验拦截", func() {
			payload, err := svc.ExportBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)
			payload.Stories[0].Scenes[0].Characters = append(
				payload.Stories[0].Scenes[0].Characters, "Ghost")

			_, err = svc.ImportBook(ctx, testUserID, payload)
			var vErr *ValidationError
			So(errors.As(err, &vErr), ShouldBeTrue)
			So(len(vErr.Result.Errors), ShouldEqual, 1)
		})

		Convey("携带生成历史的载荷被接受且ID重新生成", func() {
			payload, err := svc.ExportBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)
			payload.Stories[0].Scenes[0].ImageHistory = []book.ImageRecord{
				{ID: "外部ID"},
			}

			imported, err := svc.ImportBook(ctx, testUserID, payload)
			So(err, ShouldBeNil)
			hist := imported.Stories[0].Scenes[0].ImageHistory
			So(len(hist), ShouldEqual, 1)
			So(hist[0].ID, ShouldNotEqual, "外部ID")
			So(hist[0].ModelName, ShouldEqual, book.UnknownModelName)
		})
	})
}
