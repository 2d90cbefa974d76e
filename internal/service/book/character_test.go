package book

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRenameCharacter(t *testing.T) {
	Convey("角色改名", t, func() {
		svc, _, _ := newTestService(t)
		b, st, _ := seedBook(t, svc)
		ctx := context.Background()

		_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "Alice", "灯塔看守人的女儿")
		So(err, ShouldBeNil)
		_, err = svc.AddStoryCharacter(ctx, testUserID, b.ID, st.ID, "Bob", "远航归来的水手")
		So(err, ShouldBeNil)

		Convey("书级角色改名成功", func() {
			ch, err := svc.RenameCharacter(ctx, testUserID, b.ID, "", "alice", "Ada")
			So(err, ShouldBeNil)
			So(ch.Name, ShouldEqual, "Ada")

			got, err := svc.GetBook(ctx, testUserID, b.ID)
			So(err, ShouldBeNil)
			So(got.Character("Ada"), ShouldNotBeNil)
			So(got.Character("Alice"), ShouldBeNil)
		})

		Convey("书级角色不存在返回未找到", func() {
			ch, err := svc.RenameCharacter(ctx, testUserID, b.ID, "", "Ghost", "Knight")
			So(err, ShouldEqual, ErrCharacterNotFound)
			So(ch, ShouldBeNil)
		})

		Convey("故事级角色不存在返回未找到", func() {
			ch, err := svc.RenameCharacter(ctx, testUserID, b.ID, st.ID, "Ghost", "Knight")
			So(err, ShouldEqual, ErrCharacterNotFound)
			So(ch, ShouldBeNil)
		})

		Convey("改成已占用的名字返回重名", func() {
			_, err := svc.AddBookCharacter(ctx, testUserID, b.ID, "Carol", "小镇邮差")
			So(err, ShouldBeNil)

			_, err = svc.RenameCharacter(ctx, testUserID, b.ID, "", "Carol", "ALICE")
			So(err, ShouldEqual, ErrDuplicateCharacter)
		})
	})
}
