package book

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func bookFixture() *Book {
	b := NewBook("user-1", "灯塔之约", "群像", "海滨")
	b.ID = "book-1"
	_ = b.AddCharacter(Character{Name: "Hero", Description: "主角"})

	st1 := NewStory("第一卷", "起点", "港口")
	st1.ID = "story-1"
	sc1 := NewScene("相遇", "码头")
	sc1.ID = "scene-1"
	sc1.AddCharacterRef("Hero")
	st1.AddScene(*sc1)
	b.AddStory(*st1)

	// 第二个故事持有自己的同名角色，场景引用解析到故事级
	st2 := NewStory("第二卷", "续篇", "远洋")
	st2.ID = "story-2"
	_ = st2.AddCharacter(Character{Name: "hero", Description: "故事级同名"})
	sc2 := NewScene("重逢", "甲板")
	sc2.ID = "scene-2"
	sc2.AddCharacterRef("hero")
	st2.AddScene(*sc2)
	b.AddStory(*st2)

	return b
}

func TestBookCharacters(t *testing.T) {
	Convey("书级角色", t, func() {
		b := bookFixture()

		Convey("名称查找忽略大小写", func() {
			So(b.Character("HERO"), ShouldNotBeNil)
			So(b.Character("nobody"), ShouldBeNil)
		})

		Convey("添加大小写不同的同名角色被拒绝", func() {
			So(b.AddCharacter(Character{Name: "HERO"}), ShouldEqual, ErrDuplicateName)
		})

		Convey("改名只重写解析到书级角色的场景引用", func() {
			So(b.RenameCharacter("hero", "Knight"), ShouldBeNil)
			So(b.Stories[0].Scenes[0].Characters, ShouldResemble, []string{"Knight"})
			// story-2 有自己的同名角色，引用不动
			So(b.Stories[1].Scenes[0].Characters, ShouldResemble, []string{"hero"})
		})

		Convey("删除只清理解析到书级角色的场景引用", func() {
			So(b.RemoveCharacter("HERO"), ShouldBeTrue)
			So(b.Stories[0].Scenes[0].Characters, ShouldBeEmpty)
			So(b.Stories[1].Scenes[0].Characters, ShouldResemble, []string{"hero"})
		})

		Convey("摘除角色保留全部场景引用", func() {
			_, ok := b.DetachCharacter("hero")
			So(ok, ShouldBeTrue)
			So(b.Stories[0].Scenes[0].Characters, ShouldResemble, []string{"Hero"})
		})
	})
}

func TestBookStories(t *testing.T) {
	Convey("书籍与故事", t, func() {
		b := bookFixture()

		Convey("按ID查找与删除，场景随故事一起删除", func() {
			So(b.Story("story-1"), ShouldNotBeNil)
			So(b.RemoveStory("story-1"), ShouldBeTrue)
			So(b.Story("story-1"), ShouldBeNil)
			So(len(b.Stories), ShouldEqual, 1)
			So(b.RemoveStory("story-1"), ShouldBeFalse)
		})
	})
}
