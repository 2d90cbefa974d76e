package assets

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/pkg/storage/local"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := local.NewLocalStorage(t.TempDir(), "http://localhost:7080/files", 3600)
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	return NewStore(backend)
}

func TestStore(t *testing.T) {
	Convey("资产存储", t, func() {
		ctx := context.Background()
		store := newTestStore(t)

		Convey("写入后可以读取", func() {
			err := store.Put(ctx, BookScope("b1"), "Alice", "img-1", []byte("png-data"))
			So(err, ShouldBeNil)

			data, err := store.Get(ctx, BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "png-data")
		})

		Convey("角色名大小写不敏感", func() {
			err := store.Put(ctx, BookScope("b1"), "Alice", "img-1", []byte("png-data"))
			So(err, ShouldBeNil)

			data, err := store.Get(ctx, BookScope("b1"), "ALICE", "img-1")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "png-data")
		})

		Convey("书级与故事级作用域互不影响", func() {
			err := store.Put(ctx, BookScope("b1"), "Alice", "img-1", []byte("book-copy"))
			So(err, ShouldBeNil)
			err = store.Put(ctx, StoryScope("s1"), "Alice", "img-1", []byte("story-copy"))
			So(err, ShouldBeNil)

			data, err := store.Get(ctx, BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "book-copy")

			data, err = store.Get(ctx, StoryScope("s1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "story-copy")
		})

		Convey("Exists反映资产是否存在", func() {
			ok, err := store.Exists(ctx, BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			So(store.Put(ctx, BookScope("b1"), "Alice", "img-1", []byte("x")), ShouldBeNil)

			ok, err = store.Exists(ctx, BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("Move先写目标再删源", func() {
			So(store.Put(ctx, StoryScope("s1"), "Alice", "img-1", []byte("x")), ShouldBeNil)

			err := store.Move(ctx, StoryScope("s1"), "Alice", BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)

			ok, err := store.Exists(ctx, BookScope("b1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = store.Exists(ctx, StoryScope("s1"), "Alice", "img-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("Move源不存在时报错且不产生目标", func() {
			err := store.Move(ctx, StoryScope("s1"), "Alice", BookScope("b1"), "Alice", "missing")
			So(err, ShouldNotBeNil)

			ok, err := store.Exists(ctx, BookScope("b1"), "Alice", "missing")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}
