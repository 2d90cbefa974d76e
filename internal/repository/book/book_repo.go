package book

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/book"
)

// ErrNotFound 书籍不存在
var ErrNotFound = errors.New("书籍不存在")

// BookRepository 书籍仓库接口（供 service 层依赖）
// 书籍作为聚合根整体读写：Story/Scene 的修改都通过 Update 持久化整个聚合
type BookRepository interface {
	Create(ctx context.Context, b *book.Book) error
	FindByID(ctx context.Context, id string) (*book.Book, error)
	FindByUserID(ctx context.Context, userID string, page, pageSize int64) ([]*book.Book, int64, error)
	Update(ctx context.Context, b *book.Book) error
	Delete(ctx context.Context, id string) error
}

// BookRepo 书籍仓库
type BookRepo struct {
	coll *mongo.Collection
}

// NewBookRepo 创建书籍仓库
func NewBookRepo(db *mongo.Database) *BookRepo {
	var b book.Book
	return &BookRepo{coll: db.Collection(b.Collection())}
}

// Create 创建书籍
func (r *BookRepo) Create(ctx context.Context, b *book.Book) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toDocument(b))
	return err
}

// FindByID 根据ID查询
func (r *BookRepo) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromDocument(&doc), nil
}

// FindByUserID 查询用户的书籍（按创建时间倒序，分页）
func (r *BookRepo) FindByUserID(ctx context.Context, userID string, page, pageSize int64) ([]*book.Book, int64, error) {
	filter := bson.M{"user_id": userID, "deleted_at": nil}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if page > 0 && pageSize > 0 {
		opts.SetSkip((page - 1) * pageSize).SetLimit(pageSize)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var books []*book.Book
	for cur.Next(ctx) {
		var doc bookDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		books = append(books, fromDocument(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Update 更新书籍（整体替换文档）
func (r *BookRepo) Update(ctx context.Context, b *book.Book) error {
	b.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx,
		bson.M{"id": b.ID, "deleted_at": nil},
		toDocument(b),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 软删除书籍
func (r *BookRepo) Delete(ctx context.Context, id string) error {
	now := time.Now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "deleted_at": nil},
		bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
