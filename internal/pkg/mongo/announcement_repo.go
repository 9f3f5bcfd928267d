package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnnouncementRepo interface {
	Create(ctx context.Context, a *AnnouncementModel) error
	List(ctx context.Context, audience string, limit, offset int64) ([]*AnnouncementModel, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*AnnouncementModel, error)
	ReadIDs(ctx context.Context, readerRole string, readerID uint64) (map[primitive.ObjectID]bool, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID, readerRole string, readerID uint64) error
	UnreadCount(ctx context.Context, audience, readerRole string, readerID uint64) (int64, error)
}

type announcementRepoImpl struct {
	col     *mongo.Collection
	readCol *mongo.Collection
}

func NewAnnouncementRepo(db *mongo.Database) AnnouncementRepo {
	return &announcementRepoImpl{
		col:     db.Collection("announcement"),
		readCol: db.Collection("announcement_read"),
	}
}

// Create 插入新公告
func (s *announcementRepoImpl) Create(ctx context.Context, a *AnnouncementModel) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.col.InsertOne(ctx, a)
	return err
}

// List 分页获取公告列表（按发布时间倒序）
func (s *announcementRepoImpl) List(ctx context.Context, audience string, limit, offset int64) ([]*AnnouncementModel, error) {
	filter := bson.M{"audience": audience}
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*AnnouncementModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID 根据 ID 获取公告
func (s *announcementRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*AnnouncementModel, error) {
	var a AnnouncementModel
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReadIDs 读者已读的公告 ID 集合
func (s *announcementRepoImpl) ReadIDs(ctx context.Context, readerRole string, readerID uint64) (map[primitive.ObjectID]bool, error) {
	filter := bson.M{"reader_role": readerRole, "reader_id": readerID}
	cursor, err := s.readCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var reads []*AnnouncementRead
	if err = cursor.All(ctx, &reads); err != nil {
		return nil, err
	}

	res := make(map[primitive.ObjectID]bool, len(reads))
	for _, r := range reads {
		res[r.AnnouncementID] = true
	}
	return res, nil
}

// MarkAsRead 幂等写入已读标记（upsert，重复调用不产生第二条）
func (s *announcementRepoImpl) MarkAsRead(ctx context.Context, id primitive.ObjectID, readerRole string, readerID uint64) error {
	filter := bson.M{
		"announcement_id": id,
		"reader_role":     readerRole,
		"reader_id":       readerID,
	}
	update := bson.M{"$setOnInsert": bson.M{"read_at": time.Now()}}
	_, err := s.readCol.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// UnreadCount 未读公告数 = 已发布总数 - 该读者的已读标记数
func (s *announcementRepoImpl) UnreadCount(ctx context.Context, audience, readerRole string, readerID uint64) (int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{"audience": audience})
	if err != nil {
		return 0, err
	}
	read, err := s.readCol.CountDocuments(ctx, bson.M{"reader_role": readerRole, "reader_id": readerID})
	if err != nil {
		return 0, err
	}
	if read > total {
		return 0, nil
	}
	return total - read, nil
}
