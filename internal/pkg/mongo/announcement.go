package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementModel 运营公告（单向广播，不可回复）
type AnnouncementModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Category    string             `bson:"category" json:"category"`        // IMPORTANT / MAINTENANCE / EVENT / OTHER
	Audience    string             `bson:"audience" json:"audience"`        // WORKER / FACILITY
	PublishedAt time.Time          `bson:"published_at" json:"publishedAt"` // 发布后内容不再变更
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// AnnouncementRead 每个读者一条已读标记
type AnnouncementRead struct {
	AnnouncementID primitive.ObjectID `bson:"announcement_id" json:"announcementId"`
	ReaderRole     string             `bson:"reader_role" json:"readerRole"`
	ReaderID       uint64             `bson:"reader_id" json:"readerId"`
	ReadAt         time.Time          `bson:"read_at" json:"readAt"`
}
