package dto

// AnnouncementDTO 公告返回对象
type AnnouncementDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"` // IMPORTANT / MAINTENANCE / EVENT / OTHER
	PublishedAt string `json:"published_at"`
	IsRead      bool   `json:"is_read"`
}

// MarkAnnouncementReadReq 标记公告已读
type MarkAnnouncementReadReq struct {
	AnnouncementID string `json:"announcement_id" binding:"required"`
}

// AnnouncementUnreadDTO 未读数返回
type AnnouncementUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
