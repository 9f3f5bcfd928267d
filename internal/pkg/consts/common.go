package consts

const (
	MimePrefixImage = "image"
)

// 会话分类（前端筛选用）
const (
	ThreadScheduled = "SCHEDULED"
	ThreadCompleted = "COMPLETED"
	ThreadOffice    = "OFFICE"
)

// 公告类别
const (
	AnnounceImportant   = "IMPORTANT"
	AnnounceMaintenance = "MAINTENANCE"
	AnnounceEvent       = "EVENT"
	AnnounceOther       = "OTHER"
)

// 会话列表占位预览（尚无消息时）
const DefaultConversationPreview = "新しい応募があります"
