package consts

const (
	BadgeMessageKey      = "badge:message:"      // + role:actorID 未读消息总数
	BadgeAnnouncementKey = "badge:announcement:" // + role:actorID 未读公告总数
)

const (
	BadgeRecountLock = "lock:badge:recount"
)
