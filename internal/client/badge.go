package client

import "sync"

// BadgeCounter 进程级未读角标。乐观更新，由下一次 Sync 对齐服务器真值
type BadgeCounter interface {
	MessageDelta(delta int64)
	AnnouncementDelta(delta int64)
	Set(messages, announcements int64)
	Snapshot() (messages, announcements int64)
}

type badgeCounterImpl struct {
	mu            sync.Mutex
	messages      int64
	announcements int64
}

func NewBadgeCounter() BadgeCounter {
	return &badgeCounterImpl{}
}

func (s *badgeCounterImpl) MessageDelta(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = floor0(s.messages + delta)
}

func (s *badgeCounterImpl) AnnouncementDelta(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements = floor0(s.announcements + delta)
}

func (s *badgeCounterImpl) Set(messages, announcements int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = floor0(messages)
	s.announcements = floor0(announcements)
}

func (s *badgeCounterImpl) Snapshot() (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages, s.announcements
}

// floor0 角标永不为负
func floor0(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
