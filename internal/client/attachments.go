package client

import (
	"context"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	maxAttachments = 3
	maxImageBytes  = 5 << 20
)

// StagedFile 待上传的一个文件
type StagedFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AddAttachments 校验后并行上传一批文件，成功的 URL 追加到待发附件列表。
// 部分失败时成功的部分照常保留，只返回第一个错误。
// 校验（数量上限、仅图片、大小上限）在任何上传发起前完成。
func (s *ChatStore) AddAttachments(ctx context.Context, files []*StagedFile) error {
	s.mu.Lock()
	staged := len(s.pendingAttachments)
	s.mu.Unlock()

	if staged+len(files) > maxAttachments {
		return ErrTooManyAttachments
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return ErrFileNotSupported
		}
		if f.Size > maxImageBytes {
			return ErrFileTooLarge
		}
	}

	s.mu.Lock()
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	urls := make([]string, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			result, err := s.api.UploadFile(ctx, f.Name, f.Reader)
			if err != nil {
				return err
			}
			urls[i] = result.URL
			return nil
		})
	}
	firstErr := g.Wait()

	s.mu.Lock()
	for _, u := range urls {
		if u != "" {
			s.pendingAttachments = append(s.pendingAttachments, u)
		}
	}
	s.mu.Unlock()

	return firstErr
}

// RemoveAttachment 按下标移除一个待发附件
func (s *ChatStore) RemoveAttachment(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pendingAttachments) {
		return
	}
	s.pendingAttachments = append(s.pendingAttachments[:index], s.pendingAttachments[index+1:]...)
}

// PendingAttachments 待发附件快照
func (s *ChatStore) PendingAttachments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, len(s.pendingAttachments))
	copy(res, s.pendingAttachments)
	return res
}

// TakeAttachments 取出全部待发附件并清空暂存区，随后交给 Send
func (s *ChatStore) TakeAttachments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.pendingAttachments
	s.pendingAttachments = nil
	return res
}

// IsUploading 是否有上传在途
func (s *ChatStore) IsUploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}
