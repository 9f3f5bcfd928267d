package util

import (
	"fmt"
	"io"
	"net/http"
)

// GetSafeContentType 基于文件头嗅探真实 MIME 类型，不信任客户端声明
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("读取文件头失败: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("重置读取位置失败: %w", err)
	}

	return http.DetectContentType(buf[:n]), nil
}

// TruncateRunes 按字符数截断字符串（会话列表预览用）
func TruncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
