package dto

// MediaUploadDTO 上传结果
type MediaUploadDTO struct {
	URL      string `json:"url"`
	Mime     string `json:"mime"`
	Size     int64  `json:"size"`
	Original string `json:"original"`
}
