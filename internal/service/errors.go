package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid           = errors.New("パラメータが不正です")
	ErrEmptyMessage           = errors.New("メッセージ本文または添付ファイルが必要です")
	ErrTooManyAttachments     = errors.New("添付ファイルは3件までです")
	ErrNoSendTarget           = errors.New("送信先の応募が見つかりません")
	ErrConversationNotFound   = errors.New("会話が見つかりません")
	ErrAnnouncementNotFound   = errors.New("お知らせが見つかりません")
	ErrFileNotSupported       = errors.New("サポートされていないファイル形式です")
	ErrFileTooLarge           = errors.New("ファイルサイズが上限を超えています")
	UnauthorizedError         = errors.New("権限がありません")
	UnExpectedError           = errors.New("システムエラーが発生しました。しばらくしてからお試しください")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrEmptyMessage:         BadRequest,
	ErrTooManyAttachments:   BadRequest,
	ErrNoSendTarget:         BadRequest,
	ErrConversationNotFound: NotFound,
	ErrAnnouncementNotFound: NotFound,
	ErrFileNotSupported:     BadRequest,
	ErrFileTooLarge:         BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
