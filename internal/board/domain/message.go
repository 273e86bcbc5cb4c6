package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultAuthor 未帶 author 時使用的名稱
	DefaultAuthor = "anonymous"
	// MaxAuthorLen author 最大字元數
	MaxAuthorLen = 64
	// MaxTextLen text 最大字元數
	MaxTextLen = 4096
	// MaxRoomIDLen room_id 最大字元數
	MaxRoomIDLen = 128
	// MaxMsgIDLen msg_id 最大字元數
	MaxMsgIDLen = 64
)

// Message 表示聊天室中的一則訊息, (room_id, msg_id) 唯一
type Message struct {
	RoomID    string `bson:"room_id" json:"room_id"`
	MsgID     string `bson:"msg_id" json:"msg_id"`
	CreatedAt int64  `bson:"created_at" json:"created_at"` // 毫秒
	Author    string `bson:"author" json:"author"`
	Text      string `bson:"text" json:"text"`
}

// ValidateRoomID check room id is usable as a partition key
func ValidateRoomID(roomID string) error {
	if roomID == "" {
		return NewValidationError("room id is required")
	}
	if utf8.RuneCountInString(roomID) > MaxRoomIDLen {
		return NewValidationError("room id is too long")
	}
	if strings.IndexFunc(roomID, unicode.IsControl) >= 0 {
		return NewValidationError("room id contains control characters")
	}
	return nil
}

// ValidateMsgID check message id path parameter
func ValidateMsgID(msgID string) error {
	if strings.TrimSpace(msgID) == "" {
		return NewValidationError("message id is required")
	}
	if utf8.RuneCountInString(msgID) > MaxMsgIDLen {
		return NewValidationError("message id is too long")
	}
	return nil
}

// PageLimits list 分頁大小
type PageLimits struct {
	Default int
	Max     int
}

// Clamp 0 以下或無效回到預設值, 超過上限時截斷
func (p PageLimits) Clamp(limit int) int {
	if limit <= 0 {
		return p.Default
	}
	if limit > p.Max {
		return p.Max
	}
	return limit
}
