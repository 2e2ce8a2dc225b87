package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	QuestionScale                QuestionType = "scale"
	QuestionMultipleChoice       QuestionType = "multiple-choice"
	QuestionText                 QuestionType = "text"
	QuestionBehavioralIntent     QuestionType = "behavioral-intent"
	QuestionBehavioralPerception QuestionType = "behavioral-perception"
	QuestionQualitative          QuestionType = "qualitative"
)

type VideoStatus string

const (
	VideoDraft      VideoStatus = "draft"
	VideoProcessing VideoStatus = "processing"
	VideoReady      VideoStatus = "ready"
	VideoFailed     VideoStatus = "failed"
)

// swagger:model Video
type Video struct {
	UUIDBase
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Status      VideoStatus     `gorm:"size:20;default:'draft'" json:"status"`
	ObjectKey   string          `gorm:"size:512" json:"objectKey"`
	Duration    float64         `gorm:"default:0" json:"duration"`
	Width       int             `gorm:"default:0" json:"width"`
	Height      int             `gorm:"default:0" json:"height"`
	Questions   []VideoQuestion `gorm:"foreignKey:VideoID;references:ID" json:"questions,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}

// VideoQuestion 视频自带的题目定义。QuestionID 是回答记录引用的稳定标识，
// 与行主键分开。behavioral-intent 题的 Options 顺序即字母标签顺序，不可重排。
type VideoQuestion struct {
	UUIDBase
	VideoID    string             `gorm:"index;type:varchar(36)" json:"videoId"`
	QuestionID string             `gorm:"index;size:64;not null" json:"questionId"`
	Statement  string             `gorm:"type:text;not null" json:"statement"`
	Type       QuestionType       `gorm:"size:32" json:"type"`
	Position   int                `gorm:"default:0" json:"position"`
	Options    QuestionOptionList `gorm:"type:json" json:"options,omitempty"`
}

func (VideoQuestion) TableName() string {
	return "video_questions"
}

type QuestionOption struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	IntentScore float64 `json:"intentScore"`
}

type QuestionOptionList []QuestionOption

func (l QuestionOptionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *QuestionOptionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("cannot scan %T into QuestionOptionList", src)
	}
}
