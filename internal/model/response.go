package model

import (
	"time"
)

// CompositeKey 唯一标识一次活动中的一道题：videoId + "_" + questionId。
// 同一个 questionId 可以合法地出现在不同视频下，不能合并。
type CompositeKey string

func MakeCompositeKey(videoID, questionID string) CompositeKey {
	return CompositeKey(videoID + "_" + questionID)
}

// ResponseRecord 一条原始回答记录，写入后不再修改。
// QuestionText 是提交时随答案快照的题面，题库完全查不到该题时用于展示。
type ResponseRecord struct {
	UUIDBase
	CampaignID       string      `gorm:"index:idx_resp_campaign;type:varchar(36);not null" json:"campaignId"`
	OrganizationID   uint        `gorm:"index:idx_resp_campaign;type:bigint unsigned" json:"organizationId"`
	UserID           uint        `gorm:"index;type:bigint unsigned" json:"userId"`
	VideoID          string      `gorm:"type:varchar(36)" json:"videoId"`
	QuestionID       string      `gorm:"size:64;not null" json:"questionId"`
	Answer           AnswerValue `gorm:"type:varchar(512)" json:"answer"`
	SelectedOptionID string      `gorm:"size:64" json:"selectedOptionId,omitempty"`
	AnsweredAt       time.Time   `gorm:"index" json:"answeredAt"`
	QuestionText     string      `gorm:"size:512" json:"questionText,omitempty"`
}

func (ResponseRecord) TableName() string {
	return "response_records"
}

func (r *ResponseRecord) Key() CompositeKey {
	return MakeCompositeKey(r.VideoID, r.QuestionID)
}
