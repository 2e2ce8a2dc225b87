package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// swagger:model Campaign
type Campaign struct {
	UUIDBase
	OrganizationID uint           `gorm:"index;type:bigint unsigned" json:"organizationId"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	IsPublished    bool           `gorm:"default:false" json:"isPublished"`
	PublishedAt    *time.Time     `json:"publishedAt,omitempty"`
	StartsAt       *time.Time     `json:"startsAt,omitempty"`
	EndsAt         *time.Time     `json:"endsAt,omitempty"`
	CreatorID      uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Items          []CampaignItem `gorm:"foreignKey:CampaignID;references:ID" json:"items,omitempty"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignItem 活动里的一个视频环节。Questions 保存环节自带的低保真题面
// （仅 id + 文案），视频元数据不可用时作为题库的回退来源。
type CampaignItem struct {
	UUIDBase
	CampaignID string           `gorm:"index;type:varchar(36)" json:"campaignId"`
	VideoID    string           `gorm:"index;type:varchar(36)" json:"videoId"`
	Position   int              `gorm:"default:0" json:"position"`
	Questions  ItemQuestionList `gorm:"type:json" json:"questions,omitempty"`
}

func (CampaignItem) TableName() string {
	return "campaign_items"
}

type ItemQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type ItemQuestionList []ItemQuestion

func (l ItemQuestionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *ItemQuestionList) Scan(src interface{}) error {
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
		return fmt.Errorf("cannot scan %T into ItemQuestionList", src)
	}
}
