package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type GenerationStatus string

const (
	GenerationQueued  GenerationStatus = "queued"
	GenerationRunning GenerationStatus = "running"
	GenerationDone    GenerationStatus = "done"
	GenerationFailed  GenerationStatus = "failed"
)

// GenerationShot 制作台里一个分镜的描述字段，拼接成生成接口的提示词
type GenerationShot struct {
	Characters   string `json:"characters"`
	Environment  string `json:"environment"`
	Lighting     string `json:"lighting"`
	CameraAngles string `json:"cameraAngles"`
	Dialog       string `json:"dialog"`
}

type ShotList []GenerationShot

func (l ShotList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *ShotList) Scan(src interface{}) error {
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
		return fmt.Errorf("cannot scan %T into ShotList", src)
	}
}

// swagger:model GenerationJob
type GenerationJob struct {
	UUIDBase
	VideoID   string           `gorm:"index;type:varchar(36)" json:"videoId"`
	CreatorID uint             `gorm:"type:bigint unsigned" json:"creatorId"`
	Status    GenerationStatus `gorm:"size:20;default:'queued'" json:"status"`
	Shots     ShotList         `gorm:"type:json" json:"shots"`
	OutputKey string           `gorm:"size:512" json:"outputKey"`
	Error     string           `gorm:"type:text" json:"error,omitempty"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
