package repository

import (
	"peerlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(rec *model.ResponseRecord) error {
	return r.DB.Create(rec).Error
}

// GetAllResponses 活动内全组织的原始回答。刻意不做按提交人的去重：
// 同一人对同一题的重复提交每条都计入社区分布。
func (r *ResponseRepository) GetAllResponses(campaignID string, organizationID uint) ([]model.ResponseRecord, error) {
	var recs []model.ResponseRecord
	err := r.DB.Where("campaign_id = ? AND organization_id = ?", campaignID, organizationID).
		Order("answered_at asc").Find(&recs).Error
	return recs, err
}

// GetUserResponses 当前用户在活动内的全部回答，含重复提交；
// 按题去重（保留最新）由聚合层完成
func (r *ResponseRepository) GetUserResponses(campaignID string, userID uint) ([]model.ResponseRecord, error) {
	var recs []model.ResponseRecord
	err := r.DB.Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Order("answered_at asc").Find(&recs).Error
	return recs, err
}

func (r *ResponseRepository) CountByCampaign(campaignID string, organizationID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.ResponseRecord{}).
		Where("campaign_id = ? AND organization_id = ?", campaignID, organizationID).
		Count(&total).Error
	return total, err
}

// CountDistinctRespondents 活动的参与人数（去重后的提交人）
func (r *ResponseRepository) CountDistinctRespondents(campaignID string, organizationID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.ResponseRecord{}).
		Where("campaign_id = ? AND organization_id = ?", campaignID, organizationID).
		Distinct("user_id").Count(&total).Error
	return total, err
}
