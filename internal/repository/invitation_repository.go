package repository

import (
	"peerlearn_backend/internal/model"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{DB: db}
}

func (r *InvitationRepository) Create(inv *model.Invitation) error {
	return r.DB.Create(inv).Error
}

func (r *InvitationRepository) FindByToken(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.Where("token = ?", token).First(&inv).Error
	return &inv, err
}

func (r *InvitationRepository) FindByID(id string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *InvitationRepository) ListByCampaign(campaignID string, page, limit int) ([]model.Invitation, int64, error) {
	var invs []model.Invitation
	var total int64
	query := r.DB.Model(&model.Invitation{}).Where("campaign_id = ?", campaignID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&invs).Error
	return invs, total, err
}

func (r *InvitationRepository) Update(inv *model.Invitation) error {
	return r.DB.Save(inv).Error
}

// FindPendingByEmail 同一活动同一邮箱的未处理邀请，避免重复发送
func (r *InvitationRepository) FindPendingByEmail(campaignID, email string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.Where("campaign_id = ? AND email = ? AND status = ?",
		campaignID, email, model.InvitePending).First(&inv).Error
	return &inv, err
}
