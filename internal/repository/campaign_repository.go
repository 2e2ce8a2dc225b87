package repository

import (
	"peerlearn_backend/internal/model"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	return r.DB.Create(c).Error
}

// FindByID 加载活动及其按 position 排序的视频环节
func (r *CampaignRepository) FindByID(id string) (*model.Campaign, error) {
	var c model.Campaign
	err := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *CampaignRepository) ListByOrganization(orgID uint, page, limit int) ([]model.Campaign, int64, error) {
	var cs []model.Campaign
	var total int64
	query := r.DB.Model(&model.Campaign{}).Where("organization_id = ?", orgID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	return r.DB.Save(c).Error
}

func (r *CampaignRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&model.CampaignItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Campaign{}, "id = ?", id).Error
	})
}

// ReplaceItems 整体替换活动的环节列表
func (r *CampaignRepository) ReplaceItems(campaignID string, items []model.CampaignItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Delete(&model.CampaignItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CampaignID = campaignID
			items[i].Position = i
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
