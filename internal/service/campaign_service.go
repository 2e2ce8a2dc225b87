package service

import (
	"errors"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CampaignService struct {
	Repo *repository.CampaignRepository
}

func NewCampaignService(repo *repository.CampaignRepository) *CampaignService {
	return &CampaignService{Repo: repo}
}

type CampaignItemRequest struct {
	VideoID   string                 `json:"videoId" binding:"required"`
	Questions model.ItemQuestionList `json:"questions"`
}

type CampaignRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	StartsAt    *time.Time            `json:"startsAt"`
	EndsAt      *time.Time            `json:"endsAt"`
	Items       []CampaignItemRequest `json:"items"`
}

func (s *CampaignService) Create(orgID, creatorID uint, req CampaignRequest) (*model.Campaign, error) {
	c := &model.Campaign{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		CreatorID:      creatorID,
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items := make([]model.CampaignItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.CampaignItem{
				VideoID:   item.VideoID,
				Questions: item.Questions,
			}
		}
		if err := s.Repo.ReplaceItems(c.ID, items); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindByID(c.ID)
}

func (s *CampaignService) Get(id string) (*model.Campaign, error) {
	c, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCampaignNotFound
	}
	return c, err
}

func (s *CampaignService) List(orgID uint, page, limit int) ([]model.Campaign, int64, error) {
	return s.Repo.ListByOrganization(orgID, page, limit)
}

func (s *CampaignService) Update(id string, orgID uint, req CampaignRequest) (*model.Campaign, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.OrganizationID != orgID {
		return nil, util.ErrPermissionDenied
	}

	c.Title = req.Title
	c.Description = req.Description
	c.StartsAt = req.StartsAt
	c.EndsAt = req.EndsAt
	if err := s.Repo.Update(c); err != nil {
		return nil, err
	}

	if req.Items != nil {
		items := make([]model.CampaignItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.CampaignItem{
				VideoID:   item.VideoID,
				Questions: item.Questions,
			}
		}
		if err := s.Repo.ReplaceItems(c.ID, items); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindByID(c.ID)
}

func (s *CampaignService) Publish(id string, orgID uint) (*model.Campaign, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.OrganizationID != orgID {
		return nil, util.ErrPermissionDenied
	}

	now := time.Now()
	c.IsPublished = true
	c.PublishedAt = &now
	if err := s.Repo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) Delete(id string, orgID uint) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}
	if c.OrganizationID != orgID {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(id)
}
