package service

import (
	"context"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/util"
	"time"
)

type ResponseService struct {
	Repo         *repository.ResponseRepository
	CampaignRepo *repository.CampaignRepository
	Comparison   *ComparisonService
}

func NewResponseService(
	repo *repository.ResponseRepository,
	campaignRepo *repository.CampaignRepository,
	comparison *ComparisonService,
) *ResponseService {
	return &ResponseService{
		Repo:         repo,
		CampaignRepo: campaignRepo,
		Comparison:   comparison,
	}
}

type SubmitAnswerRequest struct {
	VideoID          string            `json:"videoId" binding:"required"`
	QuestionID       string            `json:"questionId" binding:"required"`
	Answer           model.AnswerValue `json:"answer"`
	SelectedOptionID string            `json:"selectedOptionId"`
	QuestionText     string            `json:"questionText"`
}

type SubmitResponsesRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" binding:"required"`
}

// Submit 提交一批回答。记录一经写入不再修改，重复提交会追加新记录，
// 用户视角的去重在聚合时按最新 answeredAt 处理
func (s *ResponseService) Submit(ctx context.Context, campaignID string, orgID, userID uint, req SubmitResponsesRequest) ([]model.ResponseRecord, error) {
	if _, err := s.CampaignRepo.FindByID(campaignID); err != nil {
		return nil, util.ErrCampaignNotFound
	}

	now := time.Now()
	records := make([]model.ResponseRecord, 0, len(req.Answers))
	for _, a := range req.Answers {
		rec := model.ResponseRecord{
			CampaignID:       campaignID,
			OrganizationID:   orgID,
			UserID:           userID,
			VideoID:          a.VideoID,
			QuestionID:       a.QuestionID,
			Answer:           a.Answer,
			SelectedOptionID: a.SelectedOptionID,
			AnsweredAt:       now,
			QuestionText:     a.QuestionText,
		}
		if err := s.Repo.Create(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	// 新回答让该活动的对比快照失效
	s.Comparison.Invalidate(ctx, campaignID)

	return records, nil
}

func (s *ResponseService) ListOwn(campaignID string, userID uint) ([]model.ResponseRecord, error) {
	return s.Repo.GetUserResponses(campaignID, userID)
}

type ParticipationStats struct {
	TotalResponses int64 `json:"totalResponses"`
	Respondents    int64 `json:"respondents"`
}

func (s *ResponseService) Participation(campaignID string, orgID uint) (*ParticipationStats, error) {
	total, err := s.Repo.CountByCampaign(campaignID, orgID)
	if err != nil {
		return nil, err
	}
	respondents, err := s.Repo.CountDistinctRespondents(campaignID, orgID)
	if err != nil {
		return nil, err
	}
	return &ParticipationStats{TotalResponses: total, Respondents: respondents}, nil
}
