package service

import (
	"errors"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/util"

	"gorm.io/gorm"
)

type VideoService struct {
	Repo *repository.VideoRepository
}

func NewVideoService(repo *repository.VideoRepository) *VideoService {
	return &VideoService{Repo: repo}
}

type VideoQuestionRequest struct {
	QuestionID string                   `json:"questionId" binding:"required"`
	Statement  string                   `json:"statement" binding:"required"`
	Type       model.QuestionType       `json:"type"`
	Options    model.QuestionOptionList `json:"options"`
}

type VideoRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Questions   []VideoQuestionRequest `json:"questions"`
}

func (s *VideoService) Create(req VideoRequest) (*model.Video, error) {
	v := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.VideoDraft,
	}
	if err := s.Repo.Create(v); err != nil {
		return nil, err
	}

	if len(req.Questions) > 0 {
		if err := s.replaceQuestions(v.ID, req.Questions); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindByID(v.ID)
}

func (s *VideoService) Get(id string) (*model.Video, error) {
	v, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrVideoNotFound
	}
	return v, err
}

func (s *VideoService) List(page, limit int) ([]model.Video, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *VideoService) Update(id string, req VideoRequest) (*model.Video, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	v.Title = req.Title
	v.Description = req.Description
	if err := s.Repo.Update(v); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		if err := s.replaceQuestions(v.ID, req.Questions); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindByID(v.ID)
}

// AttachMedia 绑定上传好的成片并把探测到的元数据落到视频记录上
func (s *VideoService) AttachMedia(id, objectKey string, info *util.VideoInfo) (*model.Video, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	v.ObjectKey = objectKey
	v.Status = model.VideoReady
	v.Duration = info.Duration
	v.Width = info.Width
	v.Height = info.Height
	if err := s.Repo.Update(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VideoService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *VideoService) replaceQuestions(videoID string, reqs []VideoQuestionRequest) error {
	questions := make([]model.VideoQuestion, len(reqs))
	for i, q := range reqs {
		questions[i] = model.VideoQuestion{
			QuestionID: q.QuestionID,
			Statement:  q.Statement,
			Type:       q.Type,
			Options:    q.Options,
		}
	}
	return s.Repo.ReplaceQuestions(videoID, questions)
}
