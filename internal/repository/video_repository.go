package repository

import (
	"peerlearn_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(v *model.Video) error {
	return r.DB.Create(v).Error
}

// FindByID 加载视频及其按 position 排序的题目
func (r *VideoRepository) FindByID(id string) (*model.Video, error) {
	var v model.Video
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *VideoRepository) List(page, limit int) ([]model.Video, int64, error) {
	var vs []model.Video
	var total int64
	query := r.DB.Model(&model.Video{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&vs).Error
	return vs, total, err
}

func (r *VideoRepository) Update(v *model.Video) error {
	return r.DB.Save(v).Error
}

func (r *VideoRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.VideoQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Video{}, "id = ?", id).Error
	})
}

// ReplaceQuestions 整体替换视频题目，保持传入顺序
func (r *VideoRepository) ReplaceQuestions(videoID string, questions []model.VideoQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&model.VideoQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].VideoID = videoID
			questions[i].Position = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type GenerationJobRepository struct {
	DB *gorm.DB
}

func NewGenerationJobRepository(db *gorm.DB) *GenerationJobRepository {
	return &GenerationJobRepository{DB: db}
}

func (r *GenerationJobRepository) Create(j *model.GenerationJob) error {
	return r.DB.Create(j).Error
}

func (r *GenerationJobRepository) FindByID(id string) (*model.GenerationJob, error) {
	var j model.GenerationJob
	err := r.DB.First(&j, "id = ?", id).Error
	return &j, err
}

func (r *GenerationJobRepository) Update(j *model.GenerationJob) error {
	return r.DB.Save(j).Error
}

func (r *GenerationJobRepository) ListByVideo(videoID string) ([]model.GenerationJob, error) {
	var jobs []model.GenerationJob
	err := r.DB.Where("video_id = ?", videoID).Order("created_at desc").Find(&jobs).Error
	return jobs, err
}
