package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/util"
	"peerlearn_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 统一画布：竖屏 1024x1792，所有生成片段拼接前先归一到这个尺寸
const (
	clipWidth  = 1024
	clipHeight = 1792
)

// GenerationService 视频制作台：把分镜描述交给生成接口，
// 下载片段后归一画布、拼接成片并上传存储
type GenerationService struct {
	Jobs      *repository.GenerationJobRepository
	Videos    *repository.VideoRepository
	Storage   *StorageService
	AI        config.AIConfig
	HTTP      *http.Client
	WorkDir   string
	PollEvery time.Duration
}

func NewGenerationService(
	jobs *repository.GenerationJobRepository,
	videos *repository.VideoRepository,
	storage *StorageService,
	cfg *config.Config,
) *GenerationService {
	return &GenerationService{
		Jobs:      jobs,
		Videos:    videos,
		Storage:   storage,
		AI:        cfg.AI,
		HTTP:      &http.Client{Timeout: 120 * time.Second},
		WorkDir:   filepath.Join(os.TempDir(), "peerlearn-generation"),
		PollEvery: 5 * time.Second,
	}
}

type GenerateRequest struct {
	Shots []model.GenerationShot `json:"shots" binding:"required"`
}

// Enqueue 创建生成任务并异步执行，立即返回排队中的任务
func (s *GenerationService) Enqueue(videoID string, creatorID uint, req GenerateRequest) (*model.GenerationJob, error) {
	video, err := s.Videos.FindByID(videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}

	job := &model.GenerationJob{
		VideoID:   video.ID,
		CreatorID: creatorID,
		Status:    model.GenerationQueued,
		Shots:     req.Shots,
	}
	if err := s.Jobs.Create(job); err != nil {
		return nil, err
	}

	video.Status = model.VideoProcessing
	if err := s.Videos.Update(video); err != nil {
		logger.Log.Warn("failed to mark video as processing", zap.Error(err))
	}

	go s.run(context.Background(), job.ID)

	return job, nil
}

func (s *GenerationService) Get(id string) (*model.GenerationJob, error) {
	job, err := s.Jobs.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrJobNotFound
	}
	return job, err
}

func (s *GenerationService) ListByVideo(videoID string) ([]model.GenerationJob, error) {
	return s.Jobs.ListByVideo(videoID)
}

// BuildPrompt 把分镜字段拼成生成接口的提示词。字段可缺省，
// 环境加 "in " 前缀，台词用引号包住
func BuildPrompt(shot model.GenerationShot) string {
	parts := make([]string, 0, 5)
	if v := strings.TrimSpace(shot.Characters); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(shot.Environment); v != "" {
		parts = append(parts, "in "+v)
	}
	if v := strings.TrimSpace(shot.Lighting); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(shot.CameraAngles); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(shot.Dialog); v != "" {
		parts = append(parts, fmt.Sprintf("saying %q", v))
	}
	return strings.Join(parts, ". ")
}

func (s *GenerationService) run(ctx context.Context, jobID string) {
	job, err := s.Jobs.FindByID(jobID)
	if err != nil {
		logger.Log.Error("generation job vanished before start", zap.String("jobId", jobID), zap.Error(err))
		return
	}

	job.Status = model.GenerationRunning
	if err := s.Jobs.Update(job); err != nil {
		logger.Log.Error("failed to mark generation job running", zap.String("jobId", jobID), zap.Error(err))
		return
	}

	if err := s.produce(ctx, job); err != nil {
		logger.Log.Error("video generation failed",
			zap.String("jobId", job.ID),
			zap.String("videoId", job.VideoID),
			zap.Error(err))
		job.Status = model.GenerationFailed
		job.Error = err.Error()
		s.Jobs.Update(job)
		s.markVideoFailed(job.VideoID)
		return
	}

	job.Status = model.GenerationDone
	if err := s.Jobs.Update(job); err != nil {
		logger.Log.Error("failed to mark generation job done", zap.String("jobId", job.ID), zap.Error(err))
	}
}

func (s *GenerationService) produce(ctx context.Context, job *model.GenerationJob) error {
	if len(job.Shots) == 0 {
		return fmt.Errorf("job has no shots")
	}

	workDir := filepath.Join(s.WorkDir, job.ID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	// 逐个分镜生成并归一画布
	normalized := make([]string, 0, len(job.Shots))
	for i, shot := range job.Shots {
		prompt := BuildPrompt(shot)
		raw := filepath.Join(workDir, fmt.Sprintf("shot_%02d_raw.mp4", i))
		if err := s.generateClip(ctx, prompt, raw); err != nil {
			return fmt.Errorf("shot %d: %w", i, err)
		}

		norm := filepath.Join(workDir, fmt.Sprintf("shot_%02d.mp4", i))
		if err := util.NormalizeClip(raw, norm, clipWidth, clipHeight); err != nil {
			return fmt.Errorf("normalize shot %d: %w", i, err)
		}
		normalized = append(normalized, norm)
	}

	final := filepath.Join(workDir, "final.mp4")
	if err := util.ConcatClips(normalized, final); err != nil {
		return fmt.Errorf("concat clips: %w", err)
	}

	info, err := util.GetVideoInfo(final)
	if err != nil {
		return fmt.Errorf("probe final video: %w", err)
	}

	objectKey := fmt.Sprintf("videos/%s/%s.mp4", job.VideoID, job.ID)
	if _, err := s.Storage.Provider.UploadFile(ctx, objectKey, final, util.MimeVideo); err != nil {
		return fmt.Errorf("upload final video: %w", err)
	}
	job.OutputKey = objectKey

	video, err := s.Videos.FindByID(job.VideoID)
	if err != nil {
		return err
	}
	video.Status = model.VideoReady
	video.ObjectKey = objectKey
	video.Duration = info.Duration
	video.Width = info.Width
	video.Height = info.Height
	return s.Videos.Update(video)
}

// 生成接口的任务描述，OpenAI 兼容风格
type generationTask struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
}

// generateClip 提交一个提示词并轮询到任务完成，把结果下载到 dstPath
func (s *GenerationService) generateClip(ctx context.Context, prompt, dstPath string) error {
	task, err := s.createTask(ctx, prompt)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(15 * time.Minute)
	for {
		switch task.Status {
		case "completed", "succeeded":
			return s.download(ctx, task.VideoURL, dstPath)
		case "failed":
			if task.Error != "" {
				return fmt.Errorf("generation task failed: %s", task.Error)
			}
			return fmt.Errorf("generation task failed")
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("generation task %s timed out", task.ID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.PollEvery):
		}

		task, err = s.pollTask(ctx, task.ID)
		if err != nil {
			return err
		}
	}
}

func (s *GenerationService) createTask(ctx context.Context, prompt string) (*generationTask, error) {
	body, err := json.Marshal(map[string]string{
		"model":  s.AI.Model,
		"prompt": prompt,
		"size":   fmt.Sprintf("%dx%d", clipWidth, clipHeight),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.AI.BaseURL+"/videos/generations", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.AI.APIKey)

	return s.doTaskRequest(req)
}

func (s *GenerationService) pollTask(ctx context.Context, taskID string) (*generationTask, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.AI.BaseURL+"/videos/generations/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.AI.APIKey)

	return s.doTaskRequest(req)
}

func (s *GenerationService) doTaskRequest(req *http.Request) (*generationTask, error) {
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("generation API returned %d: %s", resp.StatusCode, string(data))
	}

	var task generationTask
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	return &task, nil
}

func (s *GenerationService) download(ctx context.Context, url, dstPath string) error {
	if url == "" {
		return fmt.Errorf("generation task completed without a video url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func (s *GenerationService) markVideoFailed(videoID string) {
	video, err := s.Videos.FindByID(videoID)
	if err != nil {
		return
	}
	video.Status = model.VideoFailed
	if err := s.Videos.Update(video); err != nil {
		logger.Log.Warn("failed to mark video as failed", zap.String("videoId", videoID), zap.Error(err))
	}
}
