package service

import (
	"context"
	"encoding/json"
	"fmt"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/util"
	"peerlearn_backend/pkg/logger"
	"peerlearn_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 同伴对比的取数与编排。纯聚合逻辑见 comparison_aggregate.go。

// CampaignSource 活动定义的读取口（§ 外部协作方）
type CampaignSource interface {
	FindByID(id string) (*model.Campaign, error)
}

// VideoSource 视频元数据的读取口。单个视频取不到不会中断整个 pass
type VideoSource interface {
	FindByID(id string) (*model.Video, error)
}

// ResponseSource 回答记录的读取口
type ResponseSource interface {
	GetAllResponses(campaignID string, organizationID uint) ([]model.ResponseRecord, error)
	GetUserResponses(campaignID string, userID uint) ([]model.ResponseRecord, error)
}

type ComparisonService struct {
	Campaigns    CampaignSource
	Videos       VideoSource
	Responses    ResponseSource
	Redis        *redis.Client
	MinResponses int
	CacheTTL     time.Duration
}

func NewComparisonService(
	campaigns CampaignSource,
	videos VideoSource,
	responses ResponseSource,
	rdb *redis.Client,
	cfg *config.Config,
) *ComparisonService {
	return &ComparisonService{
		Campaigns:    campaigns,
		Videos:       videos,
		Responses:    responses,
		Redis:        rdb,
		MinResponses: cfg.Insights.MinResponses,
		CacheTTL:     time.Duration(cfg.Insights.CacheTTLMinutes) * time.Minute,
	}
}

// LoadInsight 计算一个用户在一个活动里的完整同伴对比。
// 只读、无共享状态，每次调用都是一个独立的聚合 pass；
// redis 里存的是带 TTL 的结果快照，后算完的覆盖先算完的。
func (s *ComparisonService) LoadInsight(ctx context.Context, campaignID string, organizationID, userID uint) (*model.CampaignInsight, error) {
	start := time.Now()
	defer func() {
		monitoring.InsightDuration.Observe(time.Since(start).Seconds())
	}()

	cacheKey := s.cacheKey(campaignID, organizationID, userID)
	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached model.CampaignInsight
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	campaign, err := s.Campaigns.FindByID(campaignID)
	if err != nil {
		// 活动取不到整个 pass 失败，不出部分结果
		return nil, util.ErrCampaignNotFound
	}

	// 社区回答、个人回答与题库解析三路并行；
	// 题库解析内部还会对每个视频再做一层 fan-out
	var (
		all, own       []model.ResponseRecord
		allErr, ownErr error
		wg             sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		all, allErr = s.Responses.GetAllResponses(campaignID, organizationID)
	}()
	go func() {
		defer wg.Done()
		own, ownErr = s.Responses.GetUserResponses(campaignID, userID)
	}()

	catalog, videoTitles, videoOrder := s.resolveCatalog(campaign)

	wg.Wait()
	if allErr != nil {
		return nil, allErr
	}
	if ownErr != nil {
		return nil, ownErr
	}

	groups := buildGroups(
		catalog, videoTitles, videoOrder,
		groupByKey(all), dedupOwnResponses(own),
		s.MinResponses,
	)
	insight := assembleInsight(campaignID, groups)

	if s.Redis != nil {
		if data, err := json.Marshal(insight); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("insight cache write failed", zap.Error(err))
			}
		}
	}

	return insight, nil
}

// LoadComparison 只要分组结果的便捷入口
func (s *ComparisonService) LoadComparison(ctx context.Context, campaignID string, organizationID, userID uint) ([]model.VideoGroup, error) {
	insight, err := s.LoadInsight(ctx, campaignID, organizationID, userID)
	if err != nil {
		return nil, err
	}
	return insight.Groups, nil
}

// Invalidate 新回答提交后清掉该活动下所有用户的快照
func (s *ComparisonService) Invalidate(ctx context.Context, campaignID string) {
	if s.Redis == nil {
		return
	}
	pattern := fmt.Sprintf("insight:%s:*", campaignID)
	iter := s.Redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.Redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.Warn("insight cache invalidation failed",
				zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("insight cache scan failed", zap.Error(err))
	}
}

func (s *ComparisonService) cacheKey(campaignID string, organizationID, userID uint) string {
	return fmt.Sprintf("insight:%s:%d:%d", campaignID, organizationID, userID)
}

// resolveCatalog 构建组合键题库：并行拉取每个视频的定义，
// 单个视频失败只记日志并回退到活动环节自带的题面，不中断整个 pass
func (s *ComparisonService) resolveCatalog(campaign *model.Campaign) (map[model.CompositeKey]*catalogEntry, map[string]string, []string) {
	videoIDs := make([]string, 0, len(campaign.Items))
	seen := make(map[string]bool, len(campaign.Items))
	for _, item := range campaign.Items {
		if item.VideoID == "" || seen[item.VideoID] {
			continue
		}
		seen[item.VideoID] = true
		videoIDs = append(videoIDs, item.VideoID)
	}

	type fetched struct {
		videoID string
		video   *model.Video
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []fetched
	)
	for _, videoID := range videoIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			video, err := s.Videos.FindByID(id)
			if err != nil {
				logger.Log.Warn("video metadata fetch failed, falling back to campaign item text",
					zap.String("videoId", id), zap.Error(err))
				return
			}
			mu.Lock()
			results = append(results, fetched{videoID: id, video: video})
			mu.Unlock()
		}(videoID)
	}
	wg.Wait()

	catalog := make(map[model.CompositeKey]*catalogEntry)
	videoTitles := make(map[string]string, len(results))
	order := 0

	byID := make(map[string]*model.Video, len(results))
	for _, f := range results {
		byID[f.videoID] = f.video
	}

	// 先按活动环节顺序录入视频定义里的题
	videoOrder := make([]string, 0, len(videoIDs))
	for _, videoID := range videoIDs {
		video, ok := byID[videoID]
		if !ok {
			continue
		}
		videoOrder = append(videoOrder, videoID)
		videoTitles[videoID] = video.Title
		for _, q := range video.Questions {
			key := model.MakeCompositeKey(videoID, q.QuestionID)
			if _, exists := catalog[key]; exists {
				continue
			}
			catalog[key] = &catalogEntry{
				Text:    q.Statement,
				Type:    q.Type,
				Options: q.Options,
				VideoID: videoID,
				Order:   order,
			}
			order++
		}
	}

	// 再补上环节自带而视频定义里没有的题（低保真：无类型无选项）
	for _, item := range campaign.Items {
		for _, q := range item.Questions {
			key := model.MakeCompositeKey(item.VideoID, q.ID)
			if _, exists := catalog[key]; exists {
				continue
			}
			catalog[key] = &catalogEntry{
				Text:    q.Question,
				VideoID: item.VideoID,
				Order:   order,
			}
			order++
		}
	}

	return catalog, videoTitles, videoOrder
}

// dedupOwnResponses 用户自己的回答按组合键去重，保留 answeredAt 最新的一条
func dedupOwnResponses(records []model.ResponseRecord) map[model.CompositeKey]*model.ResponseRecord {
	byKey := make(map[model.CompositeKey]*model.ResponseRecord, len(records))
	for i := range records {
		rec := &records[i]
		key := rec.Key()
		existing, ok := byKey[key]
		if !ok || !rec.AnsweredAt.Before(existing.AnsweredAt) {
			byKey[key] = rec
		}
	}
	return byKey
}

// groupByKey 社区回答按组合键分组，不做任何去重
func groupByKey(records []model.ResponseRecord) map[model.CompositeKey][]model.ResponseRecord {
	byKey := make(map[model.CompositeKey][]model.ResponseRecord)
	for _, rec := range records {
		byKey[rec.Key()] = append(byKey[rec.Key()], rec)
	}
	return byKey
}
