package service

import (
	"context"
	"errors"
	"os"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/internal/util"
	"peerlearn_backend/pkg/logger"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeCampaignSource struct {
	campaigns map[string]*model.Campaign
}

func (f *fakeCampaignSource) FindByID(id string) (*model.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

type fakeVideoSource struct {
	videos map[string]*model.Video
	broken map[string]bool
}

func (f *fakeVideoSource) FindByID(id string) (*model.Video, error) {
	if f.broken[id] {
		return nil, errors.New("metadata backend unavailable")
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

type fakeResponseSource struct {
	all []model.ResponseRecord
	own []model.ResponseRecord
}

func (f *fakeResponseSource) GetAllResponses(campaignID string, organizationID uint) ([]model.ResponseRecord, error) {
	return f.all, nil
}

func (f *fakeResponseSource) GetUserResponses(campaignID string, userID uint) ([]model.ResponseRecord, error) {
	return f.own, nil
}

func scaleVideo(id, title string) *model.Video {
	v := &model.Video{
		Title: title,
		Questions: []model.VideoQuestion{
			{QuestionID: "q1", Statement: "How confident are you?", Type: model.QuestionScale, Position: 0},
		},
	}
	v.ID = id
	for i := range v.Questions {
		v.Questions[i].VideoID = id
	}
	return v
}

func testCampaign(id string, videoIDs ...string) *model.Campaign {
	c := &model.Campaign{Title: "Test Campaign"}
	c.ID = id
	for i, videoID := range videoIDs {
		c.Items = append(c.Items, model.CampaignItem{CampaignID: id, VideoID: videoID, Position: i})
	}
	return c
}

func newTestService(campaigns *fakeCampaignSource, videos *fakeVideoSource, responses *fakeResponseSource) *ComparisonService {
	return &ComparisonService{
		Campaigns:    campaigns,
		Videos:       videos,
		Responses:    responses,
		MinResponses: 3,
		CacheTTL:     time.Minute,
	}
}

func TestLoadInsightCampaignMissing(t *testing.T) {
	svc := newTestService(
		&fakeCampaignSource{campaigns: map[string]*model.Campaign{}},
		&fakeVideoSource{},
		&fakeResponseSource{},
	)

	_, err := svc.LoadInsight(context.Background(), "nope", 1, 1)
	if !errors.Is(err, util.ErrCampaignNotFound) {
		t.Errorf("err = %v, want ErrCampaignNotFound", err)
	}
}

func TestLoadInsightEndToEnd(t *testing.T) {
	campaign := testCampaign("c1", "v1")
	svc := newTestService(
		&fakeCampaignSource{campaigns: map[string]*model.Campaign{"c1": campaign}},
		&fakeVideoSource{videos: map[string]*model.Video{"v1": scaleVideo("v1", "Feedback Basics")}},
		&fakeResponseSource{
			all: []model.ResponseRecord{
				numRecord("v1", "q1", 1, 4),
				numRecord("v1", "q1", 2, 6),
				numRecord("v1", "q1", 3, 4),
			},
			own: []model.ResponseRecord{numRecord("v1", "q1", 1, 4)},
		},
	)

	insight, err := svc.LoadInsight(context.Background(), "c1", 1, 1)
	if err != nil {
		t.Fatalf("LoadInsight: %v", err)
	}

	if len(insight.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(insight.Groups))
	}
	g := insight.Groups[0]
	if g.VideoTitle != "Feedback Basics" {
		t.Errorf("VideoTitle = %q, want resolved video title", g.VideoTitle)
	}
	if len(g.Comparisons) != 1 {
		t.Fatalf("len(Comparisons) = %d, want 1", len(g.Comparisons))
	}

	cmp := g.Comparisons[0]
	if cmp.Question != "How confident are you?" {
		t.Errorf("Question = %q, want catalog statement", cmp.Question)
	}
	if cmp.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", cmp.TotalResponses)
	}
	if !cmp.IsUserInMajority {
		t.Error("user answered the majority value, expected IsUserInMajority")
	}
}

func TestLoadInsightVideoFetchFailureFallsBack(t *testing.T) {
	campaign := testCampaign("c1", "v1")
	campaign.Items[0].Questions = model.ItemQuestionList{
		{ID: "q1", Question: "Item-level statement"},
	}

	svc := newTestService(
		&fakeCampaignSource{campaigns: map[string]*model.Campaign{"c1": campaign}},
		&fakeVideoSource{broken: map[string]bool{"v1": true}},
		&fakeResponseSource{
			all: []model.ResponseRecord{
				numRecord("v1", "q1", 1, 4),
				numRecord("v1", "q1", 2, 5),
				numRecord("v1", "q1", 3, 4),
			},
			own: []model.ResponseRecord{numRecord("v1", "q1", 1, 4)},
		},
	)

	insight, err := svc.LoadInsight(context.Background(), "c1", 1, 1)
	if err != nil {
		t.Fatalf("LoadInsight must not fail when one video's metadata is unavailable: %v", err)
	}

	if len(insight.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(insight.Groups))
	}
	// 视频拉不到：标题无法解析，结果进哨兵分组，但题面用环节文案
	g := insight.Groups[0]
	if g.VideoID != model.UnknownVideoID {
		t.Errorf("VideoID = %q, want sentinel group", g.VideoID)
	}
	if g.Comparisons[0].Question != "Item-level statement" {
		t.Errorf("Question = %q, want campaign item fallback text", g.Comparisons[0].Question)
	}
}

func TestLoadInsightCompositeKeyIsolation(t *testing.T) {
	// 同一个 questionId 出现在两个视频下，必须各算各的
	campaign := testCampaign("c1", "v1", "v2")
	svc := newTestService(
		&fakeCampaignSource{campaigns: map[string]*model.Campaign{"c1": campaign}},
		&fakeVideoSource{videos: map[string]*model.Video{
			"v1": scaleVideo("v1", "Video One"),
			"v2": scaleVideo("v2", "Video Two"),
		}},
		&fakeResponseSource{
			all: []model.ResponseRecord{
				numRecord("v1", "q1", 1, 2), numRecord("v1", "q1", 2, 2), numRecord("v1", "q1", 3, 2),
				numRecord("v2", "q1", 1, 6), numRecord("v2", "q1", 2, 6), numRecord("v2", "q1", 3, 6),
			},
			own: []model.ResponseRecord{
				numRecord("v1", "q1", 1, 2),
				numRecord("v2", "q1", 1, 6),
			},
		},
	)

	insight, err := svc.LoadInsight(context.Background(), "c1", 1, 1)
	if err != nil {
		t.Fatalf("LoadInsight: %v", err)
	}

	if len(insight.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(insight.Groups))
	}
	if insight.Groups[0].Comparisons[0].AnswerDistribution["6"] != 0 {
		t.Error("responses from v2 leaked into v1's distribution")
	}
	if insight.Groups[1].Comparisons[0].AnswerDistribution["6"] != 3 {
		t.Errorf("v2 distribution = %v, want map[6:3]", insight.Groups[1].Comparisons[0].AnswerDistribution)
	}
}

func TestLoadInsightNoQualifyingQuestions(t *testing.T) {
	campaign := testCampaign("c1", "v1")
	svc := newTestService(
		&fakeCampaignSource{campaigns: map[string]*model.Campaign{"c1": campaign}},
		&fakeVideoSource{videos: map[string]*model.Video{"v1": scaleVideo("v1", "Video One")}},
		&fakeResponseSource{
			all: []model.ResponseRecord{numRecord("v1", "q1", 1, 4)},
			own: []model.ResponseRecord{numRecord("v1", "q1", 1, 4)},
		},
	)

	insight, err := svc.LoadInsight(context.Background(), "c1", 1, 1)
	if err != nil {
		t.Fatalf("LoadInsight: %v", err)
	}
	if len(insight.Groups) != 0 {
		t.Errorf("len(Groups) = %d, want 0 when nothing reaches the threshold", len(insight.Groups))
	}
}

func TestDedupOwnResponsesKeepsLatest(t *testing.T) {
	earlier := numRecord("v1", "q1", 1, 3)
	earlier.AnsweredAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := numRecord("v1", "q1", 1, 5)
	later.AnsweredAt = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	other := numRecord("v1", "q2", 1, 4)

	byKey := dedupOwnResponses([]model.ResponseRecord{earlier, later, other})

	if len(byKey) != 2 {
		t.Fatalf("len(byKey) = %d, want 2", len(byKey))
	}
	kept := byKey[model.MakeCompositeKey("v1", "q1")]
	if kept.Answer.String() != "5" {
		t.Errorf("kept answer = %q, want the later submission", kept.Answer.String())
	}
}

func TestGroupByKeyNoDedup(t *testing.T) {
	// 社区侧刻意保留同一用户的重复提交
	records := []model.ResponseRecord{
		numRecord("v1", "q1", 1, 3),
		numRecord("v1", "q1", 1, 5),
		numRecord("v1", "q1", 2, 4),
	}

	byKey := groupByKey(records)
	got := byKey[model.MakeCompositeKey("v1", "q1")]
	if len(got) != 3 {
		t.Errorf("len = %d, want 3 (duplicate submissions preserved)", len(got))
	}
}
