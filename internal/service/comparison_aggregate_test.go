package service

import (
	"math"
	"peerlearn_backend/internal/model"
	"testing"
	"time"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-2
}

func numRecord(videoID, questionID string, userID uint, value float64) model.ResponseRecord {
	return model.ResponseRecord{
		VideoID:    videoID,
		QuestionID: questionID,
		UserID:     userID,
		Answer:     model.NumberAnswer(value),
		AnsweredAt: time.Now(),
	}
}

func optRecord(videoID, questionID string, userID uint, optionID string) model.ResponseRecord {
	return model.ResponseRecord{
		VideoID:          videoID,
		QuestionID:       questionID,
		UserID:           userID,
		Answer:           model.StringAnswer(optionID),
		SelectedOptionID: optionID,
		AnsweredAt:       time.Now(),
	}
}

func TestBuildQuestionStatsNumeric(t *testing.T) {
	records := []model.ResponseRecord{
		numRecord("v1", "q1", 1, 4),
		numRecord("v1", "q1", 2, 6),
		numRecord("v1", "q1", 3, 4),
	}

	st, ok := buildQuestionStats(nil, records, 3)
	if !ok {
		t.Fatal("expected stats to qualify with 3 responses")
	}

	if st.Total != 3 {
		t.Errorf("Total = %d, want 3", st.Total)
	}
	if st.Counts["4"] != 2 || st.Counts["6"] != 1 {
		t.Errorf("Counts = %v, want map[4:2 6:1]", st.Counts)
	}
	if st.Majority != "4" {
		t.Errorf("Majority = %q, want \"4\"", st.Majority)
	}
	if st.Average == nil {
		t.Fatal("Average = nil, want ~4.67")
	}
	if !almostEqual(*st.Average, 4.67) {
		t.Errorf("Average = %f, want ~4.67", *st.Average)
	}
}

func TestBuildQuestionStatsBelowThreshold(t *testing.T) {
	records := []model.ResponseRecord{
		numRecord("v1", "q1", 1, 4),
		numRecord("v1", "q1", 2, 6),
	}

	if _, ok := buildQuestionStats(nil, records, 3); ok {
		t.Error("expected question with 2 responses to be dropped at threshold 3")
	}
}

func TestBuildQuestionStatsMixedNumeric(t *testing.T) {
	// 文本答案不进均值，但进分布和 Total
	records := []model.ResponseRecord{
		numRecord("v1", "q1", 1, 5),
		numRecord("v1", "q1", 2, 3),
		{VideoID: "v1", QuestionID: "q1", UserID: 3, Answer: model.StringAnswer("not sure")},
	}

	st, ok := buildQuestionStats(nil, records, 3)
	if !ok {
		t.Fatal("expected stats to qualify")
	}
	if st.Total != 3 {
		t.Errorf("Total = %d, want 3", st.Total)
	}
	if st.Counts["not sure"] != 1 {
		t.Errorf("Counts[\"not sure\"] = %d, want 1", st.Counts["not sure"])
	}
	if st.Average == nil || !almostEqual(*st.Average, 4.0) {
		t.Errorf("Average over parseable answers = %v, want 4.0", st.Average)
	}
}

func behavioralEntry() *catalogEntry {
	return &catalogEntry{
		Text: "What would you do next?",
		Type: model.QuestionBehavioralIntent,
		Options: model.QuestionOptionList{
			{ID: "o1", Text: "Speak up now", IntentScore: 0.9},
			{ID: "o2", Text: "Wait for later", IntentScore: 0.5},
			{ID: "o3", Text: "Do nothing", IntentScore: 0.1},
		},
		VideoID: "v1",
	}
}

func TestBuildQuestionStatsBehavioralIntent(t *testing.T) {
	entry := behavioralEntry()
	records := []model.ResponseRecord{
		optRecord("v1", "q2", 1, "o1"),
		optRecord("v1", "q2", 2, "o2"),
		// 缺失 selectedOptionId：不进分布，但计入 Total
		{VideoID: "v1", QuestionID: "q2", UserID: 3, Answer: model.StringAnswer("free text")},
	}

	st, ok := buildQuestionStats(entry, records, 3)
	if !ok {
		t.Fatal("expected stats to qualify")
	}

	if st.Total != 3 {
		t.Errorf("Total = %d, want 3 (unmapped answers still count)", st.Total)
	}
	if st.Counts["A"] != 1 || st.Counts["B"] != 1 {
		t.Errorf("Counts = %v, want map[A:1 B:1]", st.Counts)
	}
	if len(st.Counts) != 2 {
		t.Errorf("unmapped selection leaked into distribution: %v", st.Counts)
	}
	if st.Average != nil {
		t.Error("behavioral-intent questions must not produce a numeric average")
	}
}

func TestLetterAssignmentFollowsOptionPosition(t *testing.T) {
	entry := behavioralEntry()
	records := []model.ResponseRecord{
		optRecord("v1", "q2", 1, "o3"),
		optRecord("v1", "q2", 2, "o3"),
		optRecord("v1", "q2", 3, "o1"),
	}

	st, ok := buildQuestionStats(entry, records, 3)
	if !ok {
		t.Fatal("expected stats to qualify")
	}

	// o1→A, o2→B, o3→C，和选项文案无关
	if st.Letters["o1"] != "A" || st.Letters["o2"] != "B" || st.Letters["o3"] != "C" {
		t.Errorf("Letters = %v, want o1:A o2:B o3:C", st.Letters)
	}
	if st.OptionLabels["C"].Text != "Do nothing" {
		t.Errorf("OptionLabels[C] = %v, want the third option", st.OptionLabels["C"])
	}
	if !almostEqual(st.OptionLabels["A"].IntentScore, 0.9) {
		t.Errorf("OptionLabels[A].IntentScore = %f, want 0.9", st.OptionLabels["A"].IntentScore)
	}
	if st.Majority != "C" {
		t.Errorf("Majority = %q, want \"C\"", st.Majority)
	}
}

func TestMajorityLabelTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{"clear winner", map[string]int{"A": 3, "B": 1}, "A"},
		{"tie resolves lexically", map[string]int{"B": 2, "A": 2}, "A"},
		{"three-way tie", map[string]int{"C": 1, "B": 1, "A": 1}, "A"},
		{"empty", map[string]int{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := majorityLabel(tt.counts); got != tt.want {
				t.Errorf("majorityLabel(%v) = %q, want %q", tt.counts, got, tt.want)
			}
		})
	}
}

func TestAssembleComparisonQuestionTextFallback(t *testing.T) {
	st := &questionStats{Counts: map[string]int{"4": 2}, Majority: "4", Total: 2}

	own := &model.ResponseRecord{
		VideoID:      "v1",
		QuestionID:   "q1",
		Answer:       model.NumberAnswer(4),
		QuestionText: "Snapshot text",
	}

	// 题库有题面：优先用题库
	entry := &catalogEntry{Text: "Catalog text"}
	if got := assembleComparison(entry, st, own).Question; got != "Catalog text" {
		t.Errorf("Question = %q, want catalog text", got)
	}

	// 题库缺失：用回答快照
	if got := assembleComparison(nil, st, own).Question; got != "Snapshot text" {
		t.Errorf("Question = %q, want snapshot text", got)
	}

	// 两者都缺失：兜底
	own.QuestionText = ""
	if got := assembleComparison(nil, st, own).Question; got != model.FallbackQuestionText {
		t.Errorf("Question = %q, want fallback", got)
	}
}

func TestAssembleComparisonMajorityFlag(t *testing.T) {
	st := &questionStats{Counts: map[string]int{"4": 2, "6": 1}, Majority: "4", Total: 3}

	inMajority := &model.ResponseRecord{VideoID: "v1", QuestionID: "q1", Answer: model.NumberAnswer(4)}
	if !assembleComparison(nil, st, inMajority).IsUserInMajority {
		t.Error("user answering the majority value should be flagged in-majority")
	}

	outside := &model.ResponseRecord{VideoID: "v1", QuestionID: "q1", Answer: model.NumberAnswer(6)}
	if assembleComparison(nil, st, outside).IsUserInMajority {
		t.Error("user answering a minority value must not be in-majority")
	}
}

func TestBuildGroupsOrderAndSentinel(t *testing.T) {
	catalog := map[model.CompositeKey]*catalogEntry{
		model.MakeCompositeKey("v1", "q1"): {Text: "Q1", Type: model.QuestionScale, VideoID: "v1", Order: 0},
		model.MakeCompositeKey("v2", "q2"): {Text: "Q2", Type: model.QuestionScale, VideoID: "v2", Order: 1},
	}
	videoTitles := map[string]string{"v1": "First Video", "v2": "Second Video"}
	videoOrder := []string{"v1", "v2"}

	allByKey := map[model.CompositeKey][]model.ResponseRecord{
		model.MakeCompositeKey("v1", "q1"): {
			numRecord("v1", "q1", 1, 4), numRecord("v1", "q1", 2, 5), numRecord("v1", "q1", 3, 4),
		},
		model.MakeCompositeKey("v2", "q2"): {
			numRecord("v2", "q2", 1, 3), numRecord("v2", "q2", 2, 3), numRecord("v2", "q2", 3, 5),
		},
		// 题库解析不到的视频
		model.MakeCompositeKey("ghost", "q9"): {
			numRecord("ghost", "q9", 1, 2), numRecord("ghost", "q9", 2, 2), numRecord("ghost", "q9", 3, 2),
		},
	}

	own1 := numRecord("v1", "q1", 1, 4)
	own2 := numRecord("v2", "q2", 1, 3)
	own3 := numRecord("ghost", "q9", 1, 2)
	ownByKey := map[model.CompositeKey]*model.ResponseRecord{
		own1.Key(): &own1,
		own2.Key(): &own2,
		own3.Key(): &own3,
	}

	groups := buildGroups(catalog, videoTitles, videoOrder, allByKey, ownByKey, 3)

	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	if groups[0].VideoID != "v1" || groups[1].VideoID != "v2" {
		t.Errorf("group order = [%s %s], want campaign item order", groups[0].VideoID, groups[1].VideoID)
	}

	sentinel := groups[len(groups)-1]
	if sentinel.VideoID != model.UnknownVideoID {
		t.Errorf("last group VideoID = %q, want %q", sentinel.VideoID, model.UnknownVideoID)
	}
	if sentinel.VideoTitle != model.OtherQuestionsTitle {
		t.Errorf("sentinel title = %q, want %q", sentinel.VideoTitle, model.OtherQuestionsTitle)
	}
	if len(sentinel.Comparisons) != 1 || sentinel.Comparisons[0].QuestionID != "q9" {
		t.Errorf("sentinel comparisons = %v, want the orphaned question", sentinel.Comparisons)
	}
}

func TestBuildGroupsDropsUnqualifiedQuestions(t *testing.T) {
	key := model.MakeCompositeKey("v1", "q1")
	allByKey := map[model.CompositeKey][]model.ResponseRecord{
		key: {numRecord("v1", "q1", 1, 4), numRecord("v1", "q1", 2, 5)},
	}
	own := numRecord("v1", "q1", 1, 4)
	ownByKey := map[model.CompositeKey]*model.ResponseRecord{key: &own}

	groups := buildGroups(nil, nil, nil, allByKey, ownByKey, 3)
	if len(groups) != 0 {
		t.Errorf("len(groups) = %d, want 0 when no question reaches the threshold", len(groups))
	}
}

func TestNumericRollupExcludesNonNumeric(t *testing.T) {
	avg4 := 4.5
	results := []model.ComparisonResult{
		{UserAnswer: "4", AverageScore: &avg4},
		{UserAnswer: "B"},            // 选择题：无均值
		{UserAnswer: "free text"},    // 文本题
		{UserAnswer: "3"},            // 数值答案但社区无均值
		{UserAnswer: "", Type: "qualitative"},
	}

	userAvg, commAvg := numericRollup(results)
	if userAvg == nil || commAvg == nil {
		t.Fatal("expected roll-up over the single numeric pair")
	}
	if math.Abs(*userAvg-4) > epsilon {
		t.Errorf("userAvg = %f, want 4", *userAvg)
	}
	if math.Abs(*commAvg-4.5) > epsilon {
		t.Errorf("commAvg = %f, want 4.5", *commAvg)
	}

	if u, c := numericRollup(nil); u != nil || c != nil {
		t.Error("empty input must produce nil averages")
	}
}

func TestEstimatePercentile(t *testing.T) {
	tests := []struct {
		diff float64
		want int
	}{
		{0.6, 15},
		{0.51, 15},
		{0.5, 25},
		{0.4, 25},
		{0.3, 35},
		{0.2, 35},
		{0.1, 50},
		{0.0, 50},
		{-0.1, 50},
		{-0.2, 60},
		{-0.3, 60},
		{-0.4, 75},
		{-0.5, 75},
		{-0.6, 85},
		{-1.2, 85},
	}

	for _, tt := range tests {
		if got := estimatePercentile(tt.diff); got != tt.want {
			t.Errorf("estimatePercentile(%v) = %d, want %d", tt.diff, got, tt.want)
		}
	}
}

func TestAssembleInsightHeadline(t *testing.T) {
	avg := 3.0
	groups := []model.VideoGroup{
		{
			VideoID: "v1",
			Comparisons: []model.ComparisonResult{
				{UserAnswer: "3.6", AverageScore: &avg},
			},
		},
	}

	insight := assembleInsight("c1", groups)
	if insight.CampaignID != "c1" {
		t.Errorf("CampaignID = %q, want c1", insight.CampaignID)
	}
	// diff = 0.6 → 百分位 15 → "Top 85%"
	if insight.Percentile != 15 {
		t.Errorf("Percentile = %d, want 15", insight.Percentile)
	}
	if insight.Headline != "Top 85%" {
		t.Errorf("Headline = %q, want \"Top 85%%\"", insight.Headline)
	}
}

func TestAssembleInsightWithoutNumericData(t *testing.T) {
	groups := []model.VideoGroup{
		{VideoID: "v1", Comparisons: []model.ComparisonResult{{UserAnswer: "B"}}},
	}

	insight := assembleInsight("c1", groups)
	if insight.UserAverage != nil || insight.TeamAverage != nil {
		t.Error("non-numeric campaigns must not produce averages")
	}
	if insight.Percentile != 0 || insight.Headline != "" {
		t.Errorf("expected no percentile/headline, got %d / %q", insight.Percentile, insight.Headline)
	}
}
