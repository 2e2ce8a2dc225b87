package service

import (
	"fmt"
	"math"
	"peerlearn_backend/internal/model"
	"sort"
	"strconv"
	"strings"
)

// 同伴对比的纯聚合部分：输入是已经收集好的回答和题库，
// 输出是按视频分组的对比结果。不做任何 IO。

// catalogEntry 按组合键解析出的题目元数据。来自视频定义时带类型和选项；
// 来自活动环节文案回退时只有题面。
type catalogEntry struct {
	Text    string
	Type    model.QuestionType
	Options model.QuestionOptionList
	VideoID string
	Order   int
}

// questionStats 单题的社区分布统计
type questionStats struct {
	Counts       map[string]int
	Majority     string
	Total        int
	Average      *float64
	Letters      map[string]string // 选项ID -> 字母，仅 behavioral-intent
	OptionLabels map[string]model.OptionLabel
}

func letterForIndex(i int) string {
	return string(rune('A' + i))
}

// buildQuestionStats 构建一道题的分布。总回答数不足 minResponses 时返回 false。
//
// behavioral-intent 且有选项时：按选项在数组中的位置分配字母（0→A, 1→B, ...），
// 分布以字母计数；selectedOptionId 缺失或映射不到的回答不进分布，但仍计入 Total。
// 其余类型：分布以回答的字符串形式计数，同时对能解析为有限数值的子集单独累计均值，
// 均值的样本数与 Total 是两回事。
func buildQuestionStats(entry *catalogEntry, records []model.ResponseRecord, minResponses int) (*questionStats, bool) {
	if len(records) < minResponses {
		return nil, false
	}

	st := &questionStats{
		Counts: make(map[string]int),
		Total:  len(records),
	}

	if entry != nil && entry.Type == model.QuestionBehavioralIntent && len(entry.Options) > 0 {
		st.Letters = make(map[string]string, len(entry.Options))
		st.OptionLabels = make(map[string]model.OptionLabel, len(entry.Options))
		for i, opt := range entry.Options {
			letter := letterForIndex(i)
			st.Letters[opt.ID] = letter
			st.OptionLabels[letter] = model.OptionLabel{Text: opt.Text, IntentScore: opt.IntentScore}
		}
		for _, rec := range records {
			letter, ok := st.Letters[rec.SelectedOptionID]
			if !ok {
				continue
			}
			st.Counts[letter]++
		}
	} else {
		var sum float64
		var n int
		for _, rec := range records {
			st.Counts[rec.Answer.String()]++
			if f, ok := rec.Answer.Float(); ok {
				sum += f
				n++
			}
		}
		if n > 0 {
			avg := sum / float64(n)
			st.Average = &avg
		}
	}

	st.Majority = majorityLabel(st.Counts)
	return st, true
}

// majorityLabel 多数派标签：按计数降序，计数相同时按标签字典序升序。
// 次级排序键保证了跨运行的确定性。
func majorityLabel(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	type entry struct {
		label string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, entry{label, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})
	return entries[0].label
}

// resolveUserAnswer 用户自己答案的展示形式：behavioral-intent 题走同一张字母表，
// 映射不到时退回原始答案字符串
func resolveUserAnswer(st *questionStats, own *model.ResponseRecord) string {
	if st.Letters != nil {
		if letter, ok := st.Letters[own.SelectedOptionID]; ok {
			return letter
		}
	}
	return own.Answer.String()
}

// assembleComparison 把单题的分布和用户自己的回答拼成对比结果
func assembleComparison(entry *catalogEntry, st *questionStats, own *model.ResponseRecord) model.ComparisonResult {
	question := model.FallbackQuestionText
	var qType model.QuestionType
	if entry != nil {
		question = entry.Text
		qType = entry.Type
	} else if own.QuestionText != "" {
		question = own.QuestionText
	}

	userAnswer := resolveUserAnswer(st, own)

	return model.ComparisonResult{
		QuestionID:         own.QuestionID,
		Question:           question,
		UserAnswer:         userAnswer,
		AnswerDistribution: st.Counts,
		TotalResponses:     st.Total,
		IsUserInMajority:   st.Majority != "" && strings.TrimSpace(userAnswer) == strings.TrimSpace(st.Majority),
		VideoID:            own.VideoID,
		Type:               qType,
		AverageScore:       st.Average,
		OptionLabels:       st.OptionLabels,
	}
}

// buildGroups 聚合主流程：对每个用户作答过且达到门槛的题生成对比结果，
// 按视频分组；归属不了已知视频的结果进 "Other Questions" 哨兵分组，排最后
func buildGroups(
	catalog map[model.CompositeKey]*catalogEntry,
	videoTitles map[string]string,
	videoOrder []string,
	allByKey map[model.CompositeKey][]model.ResponseRecord,
	ownByKey map[model.CompositeKey]*model.ResponseRecord,
	minResponses int,
) []model.VideoGroup {
	keys := sortedOwnKeys(catalog, ownByKey)

	byVideo := make(map[string][]model.ComparisonResult)
	for _, key := range keys {
		own := ownByKey[key]
		entry := catalog[key]

		st, ok := buildQuestionStats(entry, allByKey[key], minResponses)
		if !ok {
			continue
		}

		result := assembleComparison(entry, st, own)
		byVideo[own.VideoID] = append(byVideo[own.VideoID], result)
	}

	groups := make([]model.VideoGroup, 0, len(byVideo))
	seen := make(map[string]bool, len(byVideo))

	for _, videoID := range videoOrder {
		results, ok := byVideo[videoID]
		if !ok {
			continue
		}
		seen[videoID] = true
		groups = append(groups, newVideoGroup(videoID, videoTitles[videoID], results))
	}

	// 剩下的全部归入哨兵分组，固定排在已知视频之后
	var orphaned []model.ComparisonResult
	orphanVideos := make([]string, 0)
	for videoID := range byVideo {
		if !seen[videoID] {
			orphanVideos = append(orphanVideos, videoID)
		}
	}
	sort.Strings(orphanVideos)
	for _, videoID := range orphanVideos {
		orphaned = append(orphaned, byVideo[videoID]...)
	}
	if len(orphaned) > 0 {
		groups = append(groups, newVideoGroup(model.UnknownVideoID, model.OtherQuestionsTitle, orphaned))
	}

	return groups
}

// sortedOwnKeys 输出顺序：题库里有的按目录顺序，其余按组合键字典序排在后面
func sortedOwnKeys(catalog map[model.CompositeKey]*catalogEntry, ownByKey map[model.CompositeKey]*model.ResponseRecord) []model.CompositeKey {
	keys := make([]model.CompositeKey, 0, len(ownByKey))
	for key := range ownByKey {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ei, iOK := catalog[keys[i]]
		ej, jOK := catalog[keys[j]]
		if iOK && jOK {
			if ei.Order != ej.Order {
				return ei.Order < ej.Order
			}
			return keys[i] < keys[j]
		}
		if iOK != jOK {
			return iOK
		}
		return keys[i] < keys[j]
	})
	return keys
}

func newVideoGroup(videoID, title string, results []model.ComparisonResult) model.VideoGroup {
	userAvg, commAvg := numericRollup(results)
	return model.VideoGroup{
		VideoID:          videoID,
		VideoTitle:       title,
		Comparisons:      results,
		UserAverage:      userAvg,
		CommunityAverage: commAvg,
	}
}

// numericRollup 只对"用户答案和社区均值都为数值"的题求均值，
// 选择题和文本题出现在列表里但不参与
func numericRollup(results []model.ComparisonResult) (*float64, *float64) {
	var userSum, commSum float64
	var n int
	for _, res := range results {
		ua, ok := parseNumeric(res.UserAnswer)
		if !ok || res.AverageScore == nil {
			continue
		}
		userSum += ua
		commSum += *res.AverageScore
		n++
	}
	if n == 0 {
		return nil, nil
	}
	userAvg := userSum / float64(n)
	commAvg := commSum / float64(n)
	return &userAvg, &commAvg
}

func parseNumeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// estimatePercentile 把用户与社区的分差映射到粗粒度的百分位档。
// 阈值是产品定死的启发式近似，不是统计模型，不要调整。
func estimatePercentile(difference float64) int {
	switch {
	case difference > 0.5:
		return 15
	case difference > 0.3:
		return 25
	case difference > 0.1:
		return 35
	case difference < -0.5:
		return 85
	case difference < -0.3:
		return 75
	case difference < -0.1:
		return 60
	default:
		return 50
	}
}

// assembleInsight 活动级汇总：跨所有视频的数值题均值 + 百分位标语
func assembleInsight(campaignID string, groups []model.VideoGroup) *model.CampaignInsight {
	var all []model.ComparisonResult
	for _, g := range groups {
		all = append(all, g.Comparisons...)
	}

	insight := &model.CampaignInsight{
		CampaignID: campaignID,
		Groups:     groups,
	}

	userAvg, teamAvg := numericRollup(all)
	insight.UserAverage = userAvg
	insight.TeamAverage = teamAvg

	if userAvg != nil && teamAvg != nil {
		p := estimatePercentile(*userAvg - *teamAvg)
		insight.Percentile = p
		insight.Headline = fmt.Sprintf("Top %d%%", 100-p)
	}

	return insight
}
