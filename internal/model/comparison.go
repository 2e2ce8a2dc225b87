package model

// 同伴对比的派生结果类型。每次加载重新计算，从不落库；
// redis 里只存带 TTL 的快照。

// UnknownVideoID 回答无法归属到任何已知视频时的哨兵分组
const (
	UnknownVideoID      = "unknown"
	OtherQuestionsTitle = "Other Questions"
)

// FallbackQuestionText 题库和回答快照都没有题面时的兜底展示
const FallbackQuestionText = "Question"

// OptionLabel 字母标签到选项内容的映射值
type OptionLabel struct {
	Text        string  `json:"text"`
	IntentScore float64 `json:"intentScore"`
}

// ComparisonResult 单题的用户-社区对比
type ComparisonResult struct {
	QuestionID         string                 `json:"questionId"`
	Question           string                 `json:"question"`
	UserAnswer         string                 `json:"userAnswer"`
	AnswerDistribution map[string]int         `json:"answerDistribution"`
	TotalResponses     int                    `json:"totalResponses"`
	IsUserInMajority   bool                   `json:"isUserInMajority"`
	VideoID            string                 `json:"videoId"`
	Type               QuestionType           `json:"type,omitempty"`
	AverageScore       *float64               `json:"averageScore,omitempty"`
	OptionLabels       map[string]OptionLabel `json:"optionLabels,omitempty"`
}

// VideoGroup 按视频分组的对比结果。UserAverage/CommunityAverage 只对
// 双方都是数值的题（scale 类）求均值，选择题和文本题不参与。
type VideoGroup struct {
	VideoID          string             `json:"videoId"`
	VideoTitle       string             `json:"videoTitle"`
	Comparisons      []ComparisonResult `json:"comparisons"`
	UserAverage      *float64           `json:"userAverage,omitempty"`
	CommunityAverage *float64           `json:"communityAverage,omitempty"`
}

// CampaignInsight 整个活动的对比汇总，Headline 形如 "Top 85%"
type CampaignInsight struct {
	CampaignID  string       `json:"campaignId"`
	Groups      []VideoGroup `json:"groups"`
	UserAverage *float64     `json:"userAverage,omitempty"`
	TeamAverage *float64     `json:"teamAverage,omitempty"`
	Percentile  int          `json:"percentile,omitempty"`
	Headline    string       `json:"headline,omitempty"`
}
