package service

import (
	"bytes"
	"context"
	"fmt"
	"peerlearn_backend/internal/model"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportService 把同伴对比结果导出为 XLSX 报表
type ExportService struct {
	Comparison *ComparisonService
}

func NewExportService(comparison *ComparisonService) *ExportService {
	return &ExportService{Comparison: comparison}
}

const summarySheet = "Summary"

// ExportInsight 生成活动对比报表：Summary 页放整体汇总，
// 每个视频分组一页明细
func (s *ExportService) ExportInsight(ctx context.Context, campaignID string, orgID, userID uint) (*bytes.Buffer, error) {
	insight, err := s.Comparison.LoadInsight(ctx, campaignID, orgID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := s.writeSummary(f, insight); err != nil {
		return nil, err
	}

	for i, group := range insight.Groups {
		// 页名限长 31，重名视频用序号区分
		name := fmt.Sprintf("%d-%s", i+1, group.VideoTitle)
		if len(name) > 31 {
			name = name[:31]
		}
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := s.writeGroup(f, name, group); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *ExportService) writeSummary(f *excelize.File, insight *model.CampaignInsight) error {
	rows := [][]interface{}{
		{"Campaign", insight.CampaignID},
		{"Video groups", len(insight.Groups)},
	}
	if insight.UserAverage != nil {
		rows = append(rows, []interface{}{"Your average", *insight.UserAverage})
	}
	if insight.TeamAverage != nil {
		rows = append(rows, []interface{}{"Team average", *insight.TeamAverage})
	}
	if insight.Headline != "" {
		rows = append(rows, []interface{}{"Standing", insight.Headline})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeGroup(f *excelize.File, sheet string, group model.VideoGroup) error {
	header := []interface{}{"Question", "Your answer", "Responses", "In majority", "Average", "Distribution"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range group.Comparisons {
		avg := ""
		if c.AverageScore != nil {
			avg = fmt.Sprintf("%.2f", *c.AverageScore)
		}
		row := []interface{}{
			c.Question,
			c.UserAnswer,
			c.TotalResponses,
			c.IsUserInMajority,
			avg,
			formatDistribution(c.AnswerDistribution),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "A", 48)
}

// formatDistribution 按标签排序输出 "A:3, B:1" 形式，保证导出稳定可 diff
func formatDistribution(dist map[string]int) string {
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var buf bytes.Buffer
	for i, label := range labels {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s:%d", label, dist[label])
	}
	return buf.String()
}
