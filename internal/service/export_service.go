package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("无符合条件的投诉数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出是只读快照，不经过生命周期状态机
//   - 支持 xlsx（默认）与 csv 两种格式
//   - include_history 时附带全部审计轨迹（xlsx 独立 Sheet，csv 独立段落）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportComplaints 导出投诉快照，返回内容、建议文件名
	ExportComplaints(ctx context.Context, req *dto.ExportRequest, callerID, callerRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportRow 导出主表的一行
type exportRow struct {
	complaintNo  string
	title        string
	category     string
	subcategory  string
	priority     string
	status       string
	creator      string
	assignee     string
	createdAt    string
	resolvedAt   string
	remarks      string
	adminRemarks string
}

// historyRow 审计轨迹的一行
type historyRow struct {
	complaintNo string
	kind        string
	fromStatus  string
	toStatus    string
	actor       string
	remarks     string
	timestamp   string
}

var exportHeader = []string{
	"编号", "标题", "分类", "子分类", "优先级", "状态",
	"创建人", "受理人", "创建时间", "解决时间", "备注", "管理员备注",
}

var historyHeader = []string{
	"编号", "变更类型", "原状态", "新状态", "操作人", "备注", "时间",
}

func (s *exportService) ExportComplaints(ctx context.Context, req *dto.ExportRequest, callerID, callerRole string) (*bytes.Buffer, string, error) {
	// 1. 鉴权：仅管理员可导出
	if err := authorize(callerRole, OpExportComplaints, callerID, nil); err != nil {
		return nil, "", err
	}

	// 2. 组装过滤条件
	filters := &repository.ComplaintListFilters{
		Status:     req.Status,
		CategoryID: req.CategoryID,
	}
	if req.FromDate != "" {
		if t, err := time.Parse("2006-01-02", req.FromDate); err == nil {
			filters.FromDate = &t
		}
	}
	if req.ToDate != "" {
		if t, err := time.Parse("2006-01-02", req.ToDate); err == nil {
			filters.ToDate = &t
		}
	}

	complaints, err := s.repo.Complaint.ListAll(ctx, filters)
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}
	if len(complaints) == 0 {
		return nil, "", ErrExportNoData
	}

	// 3. 构建行数据
	rows := make([]exportRow, 0, len(complaints))
	for i := range complaints {
		rows = append(rows, buildExportRow(&complaints[i]))
	}

	var histories []historyRow
	if req.IncludeHistory {
		for i := range complaints {
			entries, err := s.repo.Complaint.ListHistory(ctx, complaints[i].ComplaintID)
			if err != nil {
				s.logger.Error("查询审计轨迹失败",
					zap.String("complaint_no", complaints[i].ComplaintNo),
					zap.Error(err),
				)
				return nil, "", err
			}
			for _, entry := range entries {
				actor := ""
				if entry.Actor != nil {
					actor = entry.Actor.Name
				}
				histories = append(histories, historyRow{
					complaintNo: complaints[i].ComplaintNo,
					kind:        entry.Kind,
					fromStatus:  entry.FromStatus,
					toStatus:    entry.ToStatus,
					actor:       actor,
					remarks:     entry.Remarks,
					timestamp:   formatTime(entry.CreatedAt),
				})
			}
		}
	}

	// 4. 按格式生成
	timestamp := time.Now().Format("20060102150405")
	if req.Format == "csv" {
		buf, err := renderCSV(rows, histories)
		if err != nil {
			s.logger.Error("生成 CSV 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		return buf, fmt.Sprintf("complaints_%s.csv", timestamp), nil
	}

	buf, err := renderXLSX(rows, histories)
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("complaints_%s.xlsx", timestamp), nil
}

func buildExportRow(c *model.Complaint) exportRow {
	row := exportRow{
		complaintNo:  c.ComplaintNo,
		title:        c.Title,
		priority:     c.Priority,
		status:       c.Status,
		createdAt:    formatTime(c.CreatedAt),
		remarks:      c.Remarks,
		adminRemarks: c.AdminRemarks,
	}
	if c.Category != nil {
		row.category = c.Category.Name
	}
	if c.Subcategory != nil {
		row.subcategory = c.Subcategory.Name
	}
	if c.Creator != nil {
		row.creator = c.Creator.Name
	}
	if c.Assignee != nil {
		row.assignee = c.Assignee.Name
	}
	if c.ResolvedAt != nil {
		row.resolvedAt = formatTime(*c.ResolvedAt)
	}
	return row
}

func (r exportRow) values() []string {
	return []string{
		r.complaintNo, r.title, r.category, r.subcategory, r.priority, r.status,
		r.creator, r.assignee, r.createdAt, r.resolvedAt, r.remarks, r.adminRemarks,
	}
}

func (r historyRow) values() []string {
	return []string{
		r.complaintNo, r.kind, r.fromStatus, r.toStatus, r.actor, r.remarks, r.timestamp,
	}
}

// renderXLSX 生成 Excel：投诉主表一个 Sheet，审计轨迹单独 Sheet
func renderXLSX(rows []exportRow, histories []historyRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "投诉清单"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, title := range exportHeader {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellName, title)
		f.SetCellStyle(sheetName, cellName, cellName, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "I", "J", 20)
	f.SetColWidth(sheetName, "K", "L", 30)

	// 数据行
	for rowIdx, row := range rows {
		for colIdx, value := range row.values() {
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cellName, value)
		}
	}

	if len(histories) > 0 {
		historySheet := "审计轨迹"
		if _, err := f.NewSheet(historySheet); err != nil {
			return nil, err
		}
		for i, title := range historyHeader {
			cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(historySheet, cellName, title)
			f.SetCellStyle(historySheet, cellName, cellName, headerStyle)
		}
		f.SetColWidth(historySheet, "A", "A", 20)
		f.SetColWidth(historySheet, "F", "G", 24)
		for rowIdx, row := range histories {
			for colIdx, value := range row.values() {
				cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(historySheet, cellName, value)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// renderCSV 生成 CSV：带 UTF-8 BOM 方便 Excel 直接打开，
// 审计轨迹作为空行分隔的第二段落
func renderCSV(rows []exportRow, histories []historyRow) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.values()); err != nil {
			return nil, err
		}
	}

	if len(histories) > 0 {
		if err := w.Write([]string{}); err != nil {
			return nil, err
		}
		if err := w.Write(historyHeader); err != nil {
			return nil, err
		}
		for _, row := range histories {
			if err := w.Write(row.values()); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}
