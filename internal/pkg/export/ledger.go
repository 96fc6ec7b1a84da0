// Package export 把学员与缴费台账写成 xlsx 工作簿。
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
)

const (
	SheetStudents = "Students"
	SheetPayments = "Payments"
	SheetSummary  = "Summary"
)

var (
	studentHeaders = []string{"ID", "Name", "Package", "Start Date", "End Date", "Amount", "Status", "Paid", "Due"}
	paymentHeaders = []string{"ID", "Reference", "Student", "Amount", "Date", "Method", "Notes"}
)

// Ledger 导出所需的数据，Students 的状态应已由缴费记录推导
type Ledger struct {
	Students []*model.Student
	Payments []*model.Payment
}

// BuildLedger 生成台账工作簿并返回 xlsx 字节
func BuildLedger(l *Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// 默认的 Sheet1 改名为学员表
	if err := f.SetSheetName("Sheet1", SheetStudents); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetPayments); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}

	if err := writeStudents(f, l); err != nil {
		return nil, fmt.Errorf("failed to write students sheet: %w", err)
	}
	if err := writePayments(f, l); err != nil {
		return nil, fmt.Errorf("failed to write payments sheet: %w", err)
	}
	if err := writeSummary(f, l); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStudents(f *excelize.File, l *Ledger) error {
	if err := writeHeader(f, SheetStudents, studentHeaders); err != nil {
		return err
	}

	byStudent := billing.GroupByStudent(l.Payments)
	for i, s := range l.Students {
		c := billing.Classify(s, byStudent[s.ID])
		row := []interface{}{
			s.ID, s.Name, s.Package,
			s.StartDate.Format(billing.DateLayout), s.EndDate.Format(billing.DateLayout),
			s.Amount, c.Status, c.AmountPaid, c.AmountDue,
		}
		if err := writeRow(f, SheetStudents, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writePayments(f *excelize.File, l *Ledger) error {
	if err := writeHeader(f, SheetPayments, paymentHeaders); err != nil {
		return err
	}

	names := make(map[int64]string, len(l.Students))
	for _, s := range l.Students {
		names[s.ID] = s.Name
	}

	for i, p := range l.Payments {
		student, ok := names[p.StudentID]
		if !ok {
			student = fmt.Sprintf("#%d", p.StudentID)
		}
		row := []interface{}{
			p.ID, p.Reference, student, p.Amount,
			p.PaymentDate.Format(billing.DateLayout), p.Method, p.Notes,
		}
		if err := writeRow(f, SheetPayments, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, l *Ledger) error {
	sum := billing.Aggregate(l.Students)
	rows := [][]interface{}{
		{"Total Students", sum.StudentCount},
		{"Total Revenue", sum.TotalRevenue},
		{"Total Pending", sum.TotalPending},
		{"Pending Students", sum.PendingCount},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return writeRow(f, sheet, 1, row)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
