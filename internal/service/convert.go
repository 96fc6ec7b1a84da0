package service

import (
	"time"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
)

func toStudentItem(s *model.Student) *dto.StudentItem {
	return &dto.StudentItem{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Package:   s.Package,
		StartDate: s.StartDate.Format(billing.DateLayout),
		EndDate:   s.EndDate.Format(billing.DateLayout),
		Amount:    s.Amount,
		Status:    s.Status,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentItem(p *model.Payment) *dto.PaymentItem {
	return &dto.PaymentItem{
		ID:          p.ID,
		StudentID:   p.StudentID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(billing.DateLayout),
		Method:      p.Method,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentItems(payments []*model.Payment) []*dto.PaymentItem {
	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentItem(p))
	}
	return items
}

func toNewsItem(n *model.News) *dto.NewsItem {
	return &dto.NewsItem{
		ID:            n.ID,
		Title:         n.Title,
		Category:      n.Category,
		Content:       n.Content,
		Image:         n.Image,
		Status:        n.Status,
		IsBreaking:    n.IsBreaking,
		IsHighlighted: n.IsHighlighted,
		Date:          n.PublishedAt.UTC().Format(time.RFC3339),
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     n.UpdatedAt.Format(time.RFC3339),
	}
}

func toNewsItems(items []*model.News) []*dto.NewsItem {
	out := make([]*dto.NewsItem, 0, len(items))
	for _, n := range items {
		out = append(out, toNewsItem(n))
	}
	return out
}

func toExportJobItem(j *model.ExportJob) *dto.ExportJobItem {
	item := &dto.ExportJobItem{
		ID:             j.ID,
		Kind:           j.Kind,
		RequestedBy:    j.RequestedBy,
		Status:         j.Status,
		FileURL:        j.FileURL,
		ErrorMessage:   j.ErrorMessage,
		CreatedAt:      j.CreatedAt.Format(time.RFC3339),
		ElapsedSeconds: j.ElapsedSeconds,
	}
	if j.CompletedAt != nil {
		item.CompletedAt = j.CompletedAt.Format(time.RFC3339)
	}
	return item
}
