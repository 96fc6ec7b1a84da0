// Package newsfeed 新闻列表的筛选、排序与突发新闻检测。
package newsfeed

import (
	"slices"
	"time"

	"github.com/qs3c/academy_server/internal/model"
)

const (
	// CategoryAll 不按分类过滤
	CategoryAll = "all"
	// CategoryAnnouncements 只有公告分类会被当作突发新闻
	CategoryAnnouncements = "announcements"

	BreakingWindow = 24 * time.Hour
)

// SelectFeed 只保留已发布的新闻，按分类过滤后按发布时间倒序排列，
// 发布时间相同的保持输入顺序。入参切片不会被修改。
func SelectFeed(items []*model.News, category string) []*model.News {
	feed := make([]*model.News, 0, len(items))
	for _, n := range items {
		if n == nil || n.Status != model.NewsStatusPublished {
			continue
		}
		if category != "" && category != CategoryAll && n.Category != category {
			continue
		}
		feed = append(feed, n)
	}

	slices.SortStableFunc(feed, func(a, b *model.News) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return feed
}

// DetectBreaking 按输入顺序找到第一条 24 小时内发布的公告。
// 结果依赖 now，调用方每次轮询都应重新计算。
func DetectBreaking(items []*model.News, now time.Time) *model.News {
	for _, n := range items {
		if n == nil || n.Status != model.NewsStatusPublished || n.Category != CategoryAnnouncements {
			continue
		}
		if now.Sub(n.PublishedAt) <= BreakingWindow {
			return n
		}
	}
	return nil
}
