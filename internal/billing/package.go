// Package billing 套餐、缴费状态与账目汇总的纯计算逻辑，不做任何 I/O。
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout 日期字段的统一格式
const DateLayout = "2006-01-02"

var ErrUnknownPackage = errors.New("未知套餐")

// UnknownPackageError 套餐名不在目录中
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("未知套餐: %q", e.Name)
}

func (e *UnknownPackageError) Is(target error) bool {
	return target == ErrUnknownPackage
}

// Package 固定时长、固定价格的套餐
type Package struct {
	Name   string `json:"name"`
	Months int    `json:"months"`
	Price  int64  `json:"price"`
}

var catalog = []Package{
	{Name: "1 Month", Months: 1, Price: 4000},
	{Name: "3 Months", Months: 3, Price: 10000},
	{Name: "6 Months", Months: 6, Price: 20000},
	{Name: "1 Year", Months: 12, Price: 40000},
}

// Packages 返回套餐目录的副本
func Packages() []Package {
	out := make([]Package, len(catalog))
	copy(out, catalog)
	return out
}

// LookupPackage 按名称查找套餐
func LookupPackage(name string) (Package, error) {
	for _, p := range catalog {
		if p.Name == name {
			return p, nil
		}
	}
	return Package{}, &UnknownPackageError{Name: name}
}

// LookupPrice 套餐标价
func LookupPrice(name string) (int64, error) {
	p, err := LookupPackage(name)
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}

// ComputeEndDate 开始日期加上套餐时长
func ComputeEndDate(start time.Time, name string) (time.Time, error) {
	p, err := LookupPackage(name)
	if err != nil {
		return time.Time{}, err
	}
	return AddMonths(start, p.Months), nil
}

// AddMonths 按自然月推进日期。目标月份没有对应日期时取该月最后一天，
// 例如 1 月 31 日加一个月得到 2 月 28/29 日。
func AddMonths(t time.Time, months int) time.Time {
	day := t.Day()
	first := now.With(t).BeginningOfMonth().AddDate(0, months, 0)
	if last := now.With(first).EndOfMonth().Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// DateOf 取 t 所在的日历日，统一为 UTC 零点
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
