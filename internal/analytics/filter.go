package analytics

import (
	"time"

	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

// RiskSelector 风险档位过滤
type RiskSelector int

const (
	// RiskAll 不按风险过滤
	RiskAll RiskSelector = iota
	// RiskHighOnly 只保留高风险订单
	RiskHighOnly
	// RiskLowOnly 只保留非高风险订单
	RiskLowOnly
)

// Filter 查询过滤条件，维度的零值表示该维度不限制
type Filter struct {
	// From/To 下单日期窗口，按日期粒度比较且两端均含当天
	From time.Time
	To   time.Time

	Category string
	Segment  string
	Status   string

	// PriceMin/PriceMax 按 total_price 过滤，PriceMax <= 0 表示无上限
	PriceMin float64
	PriceMax float64

	Risk RiskSelector
}

// Filter 按条件过滤，返回新的表快照，原表不变
func (t *Table) Filter(f Filter) (*Table, error) {
	if f.Risk != RiskAll && !t.Caps.Has(model.ColIsHighRisk) {
		return nil, errorutil.InvalidWithDetails("filter not supported by table schema", model.ColIsHighRisk)
	}

	rows := make([]model.Order, 0, len(t.Rows))
	for i := range t.Rows {
		if f.matches(&t.Rows[i]) {
			rows = append(rows, t.Rows[i])
		}
	}
	return &Table{Rows: rows, Caps: t.Caps}, nil
}

func (f *Filter) matches(o *model.Order) bool {
	day := dateOnly(o.OrderDate)
	if !f.From.IsZero() && day.Before(dateOnly(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(dateOnly(f.To)) {
		return false
	}
	if f.Category != "" && o.Category != f.Category {
		return false
	}
	if f.Segment != "" && o.CustomerSegment != f.Segment {
		return false
	}
	if f.Status != "" && o.OrderStatus != f.Status {
		return false
	}
	if o.TotalPrice < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && o.TotalPrice > f.PriceMax {
		return false
	}
	switch f.Risk {
	case RiskHighOnly:
		return o.IsHighRisk
	case RiskLowOnly:
		return !o.IsHighRisk
	default:
		return true
	}
}

// dateOnly 截断到日期粒度
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
