package analytics

import (
	"sort"
	"time"

	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

// Period 重采样周期
type Period string

const (
	// PeriodWeekly 周桶，按 ISO 惯例以周一为桶起点
	PeriodWeekly Period = "weekly"
	// PeriodMonthly 月桶，以每月一日为桶起点
	PeriodMonthly Period = "monthly"
)

// MetricOrders 重采样指标：订单行数而非数值列求和
const MetricOrders = "orders"

// groupKeyFns 可分组列及其取值函数
var groupKeyFns = map[string]func(*model.Order) string{
	model.ColCategory:        func(o *model.Order) string { return o.Category },
	model.ColSubcategory:     func(o *model.Order) string { return o.Subcategory },
	model.ColCustomerSegment: func(o *model.Order) string { return o.CustomerSegment },
	model.ColCustomerName:    func(o *model.Order) string { return o.CustomerName },
	model.ColProductName:     func(o *model.Order) string { return o.ProductName },
	model.ColCouponCode:      func(o *model.Order) string { return o.CouponCode },
	model.ColShippingMethod:  func(o *model.Order) string { return o.ShippingMethod },
	model.ColShippingCountry: func(o *model.Order) string { return o.ShippingCountry },
	model.ColPaymentMethod:   func(o *model.Order) string { return o.PaymentMethod },
	model.ColOrderStatus:     func(o *model.Order) string { return o.OrderStatus },
}

// metricFns 可求和的数值列及其取值函数
var metricFns = map[string]func(*model.Order) float64{
	model.ColQuantity:      func(o *model.Order) float64 { return float64(o.Quantity) },
	model.ColUnitPrice:     func(o *model.Order) float64 { return o.UnitPrice },
	model.ColTotalPrice:    func(o *model.Order) float64 { return o.TotalPrice },
	model.ColBaseCost:      func(o *model.Order) float64 { return o.BaseCost },
	model.ColTotalDiscount: func(o *model.Order) float64 { return o.TotalDiscount },
	model.ColFinalPrice:    func(o *model.Order) float64 { return o.FinalPrice },
	model.ColProfit:        func(o *model.Order) float64 { return o.Profit },
}

func (t *Table) groupFn(col string) (func(*model.Order) string, error) {
	fn, ok := groupKeyFns[col]
	if !ok {
		return nil, errorutil.InvalidWithDetails("column not groupable", col)
	}
	if !t.Caps.Has(col) {
		return nil, errorutil.InvalidWithDetails("column not available in table", col)
	}
	return fn, nil
}

func (t *Table) metricFn(col string) (func(*model.Order) float64, error) {
	fn, ok := metricFns[col]
	if !ok {
		return nil, errorutil.InvalidWithDetails("column not numeric", col)
	}
	if !t.Caps.Has(col) {
		return nil, errorutil.InvalidWithDetails("column not available in table", col)
	}
	return fn, nil
}

// GroupSum 按 groupKey 分组对 valueKey 求和
func (t *Table) GroupSum(groupKey, valueKey string) (map[string]float64, error) {
	group, err := t.groupFn(groupKey)
	if err != nil {
		return nil, err
	}
	value, err := t.metricFn(valueKey)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for i := range t.Rows {
		o := &t.Rows[i]
		sums[group(o)] += value(o)
	}
	return sums, nil
}

// GroupCount 按 groupKey 分组计数
func (t *Table) GroupCount(groupKey string) (map[string]int, error) {
	group, err := t.groupFn(groupKey)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range t.Rows {
		counts[group(&t.Rows[i])]++
	}
	return counts, nil
}

// GroupTotal 分组聚合结果的一行
type GroupTotal struct {
	Key   string
	Total float64
}

// TopN 按 groupKey 分组对 valueKey 求和后取前 n 名，
// 按合计降序排列，同值时按组名升序保证结果稳定
func (t *Table) TopN(groupKey, valueKey string, n int) ([]GroupTotal, error) {
	if n <= 0 {
		return nil, errorutil.Invalid("top n must be positive")
	}
	sums, err := t.GroupSum(groupKey, valueKey)
	if err != nil {
		return nil, err
	}

	ranked := make([]GroupTotal, 0, len(sums))
	for key, total := range sums {
		ranked = append(ranked, GroupTotal{Key: key, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Key < ranked[j].Key
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Bucket 重采样后的一个时间桶
type Bucket struct {
	Start time.Time
	Value float64
}

// Resample 按周期把订单重采样为时间序列，metric 为数值列名或 MetricOrders。
// 桶按起始时间升序排列，没有订单落入的桶不会出现在结果里。
func (t *Table) Resample(period Period, metric string) ([]Bucket, error) {
	var bucketStart func(time.Time) time.Time
	switch period {
	case PeriodWeekly:
		bucketStart = weekStart
	case PeriodMonthly:
		bucketStart = monthStart
	default:
		return nil, errorutil.InvalidWithDetails("unknown resample period", string(period))
	}

	value := func(*model.Order) float64 { return 1 }
	if metric != MetricOrders {
		fn, err := t.metricFn(metric)
		if err != nil {
			return nil, err
		}
		value = fn
	}

	sums := make(map[time.Time]float64)
	for i := range t.Rows {
		o := &t.Rows[i]
		sums[bucketStart(o.OrderDate)] += value(o)
	}

	buckets := make([]Bucket, 0, len(sums))
	for start, total := range sums {
		buckets = append(buckets, Bucket{Start: start, Value: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets, nil
}

// weekStart 所在 ISO 周的周一零点
func weekStart(t time.Time) time.Time {
	d := dateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// monthStart 所在月的一日零点
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
