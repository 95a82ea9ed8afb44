package analytics

import (
	"math"
	"sort"
	"time"

	"shopsynth/model"
)

// 排行视图的截断上限
const (
	topProductsLimit  = 10
	topCustomersLimit = 10
	topRiskLimit      = 10
)

// Overview 数据集总览
type Overview struct {
	Orders          int
	GrossRevenue    float64 // Σ total_price
	Profit          float64
	ProfitMargin    float64 // 利润占流水的百分比
	AvgOrderValue   float64
	SuccessRate     float64 // Delivered+Shipped 订单占比（百分比）
	UniqueCustomers int
	HasCustomerIDs  bool
	AvgDiscountRate float64 // Σ total_discount 占流水的百分比
	HasDiscounts    bool
}

// OverviewReport 汇总表级经营指标
func (t *Table) OverviewReport() Overview {
	ov := Overview{
		Orders:         t.Len(),
		HasCustomerIDs: t.Caps.Has(model.ColCustomerID),
		HasDiscounts:   t.Caps.Has(model.ColTotalDiscount),
	}

	var discount float64
	fulfilled := 0
	customers := make(map[int]struct{})
	for i := range t.Rows {
		o := &t.Rows[i]
		ov.GrossRevenue += o.TotalPrice
		ov.Profit += o.Profit
		discount += o.TotalDiscount
		if o.Fulfilled() {
			fulfilled++
		}
		if ov.HasCustomerIDs {
			customers[o.CustomerID] = struct{}{}
		}
	}

	ov.UniqueCustomers = len(customers)
	ov.ProfitMargin = ratio(ov.Profit, ov.GrossRevenue) * 100
	ov.AvgOrderValue = ratio(ov.GrossRevenue, float64(ov.Orders))
	ov.SuccessRate = ratio(float64(fulfilled), float64(ov.Orders)) * 100
	if ov.HasDiscounts {
		ov.AvgDiscountRate = ratio(discount, ov.GrossRevenue) * 100
	}
	return ov
}

// DailyStat 单日经营指标
type DailyStat struct {
	Day      time.Time
	Revenue  float64
	Profit   float64
	Orders   int
	Quantity int
}

// DailyProfitView 日利润视图
type DailyProfitView struct {
	Days           []DailyStat // 按日期升序
	BestDay        DailyStat   // 利润最高的一天，同值取最早
	WorstDay       DailyStat
	ProfitableDays int
	Volatility     float64 // 日利润的样本标准差
	HasQuantity    bool
}

// DailyProfitReport 按天聚合利润表现
func (t *Table) DailyProfitReport() DailyProfitView {
	view := DailyProfitView{HasQuantity: t.Caps.Has(model.ColQuantity)}

	daily := make(map[time.Time]*DailyStat)
	for i := range t.Rows {
		o := &t.Rows[i]
		day := dateOnly(o.OrderDate)
		st, ok := daily[day]
		if !ok {
			st = &DailyStat{Day: day}
			daily[day] = st
		}
		st.Revenue += o.TotalPrice
		st.Profit += o.Profit
		st.Orders++
		if view.HasQuantity {
			st.Quantity += o.Quantity
		}
	}
	if len(daily) == 0 {
		return view
	}

	view.Days = make([]DailyStat, 0, len(daily))
	for _, st := range daily {
		view.Days = append(view.Days, *st)
	}
	sort.Slice(view.Days, func(i, j int) bool {
		return view.Days[i].Day.Before(view.Days[j].Day)
	})

	profits := make([]float64, 0, len(view.Days))
	view.BestDay = view.Days[0]
	view.WorstDay = view.Days[0]
	for _, st := range view.Days {
		profits = append(profits, st.Profit)
		if st.Profit > view.BestDay.Profit {
			view.BestDay = st
		}
		if st.Profit < view.WorstDay.Profit {
			view.WorstDay = st
		}
		if st.Profit > 0 {
			view.ProfitableDays++
		}
	}
	view.Volatility = sampleStdDev(profits)
	return view
}

// ProductStat 单品表现
type ProductStat struct {
	Name     string
	Revenue  float64
	Orders   int
	Quantity int
	Profit   float64
}

// CategoryStat 品类汇总
type CategoryStat struct {
	Name          string
	Revenue       float64
	Profit        float64
	Margin        float64 // 百分比
	AvgOrderValue float64
	Orders        int
	OrderShare    float64 // 订单量占比（百分比）
}

// ProductView 商品表现视图
type ProductView struct {
	TopProducts []ProductStat  // 按收入降序前 10
	Categories  []CategoryStat // 按收入降序
	HasProducts bool
	HasQuantity bool
}

// ProductReport 商品与品类表现
func (t *Table) ProductReport() ProductView {
	view := ProductView{
		HasProducts: t.Caps.Has(model.ColProductName),
		HasQuantity: t.Caps.Has(model.ColQuantity),
	}

	products := make(map[string]*ProductStat)
	categories := make(map[string]*CategoryStat)
	for i := range t.Rows {
		o := &t.Rows[i]
		if view.HasProducts {
			st, ok := products[o.ProductName]
			if !ok {
				st = &ProductStat{Name: o.ProductName}
				products[o.ProductName] = st
			}
			st.Revenue += o.TotalPrice
			st.Profit += o.Profit
			st.Orders++
			if view.HasQuantity {
				st.Quantity += o.Quantity
			}
		}

		cat, ok := categories[o.Category]
		if !ok {
			cat = &CategoryStat{Name: o.Category}
			categories[o.Category] = cat
		}
		cat.Revenue += o.TotalPrice
		cat.Profit += o.Profit
		cat.Orders++
	}

	if view.HasProducts {
		ranked := make([]ProductStat, 0, len(products))
		for _, st := range products {
			ranked = append(ranked, *st)
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Revenue != ranked[j].Revenue {
				return ranked[i].Revenue > ranked[j].Revenue
			}
			return ranked[i].Name < ranked[j].Name
		})
		if len(ranked) > topProductsLimit {
			ranked = ranked[:topProductsLimit]
		}
		view.TopProducts = ranked
	}

	view.Categories = make([]CategoryStat, 0, len(categories))
	for _, cat := range categories {
		cat.Margin = ratio(cat.Profit, cat.Revenue) * 100
		cat.AvgOrderValue = ratio(cat.Revenue, float64(cat.Orders))
		cat.OrderShare = ratio(float64(cat.Orders), float64(t.Len())) * 100
		view.Categories = append(view.Categories, *cat)
	}
	sort.Slice(view.Categories, func(i, j int) bool {
		if view.Categories[i].Revenue != view.Categories[j].Revenue {
			return view.Categories[i].Revenue > view.Categories[j].Revenue
		}
		return view.Categories[i].Name < view.Categories[j].Name
	})
	return view
}

// IndicatorStat 风险指标出现次数
type IndicatorStat struct {
	Name  string
	Count int
}

// SegmentRiskStat 客群风险分布
type SegmentRiskStat struct {
	Segment  string
	Orders   int
	HighRisk int
	RiskRate float64 // 百分比
}

// FraudView 风控视图，表缺少 is_high_risk 列时 Available 为 false
type FraudView struct {
	Available       bool
	HighRiskOrders  int
	HighRiskShare   float64 // 百分比
	HighRiskRevenue float64 // 高风险订单的 Σ total_price
	Indicators      []IndicatorStat   // 按次数降序
	SegmentRisk     []SegmentRiskStat // 按客群名升序
	TopHighRisk     []model.Order     // 按 total_price 降序前 10
}

// FraudReport 高风险订单分布与指标频次
func (t *Table) FraudReport() FraudView {
	view := FraudView{Available: t.Caps.Has(model.ColIsHighRisk)}
	if !view.Available {
		return view
	}

	hasIndicators := t.Caps.Has(model.ColFraudIndicators)
	indicatorCounts := make(map[string]int)
	segments := make(map[string]*SegmentRiskStat)
	var topRisk []model.Order
	for i := range t.Rows {
		o := &t.Rows[i]
		seg, ok := segments[o.CustomerSegment]
		if !ok {
			seg = &SegmentRiskStat{Segment: o.CustomerSegment}
			segments[o.CustomerSegment] = seg
		}
		seg.Orders++
		if !o.IsHighRisk {
			continue
		}
		seg.HighRisk++
		view.HighRiskOrders++
		view.HighRiskRevenue += o.TotalPrice
		if hasIndicators {
			for _, name := range model.SplitIndicators(o.FraudIndicators) {
				indicatorCounts[name]++
			}
		}
		topRisk = append(topRisk, *o)
	}

	view.HighRiskShare = ratio(float64(view.HighRiskOrders), float64(t.Len())) * 100

	view.Indicators = make([]IndicatorStat, 0, len(indicatorCounts))
	for name, count := range indicatorCounts {
		view.Indicators = append(view.Indicators, IndicatorStat{Name: name, Count: count})
	}
	sort.Slice(view.Indicators, func(i, j int) bool {
		if view.Indicators[i].Count != view.Indicators[j].Count {
			return view.Indicators[i].Count > view.Indicators[j].Count
		}
		return view.Indicators[i].Name < view.Indicators[j].Name
	})

	view.SegmentRisk = make([]SegmentRiskStat, 0, len(segments))
	for _, seg := range segments {
		seg.RiskRate = ratio(float64(seg.HighRisk), float64(seg.Orders)) * 100
		view.SegmentRisk = append(view.SegmentRisk, *seg)
	}
	sort.Slice(view.SegmentRisk, func(i, j int) bool {
		return view.SegmentRisk[i].Segment < view.SegmentRisk[j].Segment
	})

	sort.SliceStable(topRisk, func(i, j int) bool {
		return topRisk[i].TotalPrice > topRisk[j].TotalPrice
	})
	if len(topRisk) > topRiskLimit {
		topRisk = topRisk[:topRiskLimit]
	}
	view.TopHighRisk = topRisk
	return view
}

// CustomerStat 单客户生命周期价值
type CustomerStat struct {
	CustomerID    int
	Name          string
	Segment       string
	TotalSpent    float64 // Σ total_price
	Orders        int
	Profit        float64
	AvgOrderValue float64
}

// CustomerView 客户价值视图，表缺少 customer_id 列时 Available 为 false
type CustomerView struct {
	Available    bool
	TopCustomers []CustomerStat // 按消费额降序前 10
}

// CustomerReport 客户生命周期价值排行
func (t *Table) CustomerReport() CustomerView {
	view := CustomerView{Available: t.Caps.Has(model.ColCustomerID)}
	if !view.Available {
		return view
	}

	customers := make(map[int]*CustomerStat)
	for i := range t.Rows {
		o := &t.Rows[i]
		st, ok := customers[o.CustomerID]
		if !ok {
			st = &CustomerStat{
				CustomerID: o.CustomerID,
				Name:       o.CustomerName,
				Segment:    o.CustomerSegment,
			}
			customers[o.CustomerID] = st
		}
		st.TotalSpent += o.TotalPrice
		st.Orders++
		st.Profit += o.Profit
	}

	ranked := make([]CustomerStat, 0, len(customers))
	for _, st := range customers {
		st.AvgOrderValue = ratio(st.TotalSpent, float64(st.Orders))
		ranked = append(ranked, *st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSpent != ranked[j].TotalSpent {
			return ranked[i].TotalSpent > ranked[j].TotalSpent
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})
	if len(ranked) > topCustomersLimit {
		ranked = ranked[:topCustomersLimit]
	}
	view.TopCustomers = ranked
	return view
}

// MonthlyStat 月度季节性指标
type MonthlyStat struct {
	Month   time.Time
	Revenue float64
	Orders  int
}

// SeasonalityReport 月度流水与订单量走势，按月份升序
func (t *Table) SeasonalityReport() []MonthlyStat {
	months := make(map[time.Time]*MonthlyStat)
	for i := range t.Rows {
		o := &t.Rows[i]
		m := monthStart(o.OrderDate)
		st, ok := months[m]
		if !ok {
			st = &MonthlyStat{Month: m}
			months[m] = st
		}
		st.Revenue += o.TotalPrice
		st.Orders++
	}

	out := make([]MonthlyStat, 0, len(months))
	for _, st := range months {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}

// Report 完整分析报告
type Report struct {
	Overview    Overview
	DailyProfit DailyProfitView
	Products    ProductView
	Fraud       FraudView
	Customers   CustomerView
	Seasonality []MonthlyStat
}

// FullReport 计算全部报表视图
func (t *Table) FullReport() *Report {
	return &Report{
		Overview:    t.OverviewReport(),
		DailyProfit: t.DailyProfitReport(),
		Products:    t.ProductReport(),
		Fraud:       t.FraudReport(),
		Customers:   t.CustomerReport(),
		Seasonality: t.SeasonalityReport(),
	}
}

// ratio 安全除法，分母为 0 时返回 0
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// sampleStdDev 样本标准差，样本数不足 2 时为 0
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
