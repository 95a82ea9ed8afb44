package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"shopsynth/internal/analytics"
	"shopsynth/model"
	"shopsynth/pkg/infra/csvfile"
)

var (
	filePath  = flag.String("file", "./generated_data/ecommerce_data.csv", "数据集 CSV 路径")
	fromDate  = flag.String("from", "", "起始日期（2006-01-02，含当天）")
	toDate    = flag.String("to", "", "截止日期（2006-01-02，含当天）")
	category  = flag.String("category", "", "按品类过滤")
	segment   = flag.String("segment", "", "按客群过滤")
	status    = flag.String("status", "", "按订单状态过滤")
	minPrice  = flag.Float64("min-price", 0, "total_price 下限")
	maxPrice  = flag.Float64("max-price", 0, "total_price 上限，0 表示不限")
	riskLevel = flag.String("risk", "all", "风险档位: all/high/low")
)

func main() {
	flag.Parse()

	log.Println("Starting report consumer...")

	// 1. 加载数据集
	store, err := csvfile.NewStore(filepath.Dir(*filePath))
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	orders, caps, err := store.ReadTable(context.Background(), *filePath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d orders from %s (%d columns available)", len(orders), *filePath, len(caps))

	// 2. 组装过滤条件
	table := analytics.NewTableWithCaps(orders, caps)
	filter := analytics.Filter{
		From:     parseDateFlag("from", *fromDate),
		To:       parseDateFlag("to", *toDate),
		Category: *category,
		Segment:  *segment,
		Status:   *status,
		PriceMin: *minPrice,
		PriceMax: *maxPrice,
		Risk:     parseRiskFlag(*riskLevel),
	}
	filtered, err := table.Filter(filter)
	if err != nil {
		log.Fatalf("Filter rejected: %v", err)
	}
	log.Printf("Rows after filter: %d", filtered.Len())

	// 3. 计算并打印报表
	report := filtered.FullReport()
	printOverview(report.Overview)
	printDailyProfit(report.DailyProfit)
	printProducts(report.Products)
	printFraud(report.Fraud)
	printCustomers(report.Customers)
	printSeasonality(report.Seasonality)
}

// parseDateFlag 解析日期参数，空值表示不限制
func parseDateFlag(name, val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.OrderDateShortLayout, val)
	if err != nil {
		log.Fatalf("Invalid %s date %q: %v", name, val, err)
	}
	return t
}

func parseRiskFlag(val string) analytics.RiskSelector {
	switch val {
	case "all":
		return analytics.RiskAll
	case "high":
		return analytics.RiskHighOnly
	case "low":
		return analytics.RiskLowOnly
	default:
		log.Fatalf("Unknown risk level: %s (want all/high/low)", val)
		return analytics.RiskAll
	}
}

func banner(title string) {
	fmt.Println("========================================")
	fmt.Println("  " + title)
	fmt.Println("========================================")
}

// money 金额渲染，不可求值时输出 n/a
func money(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", v)
}

// pct 百分比渲染，不可求值时输出 n/a
func pct(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func printOverview(ov analytics.Overview) {
	banner("Dataset Overview")
	hasRows := ov.Orders > 0
	fmt.Printf("Orders:              %d\n", ov.Orders)
	fmt.Printf("Gross revenue:       $%.2f\n", ov.GrossRevenue)
	fmt.Printf("Profit:              $%.2f\n", ov.Profit)
	fmt.Printf("Profit margin:       %s\n", pct(ov.ProfitMargin, hasRows))
	fmt.Printf("Avg order value:     %s\n", money(ov.AvgOrderValue, hasRows))
	fmt.Printf("Success rate:        %s\n", pct(ov.SuccessRate, hasRows))
	if ov.HasCustomerIDs {
		fmt.Printf("Unique customers:    %d\n", ov.UniqueCustomers)
	}
	if ov.HasDiscounts {
		fmt.Printf("Avg discount rate:   %s\n", pct(ov.AvgDiscountRate, hasRows))
	}
}

func printDailyProfit(v analytics.DailyProfitView) {
	banner("Daily Profit")
	if len(v.Days) == 0 {
		fmt.Println("No orders in range.")
		return
	}
	fmt.Printf("Days with orders:    %d\n", len(v.Days))
	fmt.Printf("Best day:            %s ($%.2f)\n", v.BestDay.Day.Format(model.OrderDateShortLayout), v.BestDay.Profit)
	fmt.Printf("Worst day:           %s ($%.2f)\n", v.WorstDay.Day.Format(model.OrderDateShortLayout), v.WorstDay.Profit)
	fmt.Printf("Profitable days:     %d\n", v.ProfitableDays)
	fmt.Printf("Profit volatility:   $%.2f\n", v.Volatility)
}

func printProducts(v analytics.ProductView) {
	banner("Product Performance")
	if v.HasProducts {
		fmt.Println("Top products by revenue:")
		for i, p := range v.TopProducts {
			fmt.Printf("%3d. %-24s $%12.2f  orders=%-5d profit=$%.2f\n", i+1, p.Name, p.Revenue, p.Orders, p.Profit)
		}
	} else {
		fmt.Println("Product columns not present, skipping product ranking.")
	}
	fmt.Println("Category rollup:")
	for _, c := range v.Categories {
		fmt.Printf("  %-14s revenue=$%.2f profit=$%.2f margin=%s aov=%s share=%s\n",
			c.Name, c.Revenue, c.Profit,
			pct(c.Margin, c.Revenue != 0), money(c.AvgOrderValue, c.Orders > 0), pct(c.OrderShare, true))
	}
}

func printFraud(v analytics.FraudView) {
	banner("Fraud View")
	if !v.Available {
		fmt.Println("Risk columns not present, skipping fraud view.")
		return
	}
	fmt.Printf("High risk orders:    %d (%.2f%%)\n", v.HighRiskOrders, v.HighRiskShare)
	fmt.Printf("High risk revenue:   $%.2f\n", v.HighRiskRevenue)
	if len(v.Indicators) > 0 {
		fmt.Println("Indicator frequency:")
		for _, ind := range v.Indicators {
			fmt.Printf("  %-32s %d\n", ind.Name, ind.Count)
		}
	}
	fmt.Println("Risk rate by segment:")
	for _, seg := range v.SegmentRisk {
		fmt.Printf("  %-10s %d/%d (%s)\n", seg.Segment, seg.HighRisk, seg.Orders, pct(seg.RiskRate, seg.Orders > 0))
	}
	if len(v.TopHighRisk) > 0 {
		fmt.Println("Top high risk orders:")
		for _, o := range v.TopHighRisk {
			fmt.Printf("  %-10s %-20s $%10.2f  [%s]\n", o.OrderID, o.CustomerName, o.TotalPrice, o.FraudIndicators)
		}
	}
}

func printCustomers(v analytics.CustomerView) {
	banner("Customer Lifetime Value")
	if !v.Available {
		fmt.Println("Customer columns not present, skipping customer view.")
		return
	}
	for i, c := range v.TopCustomers {
		fmt.Printf("%3d. %-20s %-8s spent=$%10.2f orders=%-4d aov=$%.2f\n",
			i+1, c.Name, c.Segment, c.TotalSpent, c.Orders, c.AvgOrderValue)
	}
}

func printSeasonality(months []analytics.MonthlyStat) {
	banner("Monthly Seasonality")
	for _, m := range months {
		fmt.Printf("  %s  revenue=$%12.2f  orders=%d\n", m.Month.Format("2006-01"), m.Revenue, m.Orders)
	}
}
