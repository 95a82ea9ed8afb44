package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"shopsynth/internal/analytics"
	"shopsynth/internal/catalog"
	"shopsynth/internal/synth"
	"shopsynth/model"
	"shopsynth/pkg/config"
	"shopsynth/pkg/infra/csvfile"
	"shopsynth/pkg/logger"
)

var (
	orderCount = flag.Int("orders", 2000, "快速测试生成的订单数")
	seedFlag   = flag.Int64("seed", 42, "随机种子")
	shards     = flag.Int("shards", 4, "管线分片数")
)

// checkCase 一项快速检查
type checkCase struct {
	Name string
	Run  func(ctx context.Context, orders []model.Order) error
}

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - ShopSynth 快速测试工具")
	fmt.Println("========================================")

	// 1. 加载内置配置
	cfg := config.LoadDefault()
	fmt.Printf("✅ Config loaded: %s\n", cfg.App.Name)

	// 2. 构建注册表
	clockRef := time.Now()
	rng := rand.New(rand.NewSource(*seedFlag))
	products := catalog.BuildProducts(rng, catalog.DefaultCategorySpec())
	customers := catalog.BuildCustomers(rng, cfg.Catalog.Customers)
	coupons := catalog.BuildCoupons()
	fmt.Printf("✅ Registries ready: %d products, %d customers, %d coupons\n",
		len(products), len(customers), len(coupons))

	// 3. 生成测试数据集
	lg := logger.NewNopLogger()
	engine, err := synth.NewEngine(products, customers, coupons, clockRef, lg)
	if err != nil {
		fmt.Printf("❌ Failed to create engine: %v\n", err)
		os.Exit(1)
	}
	pipeline := synth.NewPipeline(engine, &synth.Config{Shards: *shards, BufferSize: 64}, lg)

	ctx := context.Background()
	start := time.Now()
	orders, err := pipeline.Run(ctx, *orderCount, *seedFlag)
	if err != nil {
		fmt.Printf("❌ Generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Generated %d orders in %v (high risk: %d)\n",
		len(orders), time.Since(start).Round(time.Millisecond), pipeline.HighRiskCount())

	// 4. 执行检查项
	fmt.Println("\n========================================")
	fmt.Println("  Running Checks")
	fmt.Println("========================================")

	checks := []checkCase{
		{Name: "money invariants", Run: checkMoneyInvariants},
		{Name: "risk flag consistency", Run: checkRiskFlags},
		{Name: "pipeline matches sequential engine", Run: func(ctx context.Context, orders []model.Order) error {
			return checkSequentialEquivalence(ctx, engine, orders)
		}},
		{Name: "csv round trip", Run: checkCSVRoundTrip},
		{Name: "analytics overview", Run: checkAnalytics},
	}

	successCount := 0
	failureCount := 0

	for i, c := range checks {
		fmt.Printf("\n[Check %d/%d] %s\n", i+1, len(checks), c.Name)
		fmt.Println("----------------------------------------")

		startTime := time.Now()
		err := c.Run(ctx, orders)
		duration := time.Since(startTime)

		if err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
			failureCount++
		} else {
			fmt.Printf("✅ PASSED\n")
			successCount++
		}
		fmt.Printf("⏱️  Duration: %v\n", duration)
	}

	// 5. 输出汇总
	fmt.Println("\n========================================")
	fmt.Println("  Check Summary")
	fmt.Println("========================================")
	fmt.Printf("Total: %d\n", len(checks))
	fmt.Printf("Passed: %d ✅\n", successCount)
	fmt.Printf("Failed: %d ❌\n", failureCount)

	if failureCount > 0 {
		os.Exit(1)
	}
}

// checkMoneyInvariants 校验每单的金额推导关系
func checkMoneyInvariants(_ context.Context, orders []model.Order) error {
	for i := range orders {
		o := &orders[i]
		if got := model.Round2(o.TotalPrice - o.TotalDiscount); o.FinalPrice != got {
			return fmt.Errorf("order %s: final_price=%v, want %v", o.OrderID, o.FinalPrice, got)
		}
		if got := model.Round2(o.FinalPrice - o.BaseCost); o.Profit != got {
			return fmt.Errorf("order %s: profit=%v, want %v", o.OrderID, o.Profit, got)
		}
		if o.TotalDiscount < 0 || o.TotalDiscount > o.TotalPrice {
			return fmt.Errorf("order %s: discount %v out of range", o.OrderID, o.TotalDiscount)
		}
		if o.Quantity < 1 || o.Quantity > 5 {
			return fmt.Errorf("order %s: quantity %d out of range", o.OrderID, o.Quantity)
		}
	}
	fmt.Printf("  Verified %d orders\n", len(orders))
	return nil
}

// checkRiskFlags 风险标记与指标串必须一致
func checkRiskFlags(_ context.Context, orders []model.Order) error {
	highRisk := 0
	for i := range orders {
		o := &orders[i]
		indicators := model.SplitIndicators(o.FraudIndicators)
		if o.IsHighRisk != (len(indicators) > 0) {
			return fmt.Errorf("order %s: is_high_risk=%v but indicators=%q", o.OrderID, o.IsHighRisk, o.FraudIndicators)
		}
		if o.IsHighRisk {
			highRisk++
		}
	}
	fmt.Printf("  High risk orders: %d/%d\n", highRisk, len(orders))
	return nil
}

// checkSequentialEquivalence 并行管线与顺序引擎输出一致（order_id 除外）
func checkSequentialEquivalence(ctx context.Context, engine *synth.Engine, orders []model.Order) error {
	sequential, err := engine.GenerateOrders(ctx, *orderCount, *seedFlag)
	if err != nil {
		return fmt.Errorf("sequential generation failed: %w", err)
	}
	if len(sequential) != len(orders) {
		return fmt.Errorf("length mismatch: %d vs %d", len(sequential), len(orders))
	}
	for i := range sequential {
		a, b := sequential[i], orders[i]
		a.OrderID, b.OrderID = "", ""
		if a != b {
			return fmt.Errorf("order %d differs between sequential and pipeline run", i)
		}
	}
	fmt.Printf("  Compared %d orders\n", len(orders))
	return nil
}

// checkCSVRoundTrip 导出 CSV 再读回应与内存数据一致
func checkCSVRoundTrip(ctx context.Context, orders []model.Order) error {
	dir, err := os.MkdirTemp("", "fasttest")
	if err != nil {
		return fmt.Errorf("create temp dir failed: %w", err)
	}
	defer os.RemoveAll(dir)

	store, err := csvfile.NewStore(dir)
	if err != nil {
		return fmt.Errorf("create store failed: %w", err)
	}
	path, err := store.WriteOrders(ctx, "fasttest.csv", orders)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	loaded, err := store.ReadOrders(ctx, path)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	if len(loaded) != len(orders) {
		return fmt.Errorf("row count mismatch: %d vs %d", len(loaded), len(orders))
	}

	for i := range orders {
		a, b := orders[i], loaded[i]
		// 平表不带时区，按落表格式比较时间
		if a.OrderDate.Format(model.OrderDateLayout) != b.OrderDate.Format(model.OrderDateLayout) {
			return fmt.Errorf("row %d: order_date differs after round trip", i)
		}
		a.OrderDate, b.OrderDate = time.Time{}, time.Time{}
		if a != b {
			return fmt.Errorf("row %d differs after round trip", i)
		}
	}
	fmt.Printf("  Round-tripped %d rows via %s\n", len(orders), path)
	return nil
}

// checkAnalytics 全量过滤恒等与总览口径
func checkAnalytics(_ context.Context, orders []model.Order) error {
	table := analytics.NewTable(orders)

	filtered, err := table.Filter(analytics.Filter{})
	if err != nil {
		return fmt.Errorf("identity filter failed: %w", err)
	}
	if filtered.Len() != table.Len() {
		return fmt.Errorf("identity filter dropped rows: %d vs %d", filtered.Len(), table.Len())
	}

	ov := table.OverviewReport()
	if ov.Orders != len(orders) {
		return fmt.Errorf("overview orders=%d, want %d", ov.Orders, len(orders))
	}
	if ov.GrossRevenue <= 0 {
		return fmt.Errorf("gross revenue should be positive, got %v", ov.GrossRevenue)
	}

	top, err := table.TopN(model.ColCategory, model.ColTotalPrice, 3)
	if err != nil {
		return fmt.Errorf("topn failed: %w", err)
	}
	fmt.Printf("  Orders: %d, gross revenue: %.2f, top category: %s\n", ov.Orders, ov.GrossRevenue, top[0].Key)
	return nil
}
