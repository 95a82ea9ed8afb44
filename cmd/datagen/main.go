package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopsynth/internal/analytics"
	"shopsynth/internal/catalog"
	"shopsynth/internal/synth"
	"shopsynth/model"
	"shopsynth/pkg/config"
	"shopsynth/pkg/idgen"
	"shopsynth/pkg/infra/csvfile"
	"shopsynth/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/datagen.yaml", "配置文件路径")
	orderCount = flag.Int("orders", 0, "生成订单数，非零时覆盖配置")
	seedFlag   = flag.Int64("seed", 0, "随机种子，非零时覆盖配置")
	outputDir  = flag.String("out", "", "导出目录，非空时覆盖配置")
)

func main() {
	flag.Parse()

	log.Println("========================================")
	log.Println("  ShopSynth DataGen Starting...")
	log.Println("========================================")

	// 1. 加载配置并套用命令行覆盖
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *orderCount > 0 {
		cfg.Dataset.Orders = *orderCount
	}
	if *seedFlag != 0 {
		cfg.Dataset.Seed = *seedFlag
	}
	if *outputDir != "" {
		cfg.Dataset.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}
	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 信号触发取消
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal: %v, cancelling...", sig)
		cancel()
	}()
	ctx = context.WithValue(ctx, "run_id", idgen.RunID())

	seed := cfg.EffectiveSeed()
	clockRef, err := cfg.ReferenceTime()
	if err != nil {
		log.Fatalf("Failed to resolve reference clock: %v", err)
	}

	// 4. 构建注册表
	spec := cfg.Catalog.Categories
	if len(spec) == 0 {
		spec = catalog.DefaultCategorySpec()
	}
	rng := rand.New(rand.NewSource(seed))
	products := catalog.BuildProducts(rng, spec)
	customers := catalog.BuildCustomers(rng, cfg.Catalog.Customers)
	coupons := catalog.BuildCoupons()
	zapLogger.Infof(ctx, "[DataGen] Registries ready: %d products, %d customers, %d coupons",
		len(products), len(customers), len(coupons))

	// 5. 组装引擎和管线
	engine, err := synth.NewEngine(products, customers, coupons, clockRef, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	pipeline := synth.NewPipeline(engine, &synth.Config{
		Shards:     cfg.Generator.Shards,
		BufferSize: cfg.Generator.BufferSize,
	}, zapLogger)

	// 6. 生成订单
	start := time.Now()
	orders, err := pipeline.Run(ctx, cfg.Dataset.Orders, seed)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	// 7. 导出 CSV
	store, err := csvfile.NewStore(cfg.Dataset.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	path, err := store.WriteOrders(ctx, cfg.Dataset.Filename, orders)
	if err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}

	// 8. 数据集摘要
	logSummary(ctx, zapLogger, orders, pipeline.HighRiskCount(), path, time.Since(start))

	fmt.Println("========================================")
	fmt.Println("  DataGen finished")
	fmt.Println("========================================")
}

// logSummary 输出数据集摘要
func logSummary(ctx context.Context, lg logger.Logger, orders []model.Order, highRisk int64, path string, elapsed time.Duration) {
	ov := analytics.NewTable(orders).OverviewReport()

	var netRevenue float64
	for i := range orders {
		netRevenue += orders[i].FinalPrice
	}
	earliest, latest := dateRange(orders)

	sizeMB := 0.0
	if info, err := os.Stat(path); err == nil {
		sizeMB = float64(info.Size()) / (1 << 20)
	}

	lg.Infof(ctx, "[DataGen] Dataset written: %s (%.1f MB)", path, sizeMB)
	lg.Infof(ctx, "[DataGen] Orders: %d, elapsed: %s", ov.Orders, elapsed.Round(time.Millisecond))
	lg.Infof(ctx, "[DataGen] Date range: %s ~ %s",
		earliest.Format(model.OrderDateShortLayout), latest.Format(model.OrderDateShortLayout))
	lg.Infof(ctx, "[DataGen] Gross revenue: %.2f, net revenue: %.2f, profit: %.2f",
		ov.GrossRevenue, netRevenue, ov.Profit)
	lg.Infof(ctx, "[DataGen] Unique customers: %d, high risk orders: %d (%.2f%%)",
		ov.UniqueCustomers, highRisk, percent(highRisk, len(orders)))
}

// dateRange 订单集的最早与最晚下单时间
func dateRange(orders []model.Order) (time.Time, time.Time) {
	if len(orders) == 0 {
		return time.Time{}, time.Time{}
	}
	earliest, latest := orders[0].OrderDate, orders[0].OrderDate
	for i := range orders {
		d := orders[i].OrderDate
		if d.Before(earliest) {
			earliest = d
		}
		if d.After(latest) {
			latest = d
		}
	}
	return earliest, latest
}

func percent(part int64, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
