package synth

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/atomic"

	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

// progressInterval 进度日志间隔（订单数）
const progressInterval = 10000

// Pipeline 分片生成管线：发牌协程统一抽样，分片协程独占客户历史做装配
// 同种子下输出与顺序参考实现一致，且与分片数无关（订单号除外）
type Pipeline struct {
	engine *Engine
	cfg    *Config
	logger Logger

	processed *atomic.Int64 // 已装配订单数
	highRisk  *atomic.Int64 // 高风险订单数
}

// NewPipeline 创建生成管线
func NewPipeline(engine *Engine, cfg *Config, log Logger) *Pipeline {
	return &Pipeline{
		engine:    engine,
		cfg:       cfg,
		logger:    log,
		processed: atomic.NewInt64(0),
		highRisk:  atomic.NewInt64(0),
	}
}

// HighRiskCount 最近一次 Run 统计到的高风险订单数
func (p *Pipeline) HighRiskCount() int64 {
	return p.highRisk.Load()
}

// Run 执行一次有界批量生成，返回按生成序排列的订单
func (p *Pipeline) Run(ctx context.Context, n int, seed int64) ([]model.Order, error) {
	if n <= 0 {
		return nil, errorutil.Invalid("order count must be positive")
	}
	if p.cfg.Shards < 1 || p.cfg.BufferSize < 1 {
		return nil, errorutil.Invalid("pipeline needs at least one shard and a positive buffer")
	}

	p.logger.Infof(ctx, "[Pipeline] Generating %d orders, shards: %d, seed: %d", n, p.cfg.Shards, seed)
	startTime := time.Now()
	p.processed.Store(0)
	p.highRisk.Store(0)

	rng := rand.New(rand.NewSource(seed))
	orders := make([]model.Order, n)

	// 1. 建立分片通道
	shardChans := make([]chan *Draft, p.cfg.Shards)
	for i := range shardChans {
		shardChans[i] = make(chan *Draft, p.cfg.BufferSize)
	}

	// 2. 启动分片协程
	var wg sync.WaitGroup
	shardErrs := make([]error, p.cfg.Shards)
	for i := 0; i < p.cfg.Shards; i++ {
		workerID := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			shardErrs[workerID] = p.runShard(ctx, workerID, shardChans[workerID], orders)
		}()
	}

	// 3. 发牌，结束后关闭通道让分片进入排空
	dealErr := p.deal(ctx, rng, n, shardChans)

	// 4. 等待全部分片排空退出
	wg.Wait()

	if dealErr != nil {
		return nil, dealErr
	}
	for _, err := range shardErrs {
		if err != nil {
			return nil, err
		}
	}

	p.logger.Infof(ctx, "[Pipeline] Generated %d orders (%d high-risk) in %v",
		p.processed.Load(), p.highRisk.Load(), time.Since(startTime))
	return orders, nil
}

// deal 发牌循环：全部随机抽样在单协程内按固定顺序完成，保证种子可复现
// 单生产者 + FIFO 通道，同一客户的骨架到达分片的顺序即生成序
func (p *Pipeline) deal(ctx context.Context, rng *rand.Rand, n int, shardChans []chan *Draft) error {
	defer func() {
		for _, ch := range shardChans {
			close(ch)
		}
	}()

	for seq := 0; seq < n; seq++ {
		draft := p.engine.drawDraft(rng, seq)

		shard := draft.Customer.ID % len(shardChans)
		select {
		case shardChans[shard] <- draft:
		case <-ctx.Done():
			p.logger.Warnf(ctx, "[Dealer] Cancelled after %d/%d drafts", seq, n)
			return ctx.Err()
		}

		if (seq+1)%progressInterval == 0 {
			p.logger.Infof(ctx, "[Dealer] Dealt %d/%d drafts", seq+1, n)
		}
	}
	return nil
}

// runShard 分片循环：独占本分片客户的历史，读取-追加天然串行
func (p *Pipeline) runShard(ctx context.Context, workerID int, drafts <-chan *Draft, out []model.Order) error {
	wctx := context.WithValue(ctx, "worker_id", workerID)
	p.logger.Debugf(wctx, "[Shard-%d] Started", workerID)

	history := newHistoryShard()
	var firstErr error
	count := 0

	for draft := range drafts {
		// 出错后继续排空通道，避免发牌协程阻塞
		if firstErr != nil {
			continue
		}

		ordersInLastHour := history.countLastHour(draft.Customer.ID, draft.OrderDate)
		history.append(draft.Customer.ID, draft.OrderDate)

		order, err := p.engine.assemble(wctx, draft, ordersInLastHour)
		if err != nil {
			firstErr = fmt.Errorf("assemble order %d failed: %w", draft.Seq, err)
			p.logger.Errorf(wctx, "[Shard-%d] %v", workerID, firstErr)
			continue
		}

		out[draft.Seq] = order
		count++
		p.processed.Inc()
		if order.IsHighRisk {
			p.highRisk.Inc()
		}
	}

	p.logger.Debugf(wctx, "[Shard-%d] Drained %d drafts, exiting", workerID, count)
	return firstErr
}
