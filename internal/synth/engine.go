package synth

import (
	"context"
	"math/rand"
	"time"

	"shopsynth/internal/fraud"
	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

// 时间抽样参数：参考时钟回溯的自然日窗口，闭区间 [0, 365]
const dateWindowDays = 366

// 枚举抽样池
var (
	shippingMethods = []string{
		model.ShippingStandard, model.ShippingExpress, model.ShippingNextDay,
	}
	// USA 占三个槽位实现 3:1:1:1 加权
	countryPool = []string{
		model.CountryUSA, model.CountryUSA, model.CountryUSA,
		model.CountryCanada, model.CountryUK, model.CountryAustralia,
	}
	paymentMethods = []string{
		model.PaymentCreditCard, model.PaymentPayPal, model.PaymentDebitCard, model.PaymentApplePay,
	}
	orderStatuses = []string{
		model.StatusDelivered, model.StatusShipped, model.StatusProcessing, model.StatusCancelled,
	}
)

// noCouponSlots 券抽样池中的空位数，6 张券 + 4 空位即 60% 中券率
const noCouponSlots = 4

// Engine 订单合成引擎：持有注册表快照与参考时钟，抽样骨架并装配订单
type Engine struct {
	products   []model.Product
	customers  []model.Customer
	couponPool []*model.Coupon // 券注册表 + 空位
	checker    *fraud.Checker
	clockRef   time.Time
	logger     Logger
}

// NewEngine 创建合成引擎，任一注册表为空即拒绝
func NewEngine(products []model.Product, customers []model.Customer, coupons []model.Coupon, clockRef time.Time, log Logger) (*Engine, error) {
	if len(products) == 0 {
		return nil, errorutil.Invalid("product catalog is empty")
	}
	if len(customers) == 0 {
		return nil, errorutil.Invalid("customer roster is empty")
	}
	if len(coupons) == 0 {
		return nil, errorutil.Invalid("coupon table is empty")
	}

	couponPool := make([]*model.Coupon, 0, len(coupons)+noCouponSlots)
	for i := range coupons {
		couponPool = append(couponPool, &coupons[i])
	}
	for i := 0; i < noCouponSlots; i++ {
		couponPool = append(couponPool, nil)
	}

	return &Engine{
		products:   products,
		customers:  customers,
		couponPool: couponPool,
		checker:    fraud.NewChecker(),
		clockRef:   clockRef,
		logger:     log,
	}, nil
}

// drawDraft 按固定顺序完成一笔订单的全部随机抽样
// 抽样顺序属于种子契约的一部分，调整会改变同种子数据集
func (e *Engine) drawDraft(rng *rand.Rand, seq int) *Draft {
	customer := e.customers[rng.Intn(len(e.customers))]
	product := e.products[rng.Intn(len(e.products))]
	orderDate := e.drawOrderDate(rng)
	quantity := 1 + rng.Intn(5)
	coupon := e.couponPool[rng.Intn(len(e.couponPool))]
	shippingMethod := shippingMethods[rng.Intn(len(shippingMethods))]
	shippingCountry := countryPool[rng.Intn(len(countryPool))]
	paymentMethod := paymentMethods[rng.Intn(len(paymentMethods))]
	orderStatus := orderStatuses[rng.Intn(len(orderStatuses))]

	return &Draft{
		Seq:             seq,
		Customer:        customer,
		Product:         product,
		OrderDate:       orderDate,
		Quantity:        quantity,
		Coupon:          coupon,
		ShippingMethod:  shippingMethod,
		ShippingCountry: shippingCountry,
		PaymentMethod:   paymentMethod,
		OrderStatus:     orderStatus,
	}
}

// drawOrderDate 抽取订单时间：随机日偏移 + 随机时分秒，秒级精度
func (e *Engine) drawOrderDate(rng *rand.Rand) time.Time {
	day := e.clockRef.AddDate(0, 0, -rng.Intn(dateWindowDays))
	return time.Date(day.Year(), day.Month(), day.Day(),
		rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, e.clockRef.Location())
}

// GenerateOrders 顺序参考实现：单协程完成抽样、历史维护与装配
// 分片管线的输出与本实现逐字段一致（订单号除外）
func (e *Engine) GenerateOrders(ctx context.Context, n int, seed int64) ([]model.Order, error) {
	if n <= 0 {
		return nil, errorutil.Invalid("order count must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	history := newHistoryShard()
	orders := make([]model.Order, 0, n)

	for seq := 0; seq < n; seq++ {
		draft := e.drawDraft(rng, seq)

		ordersInLastHour := history.countLastHour(draft.Customer.ID, draft.OrderDate)
		history.append(draft.Customer.ID, draft.OrderDate)

		order, err := e.assemble(ctx, draft, ordersInLastHour)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)

		if (seq+1)%progressInterval == 0 {
			e.logger.Infof(ctx, "[Engine] Generated %d/%d orders", seq+1, n)
		}
	}

	return orders, nil
}
