package fraud

import (
	"context"

	"shopsynth/model"
)

// 欺诈规则阈值
const (
	highValueThreshold    = 500.0 // 新客高价值金额阈值，严格大于才命中
	burstOrderThreshold   = 3     // 一小时窗口历史订单数阈值，严格大于才命中
	excessiveDiscountRate = 0.5   // 折扣占总价比例阈值，严格大于才命中
)

// Checker 欺诈启发式检测器（规则引擎）
type Checker struct{}

// NewChecker 创建检测器实例
func NewChecker() *Checker {
	return &Checker{}
}

// Evaluate 执行欺诈检测（固定规则、固定命中顺序）
// 入参为订单合成阶段组装的只读上下文，不读取外部状态、不产生随机数
func (c *Checker) Evaluate(ctx context.Context, fc *model.FraudContext) (*model.FraudAssessment, error) {
	indicators := make([]string, 0)

	// 规则 1：新客高价值订单
	if fc.CustomerSegment == model.SegmentNew && fc.TotalPrice > highValueThreshold {
		indicators = append(indicators, model.IndicatorHighValueNewCustomer)
	}

	// 规则 2：短时间密集下单
	if fc.OrdersInLastHour > burstOrderThreshold {
		indicators = append(indicators, model.IndicatorBurstOrders)
	}

	// 规则 3：异常折扣占比
	if fc.CouponCode != "" && fc.TotalDiscount/fc.TotalPrice > excessiveDiscountRate {
		indicators = append(indicators, model.IndicatorExcessiveDiscount)
	}

	// 规则 4：跨境加急配送
	if fc.ShippingCountry != model.CountryUSA && fc.ShippingMethod == model.ShippingExpress {
		indicators = append(indicators, model.IndicatorRiskyInternationalExpedite)
	}

	return &model.FraudAssessment{
		HighRisk:   len(indicators) > 0,
		Indicators: indicators,
	}, nil
}
