package model

import "strings"

// FraudContext 欺诈规则评估的只读输入，由订单合成阶段组装
type FraudContext struct {
	CustomerSegment  string
	TotalPrice       float64
	CouponCode       string
	TotalDiscount    float64
	OrdersInLastHour int // 同一客户本次运行内的近一小时订单数
	ShippingCountry  string
	ShippingMethod   string
}

// FraudAssessment 欺诈启发式评估结果
type FraudAssessment struct {
	HighRisk   bool     `json:"high_risk"`
	Indicators []string `json:"indicators"` // 按规则固定顺序命中的指标名
}

// 欺诈指标常量
const (
	IndicatorHighValueNewCustomer       = "high-value-new-customer"
	IndicatorBurstOrders                = "burst-orders"
	IndicatorExcessiveDiscount          = "excessive-discount"
	IndicatorRiskyInternationalExpedite = "risky-international-expedite"
)

// IndicatorNone 无指标命中时落表的哨兵值
const IndicatorNone = "none"

// IndicatorSeparator 多个指标在平表单元格内的连接符
const IndicatorSeparator = ", "

// JoinIndicators 指标列表 → 平表单元格值
func JoinIndicators(indicators []string) string {
	if len(indicators) == 0 {
		return IndicatorNone
	}
	return strings.Join(indicators, IndicatorSeparator)
}

// SplitIndicators 平表单元格值 → 指标列表，哨兵值返回 nil
func SplitIndicators(s string) []string {
	if s == "" || s == IndicatorNone {
		return nil
	}
	return strings.Split(s, IndicatorSeparator)
}
