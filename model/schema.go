package model

import "time"

// 平表列名常量
const (
	ColOrderID         = "order_id"
	ColOrderDate       = "order_date"
	ColCustomerID      = "customer_id"
	ColCustomerName    = "customer_name"
	ColCustomerEmail   = "customer_email"
	ColCustomerSegment = "customer_segment"
	ColProductID       = "product_id"
	ColProductName     = "product_name"
	ColCategory        = "category"
	ColSubcategory     = "subcategory"
	ColQuantity        = "quantity"
	ColUnitPrice       = "unit_price"
	ColTotalPrice      = "total_price"
	ColBaseCost        = "base_cost"
	ColCouponCode      = "coupon_code"
	ColTotalDiscount   = "total_discount"
	ColFinalPrice      = "final_price"
	ColProfit          = "profit"
	ColShippingMethod  = "shipping_method"
	ColShippingCountry = "shipping_country"
	ColPaymentMethod   = "payment_method"
	ColOrderStatus     = "order_status"
	ColFraudIndicators = "fraud_indicators"
	ColIsHighRisk      = "is_high_risk"
)

// OrderDateLayout 订单时间在平表中的格式
const OrderDateLayout = "2006-01-02 15:04:05"

// OrderDateShortLayout 外部表允许的纯日期格式
const OrderDateShortLayout = "2006-01-02"

// Columns 导出平表的规范列顺序
var Columns = []string{
	ColOrderID, ColOrderDate, ColCustomerID, ColCustomerName,
	ColCustomerEmail, ColCustomerSegment, ColProductID, ColProductName,
	ColCategory, ColSubcategory, ColQuantity, ColUnitPrice,
	ColTotalPrice, ColBaseCost, ColCouponCode, ColTotalDiscount,
	ColFinalPrice, ColProfit, ColShippingMethod, ColShippingCountry,
	ColPaymentMethod, ColOrderStatus, ColFraudIndicators, ColIsHighRisk,
}

// RequiredColumns 聚合层运转所必需的列，外部表缺失时拒绝加载
var RequiredColumns = []string{
	ColOrderDate, ColTotalPrice, ColProfit,
	ColCategory, ColCustomerSegment, ColOrderStatus,
}

// CapabilitySet 表能力集：加载后实际可用的列
type CapabilitySet map[string]bool

// Has 列是否可用
func (c CapabilitySet) Has(col string) bool {
	return c[col]
}

// FullCapabilities 全列能力集，内存生成的数据集直接具备
func FullCapabilities() CapabilitySet {
	caps := make(CapabilitySet, len(Columns))
	for _, col := range Columns {
		caps[col] = true
	}
	return caps
}

// ParseOrderDate 按规范格式解析订单时间，兼容纯日期
func ParseOrderDate(s string) (time.Time, error) {
	if t, err := time.Parse(OrderDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(OrderDateShortLayout, s)
}
