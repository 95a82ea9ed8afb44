package model

// Coupon 优惠券定义
type Coupon struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"` // 按订单总价的百分比，免邮券为 0
	MinOrder        float64 `json:"min_order"`        // 生效的最低订单总价
	FreeShipping    bool    `json:"free_shipping"`    // 免邮券按固定运费金额抵扣
}
