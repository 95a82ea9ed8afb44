package catalog

import "shopsynth/model"

// BuildCoupons 构建固定优惠券表
func BuildCoupons() []model.Coupon {
	return []model.Coupon{
		{Code: "WELCOME10", DiscountPercent: 10, MinOrder: 0},
		{Code: "SAVE15", DiscountPercent: 15, MinOrder: 50},
		{Code: "SUMMER20", DiscountPercent: 20, MinOrder: 100},
		{Code: "VIP25", DiscountPercent: 25, MinOrder: 200},
		{Code: "FREESHIP", DiscountPercent: 0, MinOrder: 75, FreeShipping: true},
		{Code: "FLASH30", DiscountPercent: 30, MinOrder: 150},
	}
}
