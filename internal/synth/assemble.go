package synth

import (
	"context"
	"fmt"
	"math"

	"shopsynth/model"
	"shopsynth/pkg/idgen"
)

// 免邮券按订单总价 10% 估算运费，上限 15 刀
const (
	freeShippingCap  = 15.0
	freeShippingRate = 0.1
)

// discountFor 计算券后折扣，未达门槛返回 0（券码仍落表）
func discountFor(totalPrice float64, coupon *model.Coupon) float64 {
	if coupon == nil || totalPrice < coupon.MinOrder {
		return 0
	}
	if coupon.FreeShipping {
		return math.Min(freeShippingCap, totalPrice*freeShippingRate)
	}
	return totalPrice * coupon.DiscountPercent / 100
}

// assemble 由抽样骨架与历史信号装配冻结订单
// 金额逐级取分精度再参与后续推导，保证落表恒等式精确成立：
// final = total - discount，profit = final - base_cost
func (e *Engine) assemble(ctx context.Context, draft *Draft, ordersInLastHour int) (model.Order, error) {
	unitPrice := draft.Product.SellingPrice
	totalPrice := model.Round2(unitPrice * float64(draft.Quantity))

	couponCode := ""
	if draft.Coupon != nil {
		couponCode = draft.Coupon.Code
	}
	totalDiscount := model.Round2(discountFor(totalPrice, draft.Coupon))
	finalPrice := model.Round2(totalPrice - totalDiscount)
	baseCostTotal := model.Round2(draft.Product.BaseCost * float64(draft.Quantity))
	profit := model.Round2(finalPrice - baseCostTotal)

	assessment, err := e.checker.Evaluate(ctx, &model.FraudContext{
		CustomerSegment:  draft.Customer.Segment,
		TotalPrice:       totalPrice,
		CouponCode:       couponCode,
		TotalDiscount:    totalDiscount,
		OrdersInLastHour: ordersInLastHour,
		ShippingCountry:  draft.ShippingCountry,
		ShippingMethod:   draft.ShippingMethod,
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("fraud evaluation failed: %w", err)
	}

	return model.Order{
		OrderID:         idgen.OrderToken(),
		OrderDate:       draft.OrderDate,
		CustomerID:      draft.Customer.ID,
		CustomerName:    draft.Customer.Name,
		CustomerEmail:   draft.Customer.Email,
		CustomerSegment: draft.Customer.Segment,
		ProductID:       draft.Product.ID,
		ProductName:     draft.Product.Name,
		Category:        draft.Product.Category,
		Subcategory:     draft.Product.Subcategory,
		Quantity:        draft.Quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      totalPrice,
		BaseCost:        baseCostTotal,
		CouponCode:      couponCode,
		TotalDiscount:   totalDiscount,
		FinalPrice:      finalPrice,
		Profit:          profit,
		ShippingMethod:  draft.ShippingMethod,
		ShippingCountry: draft.ShippingCountry,
		PaymentMethod:   draft.PaymentMethod,
		OrderStatus:     draft.OrderStatus,
		FraudIndicators: model.JoinIndicators(assessment.Indicators),
		IsHighRisk:      assessment.HighRisk,
	}, nil
}
