package model

import "time"

// Order 生成完毕后冻结的订单平表记录
type Order struct {
	OrderID         string    `json:"order_id"`
	OrderDate       time.Time `json:"order_date"`
	CustomerID      int       `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerSegment string    `json:"customer_segment"`
	ProductID       int       `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	TotalPrice      float64   `json:"total_price"`
	BaseCost        float64   `json:"base_cost"` // 整单成本 = 单件成本 × 数量
	CouponCode      string    `json:"coupon_code"`
	TotalDiscount   float64   `json:"total_discount"`
	FinalPrice      float64   `json:"final_price"`
	Profit          float64   `json:"profit"`
	ShippingMethod  string    `json:"shipping_method"`
	ShippingCountry string    `json:"shipping_country"`
	PaymentMethod   string    `json:"payment_method"`
	OrderStatus     string    `json:"order_status"`
	FraudIndicators string    `json:"fraud_indicators"`
	IsHighRisk      bool      `json:"is_high_risk"`
}

// 配送方式常量
const (
	ShippingStandard = "Standard"
	ShippingExpress  = "Express"
	ShippingNextDay  = "Next Day"
)

// 收货国家常量
const (
	CountryUSA       = "USA"
	CountryCanada    = "Canada"
	CountryUK        = "UK"
	CountryAustralia = "Australia"
)

// 支付方式常量
const (
	PaymentCreditCard = "Credit Card"
	PaymentPayPal     = "PayPal"
	PaymentDebitCard  = "Debit Card"
	PaymentApplePay   = "Apple Pay"
)

// 订单状态常量
const (
	StatusDelivered  = "Delivered"
	StatusShipped    = "Shipped"
	StatusProcessing = "Processing"
	StatusCancelled  = "Cancelled"
)

// Fulfilled 订单是否履约成功（已送达或已发货）
func (o *Order) Fulfilled() bool {
	return o.OrderStatus == StatusDelivered || o.OrderStatus == StatusShipped
}
