package model

// Customer 客户注册表条目
type Customer struct {
	ID      int    `json:"customer_id"`
	Name    string `json:"customer_name"`
	Email   string `json:"customer_email"`
	Segment string `json:"customer_segment"`
}

// 客户分层常量
const (
	SegmentRegular = "Regular"
	SegmentPremium = "Premium"
	SegmentVIP     = "VIP"
	SegmentNew     = "New"
)
