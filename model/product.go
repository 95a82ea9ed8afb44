package model

// Product 商品目录条目
type Product struct {
	ID           int     `json:"product_id"`
	Name         string  `json:"product_name"` // 条目名 + 随机后缀，如 "Laptop Pro"
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"` // 即条目名本身
	BaseCost     float64 `json:"base_cost"`
	SellingPrice float64 `json:"selling_price"`
}
