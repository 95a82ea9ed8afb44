package analytics

import (
	"shopsynth/model"
)

// Table 只读订单数据集快照，Caps 为实际可用的列能力集
type Table struct {
	Rows []model.Order
	Caps model.CapabilitySet
}

// NewTable 从内存订单集构建全能力表
func NewTable(orders []model.Order) *Table {
	return &Table{
		Rows: orders,
		Caps: model.FullCapabilities(),
	}
}

// NewTableWithCaps 从外部加载的订单集构建表，能力集由加载器给出
func NewTableWithCaps(orders []model.Order, caps model.CapabilitySet) *Table {
	return &Table{
		Rows: orders,
		Caps: caps,
	}
}

// Len 表中的订单行数
func (t *Table) Len() int {
	return len(t.Rows)
}
