package synth

import "time"

// historyShard 一个分片内的客户时间戳历史，按生成序追加
// 仅由所属分片协程读写，运行结束即丢弃
type historyShard struct {
	orders map[int][]time.Time
}

func newHistoryShard() *historyShard {
	return &historyShard{orders: make(map[int][]time.Time)}
}

// countLastHour 统计与 current 相差不超过一小时的既有时间戳
// 窗口只设上界：时间戳为独立抽样，晚于 current 的历史同样计入
func (h *historyShard) countLastHour(customerID int, current time.Time) int {
	count := 0
	for _, t := range h.orders[customerID] {
		if current.Sub(t) <= time.Hour {
			count++
		}
	}
	return count
}

// append 先数后记：计数完成后才把当前时间戳追加进历史
func (h *historyShard) append(customerID int, t time.Time) {
	h.orders[customerID] = append(h.orders[customerID], t)
}
