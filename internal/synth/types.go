package synth

import (
	"context"
	"time"

	"shopsynth/model"
)

// Draft 单笔订单的抽样骨架（发牌协程产出，装配前不可变）
type Draft struct {
	Seq             int            // 生成序号，决定结果槽位
	Customer        model.Customer // 注册表快照拷贝
	Product         model.Product
	OrderDate       time.Time
	Quantity        int
	Coupon          *model.Coupon // nil 表示未抽中券
	ShippingMethod  string
	ShippingCountry string
	PaymentMethod   string
	OrderStatus     string
}

// Config 生成管线配置
type Config struct {
	Shards     int // 按客户取模的分片数
	BufferSize int // 分片通道缓冲区大小
}

// Logger 日志接口
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}
