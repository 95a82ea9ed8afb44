package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// TokenLength 订单号长度
const TokenLength = 8

// OrderToken 生成订单号：UUIDv4 前 8 位十六进制，大写。
// 不走种子随机流，订单号跨运行不可复现
func OrderToken() string {
	return strings.ToUpper(uuid.NewString()[:TokenLength])
}

// RunID 生成单次运行的追踪标识
func RunID() string {
	return uuid.NewString()
}
