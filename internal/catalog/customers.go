package catalog

import (
	"fmt"
	"math/rand"
	"strings"

	"shopsynth/model"
)

// 客户姓名池
var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Margaret", "Anthony", "Betty", "Mark", "Sandra",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
		"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson",
	}
)

// segments 客户分层，均匀抽取
var segments = []string{
	model.SegmentRegular, model.SegmentPremium, model.SegmentVIP, model.SegmentNew,
}

// BuildCustomers 构建客户注册表（纯构造，n <= 0 返回空表）
// 邮箱由姓名派生，不保证唯一
func BuildCustomers(rng *rand.Rand, n int) []model.Customer {
	customers := make([]model.Customer, 0, max(n, 0))
	for i := 0; i < n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		customers = append(customers, model.Customer{
			ID:      i + 1,
			Name:    fmt.Sprintf("%s %s", first, last),
			Email:   fmt.Sprintf("%s.%s@email.com", strings.ToLower(first), strings.ToLower(last)),
			Segment: segments[rng.Intn(len(segments))],
		})
	}
	return customers
}
