package catalog

import (
	"fmt"
	"math/rand"
	"sort"

	"shopsynth/model"
)

// 商品定价参数
const (
	baseCostMin = 10.0
	baseCostMax = 500.0
	markupMin   = 1.2
	markupMax   = 2.5
)

// nameSuffixes 商品名随机后缀
var nameSuffixes = []string{"Pro", "Elite", "Basic", "Premium", "Standard"}

// DefaultCategorySpec 内置品类目录
func DefaultCategorySpec() map[string][]string {
	return map[string][]string{
		"Electronics": {"Smartphone", "Laptop", "Tablet", "Headphones", "Smartwatch", "Camera"},
		"Clothing":    {"T-Shirt", "Jeans", "Dress", "Jacket", "Shoes", "Accessories"},
		"Home":        {"Furniture", "Kitchenware", "Decor", "Bedding", "Lighting"},
		"Books":       {"Fiction", "Non-Fiction", "Educational", "Children", "Cookbook"},
		"Sports":      {"Equipment", "Apparel", "Footwear", "Accessories"},
	}
}

// BuildProducts 按品类目录构建商品注册表（纯构造，空品类直接跳过）
// 售价基于未舍入的成本抽样计算，与落表成本存在舍入差
func BuildProducts(rng *rand.Rand, spec map[string][]string) []model.Product {
	// 1. 品类按名称排序，map 遍历顺序不得影响种子随机流
	categories := make([]string, 0, len(spec))
	for category := range spec {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	// 2. 逐条目抽样定价：成本 → 加价率 → 名称后缀
	products := make([]model.Product, 0)
	productID := 1
	for _, category := range categories {
		for _, item := range spec[category] {
			baseCost := baseCostMin + rng.Float64()*(baseCostMax-baseCostMin)
			sellingPrice := baseCost * (markupMin + rng.Float64()*(markupMax-markupMin))
			suffix := nameSuffixes[rng.Intn(len(nameSuffixes))]

			products = append(products, model.Product{
				ID:           productID,
				Name:         fmt.Sprintf("%s %s", item, suffix),
				Category:     category,
				Subcategory:  item,
				BaseCost:     model.Round2(baseCost),
				SellingPrice: model.Round2(sellingPrice),
			})
			productID++
		}
	}

	return products
}
