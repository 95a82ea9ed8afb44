package synth

import (
	"context"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsynth/internal/catalog"
	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...interface{}) {}
func (nopLogger) Infof(context.Context, string, ...interface{})  {}
func (nopLogger) Warnf(context.Context, string, ...interface{})  {}
func (nopLogger) Errorf(context.Context, string, ...interface{}) {}

var testClock = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	engine, err := NewEngine(
		catalog.BuildProducts(rng, catalog.DefaultCategorySpec()),
		catalog.BuildCustomers(rng, 50),
		catalog.BuildCoupons(),
		testClock,
		nopLogger{},
	)
	require.NoError(t, err)
	return engine
}

func TestNewEnginePreconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	products := catalog.BuildProducts(rng, catalog.DefaultCategorySpec())
	customers := catalog.BuildCustomers(rng, 10)
	coupons := catalog.BuildCoupons()

	cases := []struct {
		name      string
		products  []model.Product
		customers []model.Customer
		coupons   []model.Coupon
	}{
		{"empty catalog", nil, customers, coupons},
		{"empty roster", products, nil, coupons},
		{"empty coupon table", products, customers, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(tc.products, tc.customers, tc.coupons, testClock, nopLogger{})
			require.Error(t, err)
			assert.True(t, errorutil.IsInvalid(err))
		})
	}
}

func TestGenerateOrdersRejectsBadCount(t *testing.T) {
	engine := newTestEngine(t)
	for _, n := range []int{0, -1} {
		_, err := engine.GenerateOrders(context.Background(), n, 42)
		require.Error(t, err)
		assert.True(t, errorutil.IsInvalid(err))
	}
}

func TestGenerateOrdersFieldInvariants(t *testing.T) {
	engine := newTestEngine(t)
	orders, err := engine.GenerateOrders(context.Background(), 500, 42)
	require.NoError(t, err)
	require.Len(t, orders, 500)

	tokenPattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	validCoupons := map[string]bool{"": true}
	for _, c := range catalog.BuildCoupons() {
		validCoupons[c.Code] = true
	}
	windowStart := testClock.AddDate(0, 0, -dateWindowDays)

	for _, o := range orders {
		assert.Regexp(t, tokenPattern, o.OrderID)
		assert.True(t, o.OrderDate.After(windowStart) && !o.OrderDate.After(testClock.Add(24*time.Hour)),
			"order date %v outside generation window", o.OrderDate)

		assert.GreaterOrEqual(t, o.Quantity, 1)
		assert.LessOrEqual(t, o.Quantity, 5)
		assert.True(t, validCoupons[o.CouponCode], "unexpected coupon %q", o.CouponCode)

		// 金额恒等式在落表精度上精确成立
		assert.Equal(t, model.Round2(o.UnitPrice*float64(o.Quantity)), o.TotalPrice)
		assert.Equal(t, model.Round2(o.TotalPrice-o.TotalDiscount), o.FinalPrice)
		assert.Equal(t, model.Round2(o.FinalPrice-o.BaseCost), o.Profit)
		assert.GreaterOrEqual(t, o.TotalDiscount, 0.0)
		assert.LessOrEqual(t, o.TotalDiscount, o.TotalPrice)

		assert.Contains(t, shippingMethods, o.ShippingMethod)
		assert.Contains(t, countryPool, o.ShippingCountry)
		assert.Contains(t, paymentMethods, o.PaymentMethod)
		assert.Contains(t, orderStatuses, o.OrderStatus)

		if o.IsHighRisk {
			assert.NotEqual(t, model.IndicatorNone, o.FraudIndicators)
			assert.NotEmpty(t, model.SplitIndicators(o.FraudIndicators))
		} else {
			assert.Equal(t, model.IndicatorNone, o.FraudIndicators)
		}
	}
}

func TestGenerateOrdersDeterministicPerSeed(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.GenerateOrders(context.Background(), 300, 7)
	require.NoError(t, err)
	b, err := engine.GenerateOrders(context.Background(), 300, 7)
	require.NoError(t, err)
	c, err := engine.GenerateOrders(context.Background(), 300, 8)
	require.NoError(t, err)

	assert.Equal(t, stripTokens(a), stripTokens(b), "same seed must reproduce the dataset")
	assert.NotEqual(t, stripTokens(a), stripTokens(c), "different seeds should diverge")
}

// stripTokens 清空订单号：订单号不走种子随机流
func stripTokens(orders []model.Order) []model.Order {
	out := make([]model.Order, len(orders))
	copy(out, orders)
	for i := range out {
		out[i].OrderID = ""
	}
	return out
}

func TestDiscountFor(t *testing.T) {
	save15 := &model.Coupon{Code: "SAVE15", DiscountPercent: 15, MinOrder: 50}
	freeship := &model.Coupon{Code: "FREESHIP", MinOrder: 75, FreeShipping: true}

	t.Run("percent coupon above threshold", func(t *testing.T) {
		assert.Equal(t, 15.0, discountFor(100, save15))
	})

	t.Run("below min order keeps zero discount", func(t *testing.T) {
		assert.Equal(t, 0.0, discountFor(49.99, save15))
	})

	t.Run("free shipping caps at fifteen", func(t *testing.T) {
		assert.Equal(t, 15.0, discountFor(200, freeship))
	})

	t.Run("free shipping below cap uses ten percent", func(t *testing.T) {
		assert.InDelta(t, 8.0, discountFor(80, freeship), 1e-9)
	})

	t.Run("no coupon", func(t *testing.T) {
		assert.Equal(t, 0.0, discountFor(500, nil))
	})
}

func TestAssembleAppliesCouponAndFraud(t *testing.T) {
	engine := newTestEngine(t)

	draft := &Draft{
		Seq:      0,
		Customer: model.Customer{ID: 1, Name: "Mary Smith", Email: "mary.smith@email.com", Segment: model.SegmentNew},
		Product: model.Product{
			ID: 1, Name: "Laptop Pro", Category: "Electronics", Subcategory: "Laptop",
			BaseCost: 40.00, SellingPrice: 100.00,
		},
		OrderDate:       testClock,
		Quantity:        1,
		Coupon:          &model.Coupon{Code: "SAVE15", DiscountPercent: 15, MinOrder: 50},
		ShippingMethod:  model.ShippingStandard,
		ShippingCountry: model.CountryUSA,
		PaymentMethod:   model.PaymentPayPal,
		OrderStatus:     model.StatusDelivered,
	}

	order, err := engine.assemble(context.Background(), draft, 0)
	require.NoError(t, err)

	assert.Equal(t, 100.0, order.TotalPrice)
	assert.Equal(t, 15.0, order.TotalDiscount)
	assert.Equal(t, 85.0, order.FinalPrice)
	assert.Equal(t, 40.0, order.BaseCost)
	assert.Equal(t, 45.0, order.Profit)
	assert.Equal(t, "SAVE15", order.CouponCode)
	assert.False(t, order.IsHighRisk)
	assert.Equal(t, model.IndicatorNone, order.FraudIndicators)
}

func TestAssembleKeepsCouponCodeUnderMinimum(t *testing.T) {
	engine := newTestEngine(t)

	draft := &Draft{
		Customer:        model.Customer{ID: 3, Name: "Karen White", Segment: model.SegmentPremium},
		Product:         model.Product{ID: 2, Name: "Decor Standard", Category: "Home", Subcategory: "Decor", BaseCost: 15, SellingPrice: 30},
		OrderDate:       testClock,
		Quantity:        1,
		Coupon:          &model.Coupon{Code: "SAVE15", DiscountPercent: 15, MinOrder: 50},
		ShippingMethod:  model.ShippingStandard,
		ShippingCountry: model.CountryUSA,
		PaymentMethod:   model.PaymentDebitCard,
		OrderStatus:     model.StatusProcessing,
	}

	order, err := engine.assemble(context.Background(), draft, 0)
	require.NoError(t, err)

	// 未达门槛折扣归零，但抽中的券码仍要落表
	assert.Equal(t, "SAVE15", order.CouponCode)
	assert.Equal(t, 0.0, order.TotalDiscount)
	assert.Equal(t, 30.0, order.FinalPrice)
}

func TestAssembleBurstBoundary(t *testing.T) {
	engine := newTestEngine(t)

	draft := &Draft{
		Customer:        model.Customer{ID: 2, Name: "John Lee", Segment: model.SegmentRegular},
		Product:         model.Product{ID: 1, Name: "Tablet Basic", Category: "Electronics", Subcategory: "Tablet", BaseCost: 50, SellingPrice: 80},
		OrderDate:       testClock,
		Quantity:        1,
		ShippingMethod:  model.ShippingStandard,
		ShippingCountry: model.CountryUSA,
		PaymentMethod:   model.PaymentCreditCard,
		OrderStatus:     model.StatusShipped,
	}

	t.Run("three priors stay clean", func(t *testing.T) {
		order, err := engine.assemble(context.Background(), draft, 3)
		require.NoError(t, err)
		assert.False(t, order.IsHighRisk)
	})

	t.Run("four priors flag burst", func(t *testing.T) {
		order, err := engine.assemble(context.Background(), draft, 4)
		require.NoError(t, err)
		assert.True(t, order.IsHighRisk)
		assert.Equal(t, model.IndicatorBurstOrders, order.FraudIndicators)
	})
}
