package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shopsynth/model"
	"shopsynth/pkg/errorutil"
)

// ctxCheckInterval 长循环中检查取消信号的行间隔
const ctxCheckInterval = 10000

// Store CSV 平表读写器
type Store struct {
	dir string
}

// NewStore 创建 Store 实例，dir 为导出目录
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errorutil.Invalid("output directory is empty")
	}
	return &Store{dir: dir}, nil
}

// Dir 返回导出目录
func (s *Store) Dir() string {
	return s.dir
}

// WriteOrders 将订单集按规范列顺序导出为 CSV 平表
// 参数：
//   - ctx: 上下文
//   - filename: 目录内的文件名
//   - orders: 待导出订单
//
// 返回写入的完整文件路径。
func (s *Store) WriteOrders(ctx context.Context, filename string, orders []model.Order) (string, error) {
	if filename == "" {
		return "", errorutil.Invalid("filename is empty")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create csv file: %w", err)
	}
	if err := writeOrders(ctx, f, orders); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close csv file: %w", err)
	}
	return path, nil
}

// ReadOrders 读取全列平表，任何规范列缺失都视为非法输入
func (s *Store) ReadOrders(ctx context.Context, path string) ([]model.Order, error) {
	orders, caps, err := s.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, col := range model.Columns {
		if !caps.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errorutil.InvalidWithDetails("csv schema missing columns", strings.Join(missing, ", "))
	}
	return orders, nil
}

// ReadTable 按宽松模式读取平表：未知列忽略，可选列缺失时降级，
// 必需列缺失直接拒绝。返回订单集和实际可用的列能力集。
func (s *Store) ReadTable(ctx context.Context, path string) ([]model.Order, model.CapabilitySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, errorutil.Invalid("csv file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	// 1. 建立列索引，未知列和重复列忽略
	known := make(map[string]bool, len(model.Columns))
	for _, col := range model.Columns {
		known[col] = true
	}
	idx := make(map[string]int, len(header))
	caps := make(model.CapabilitySet, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if !known[name] {
			continue
		}
		if _, dup := idx[name]; dup {
			continue
		}
		idx[name] = i
		caps[name] = true
	}

	// 2. 校验必需列
	var missing []string
	for _, col := range model.RequiredColumns {
		if !caps.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, errorutil.InvalidWithDetails("csv schema missing required columns", strings.Join(missing, ", "))
	}

	// 3. 逐行解析
	var orders []model.Order
	row := 1
	for {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		row++

		o, err := parseRecord(idx, rec)
		if err != nil {
			return nil, nil, errorutil.InvalidWithDetails("invalid csv row", fmt.Sprintf("row %d: %v", row, err))
		}
		orders = append(orders, o)
	}
	return orders, caps, nil
}

func writeOrders(ctx context.Context, w io.Writer, orders []model.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range orders {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := cw.Write(orderRecord(&orders[i])); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// orderRecord 生成与 model.Columns 顺序一致的一行记录
func orderRecord(o *model.Order) []string {
	return []string{
		o.OrderID,
		o.OrderDate.Format(model.OrderDateLayout),
		strconv.Itoa(o.CustomerID),
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerSegment,
		strconv.Itoa(o.ProductID),
		o.ProductName,
		o.Category,
		o.Subcategory,
		strconv.Itoa(o.Quantity),
		money(o.UnitPrice),
		money(o.TotalPrice),
		money(o.BaseCost),
		o.CouponCode,
		money(o.TotalDiscount),
		money(o.FinalPrice),
		money(o.Profit),
		o.ShippingMethod,
		o.ShippingCountry,
		o.PaymentMethod,
		o.OrderStatus,
		o.FraudIndicators,
		strconv.FormatBool(o.IsHighRisk),
	}
}

// money 金额列统一两位小数输出
func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// rowParser 单行解析器，记录首个解析失败并返回零值
type rowParser struct {
	idx map[string]int
	rec []string
	err error
}

func parseRecord(idx map[string]int, rec []string) (model.Order, error) {
	p := &rowParser{idx: idx, rec: rec}
	o := model.Order{
		OrderID:         p.str(model.ColOrderID),
		OrderDate:       p.date(model.ColOrderDate),
		CustomerID:      p.integer(model.ColCustomerID),
		CustomerName:    p.str(model.ColCustomerName),
		CustomerEmail:   p.str(model.ColCustomerEmail),
		CustomerSegment: p.str(model.ColCustomerSegment),
		ProductID:       p.integer(model.ColProductID),
		ProductName:     p.str(model.ColProductName),
		Category:        p.str(model.ColCategory),
		Subcategory:     p.str(model.ColSubcategory),
		Quantity:        p.integer(model.ColQuantity),
		UnitPrice:       p.f64(model.ColUnitPrice),
		TotalPrice:      p.f64(model.ColTotalPrice),
		BaseCost:        p.f64(model.ColBaseCost),
		CouponCode:      p.str(model.ColCouponCode),
		TotalDiscount:   p.f64(model.ColTotalDiscount),
		FinalPrice:      p.f64(model.ColFinalPrice),
		Profit:          p.f64(model.ColProfit),
		ShippingMethod:  p.str(model.ColShippingMethod),
		ShippingCountry: p.str(model.ColShippingCountry),
		PaymentMethod:   p.str(model.ColPaymentMethod),
		OrderStatus:     p.str(model.ColOrderStatus),
		FraudIndicators: p.str(model.ColFraudIndicators),
		IsHighRisk:      p.boolean(model.ColIsHighRisk),
	}
	return o, p.err
}

func (p *rowParser) fail(col string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
}

// cell 取出指定列的原始值，列不存在时 ok 为 false
func (p *rowParser) cell(col string) (string, bool) {
	i, ok := p.idx[col]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(p.rec[i]), true
}

func (p *rowParser) str(col string) string {
	s, _ := p.cell(col)
	return s
}

func (p *rowParser) f64(col string) float64 {
	s, ok := p.cell(col)
	if !ok || s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(col, err)
		return 0
	}
	return v
}

func (p *rowParser) integer(col string) int {
	s, ok := p.cell(col)
	if !ok || s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(col, err)
		return 0
	}
	return v
}

func (p *rowParser) boolean(col string) bool {
	s, ok := p.cell(col)
	if !ok || s == "" {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(col, err)
		return false
	}
	return v
}

func (p *rowParser) date(col string) time.Time {
	s, ok := p.cell(col)
	if !ok || s == "" {
		return time.Time{}
	}
	t, err := model.ParseOrderDate(s)
	if err != nil {
		p.fail(col, err)
		return time.Time{}
	}
	return t
}
