package product

import (
	"time"
)

// Product 产品实体（聚合根）
// 设计说明：
// 1. QuantityAvailable是派生计数器：等于基线库存加上该产品全部台账
//    （inventory.Transaction）变动量之和，任何修改必须伴随一条台账记录
// 2. 数量使用float64：布料按米/码裁剪销售，存在小数数量
// 3. 价格使用int64存储最小货币单位（避免浮点数精度问题）
// 4. Code作为业务唯一标识（数据库层保证唯一性）
type Product struct {
	ID                uint
	Code              string  // 产品编码（业务主键）
	Name              string  // 品名
	Category          string  // 类别（棉、绒、里布…）
	Unit              string  // 计量单位（米/码/匹）
	PiecesPerRoll     int     // 每匹段数
	QuantityAvailable float64 // 可用库存量（派生计数器，恒>=0）
	Colors            []string
	Series            []string // 色号系列，与Colors一一对应
	PartNumber        string
	ReorderLocation   string // 补货渠道
	PurchasePrice     int64  // 进价（最小货币单位）
	SalePrice         int64  // 售价（最小货币单位）
	ImageURL          string
	Description       string
	YearProduction    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewProduct 创建新产品（工厂方法）
// 校验在Validate中完成，调用方应先调用Validate
func NewProduct(code, name, category, unit string, purchasePrice, salePrice int64, initialQuantity float64) *Product {
	now := time.Now()
	return &Product{
		Code:              code,
		Name:              name,
		Category:          category,
		Unit:              unit,
		PurchasePrice:     purchasePrice,
		SalePrice:         salePrice,
		QuantityAvailable: initialQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate 产品定义校验（领域行为）
// 业务规则：
// 1. 编码、品名、单位必填
// 2. 价格必须>0
// 3. Colors与Series长度必须一致（色卡与色号一一对应）
func (p *Product) Validate() error {
	if p.Code == "" || p.Name == "" || p.Unit == "" {
		return ErrInvalidDefinition
	}
	if p.PurchasePrice <= 0 || p.SalePrice <= 0 {
		return ErrInvalidPrice
	}
	if p.QuantityAvailable < 0 {
		return ErrInvalidQuantity
	}
	if len(p.Series) > 0 && len(p.Series) != len(p.Colors) {
		return ErrColorsSeriesMismatch
	}
	return nil
}

// HasStock 检查可用库存是否满足需求量
func (p *Product) HasStock(quantity float64) bool {
	return p.QuantityAvailable >= quantity
}

// Shortfall 计算需求量相对可用库存的缺口（充足时为0）
func (p *Product) Shortfall(quantity float64) float64 {
	if p.QuantityAvailable >= quantity {
		return 0
	}
	return quantity - p.QuantityAvailable
}
