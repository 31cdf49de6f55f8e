package invoice

import (
	"time"

	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/domain/user"
)

// Status 发票状态
// 设计说明：
// 1. 使用int而非string存储，便于数据库索引和比较
// 2. 状态只能沿转移表单向推进，禁止直接赋值修改（见statemachine.go）
type Status int

const (
	StatusWarehousePending  Status = 1 // 待仓库预留
	StatusAccountantPending Status = 2 // 待财务审核
	StatusApproved          Status = 3 // 已审核
	StatusShipped           Status = 4 // 已发货
	StatusDelivered         Status = 5 // 已送达（终态）
	StatusCancelled         Status = 6 // 已取消（终态）
)

// String 状态的可读名称（日志、事件、API响应中使用）
func (s Status) String() string {
	switch s {
	case StatusWarehousePending:
		return "warehouse_pending"
	case StatusAccountantPending:
		return "accountant_pending"
	case StatusApproved:
		return "approved"
	case StatusShipped:
		return "shipped"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Valid 校验状态取值
func (s Status) Valid() bool {
	return s >= StatusWarehousePending && s <= StatusCancelled
}

// IsTerminal 是否为终态（终态发票不再接受任何转移）
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentType 结算方式
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"     // 现金
	PaymentCheque   PaymentType = "cheque"   // 支票
	PaymentTransfer PaymentType = "transfer" // 转账
	PaymentMixed    PaymentType = "mixed"    // 混合结算
)

// Valid 校验结算方式取值
func (pt PaymentType) Valid() bool {
	switch pt {
	case PaymentCash, PaymentCheque, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}

// PaymentBreakdown 混合结算的金额拆分（最小货币单位）
type PaymentBreakdown struct {
	CashAmount     int64 `json:"cash_amount"`
	ChequeAmount   int64 `json:"cheque_amount"`
	TransferAmount int64 `json:"transfer_amount"`
}

// Sum 拆分金额合计
func (pb PaymentBreakdown) Sum() int64 {
	return pb.CashAmount + pb.ChequeAmount + pb.TransferAmount
}

// TrackingInfo 发货物流信息（仅shipped及之后的状态持有）
type TrackingInfo struct {
	Carrier      string     `json:"carrier"`       // 承运方
	TrackingCode string     `json:"tracking_code"` // 运单号
	ShippedAt    *time.Time `json:"shipped_at"`    // 发货日期
	PackageCount int        `json:"package_count"` // 件数
}

// Validate 发货前校验物流信息完整性
// 任一必填字段缺失则拒绝发货，不产生任何台账记录
func (t *TrackingInfo) Validate() error {
	if t.Carrier == "" {
		return ErrMissingCarrier
	}
	if t.TrackingCode == "" {
		return ErrMissingTrackingCode
	}
	if t.ShippedAt == nil {
		return ErrMissingShipDate
	}
	if t.PackageCount <= 0 {
		return ErrInvalidPackageCount
	}
	return nil
}

// LineItem 发票明细行
// 设计说明：明细行在发票创建后不可修改（write-once）——
// 预留量以明细数量为唯一依据，改明细会使台账与发票失去对应关系，
// 需要改单时只能取消重开
type LineItem struct {
	ID        uint
	InvoiceID uint
	ProductID uint
	Quantity  float64 // 需求量（布料按米裁剪，允许小数）
	Unit      string  // 计量单位快照
	UnitPrice int64   // 成交单价快照（最小货币单位）

	Product *product.Product // 查询时急加载填充，写路径不依赖
}

// Subtotal 明细行小计（最小货币单位，四舍五入到整数）
func (li *LineItem) Subtotal() int64 {
	return int64(li.Quantity*float64(li.UnitPrice) + 0.5)
}

// Invoice 发票实体（聚合根）
// 设计说明：
// 1. 发票永不物理删除：cancelled是逻辑终态，历史台账必须可追溯
// 2. 状态修改只能通过转移操作（reserve/approve/ship/deliver/cancel），
//    每次转移与对应台账写入在同一事务内提交
// 3. Customer/Creator在查询时急加载填充，响应中不留未解析的引用
type Invoice struct {
	ID          uint
	InvoiceNo   string // 发票编号（业务唯一）
	CustomerID  uint
	Status      Status
	PaymentType PaymentType
	Breakdown   PaymentBreakdown // 仅mixed结算时有意义
	TotalAmount int64            // 明细合计（最小货币单位）
	Items       []LineItem
	Tracking    *TrackingInfo // shipped之前为nil
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *customer.Customer // 急加载填充
	Creator  *user.User         // 急加载填充
}

// NewInvoice 创建新发票（工厂方法），初始状态为待仓库预留
func NewInvoice(invoiceNo string, customerID uint, paymentType PaymentType, breakdown PaymentBreakdown, items []LineItem, createdBy uint) *Invoice {
	now := time.Now()
	inv := &Invoice{
		InvoiceNo:   invoiceNo,
		CustomerID:  customerID,
		Status:      StatusWarehousePending,
		PaymentType: paymentType,
		Breakdown:   breakdown,
		Items:       items,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inv.TotalAmount = inv.calcTotal()
	return inv
}

func (i *Invoice) calcTotal() int64 {
	var total int64
	for idx := range i.Items {
		total += i.Items[idx].Subtotal()
	}
	return total
}

// Validate 创建时校验
// 业务规则：
// 1. 必须有至少一条明细，数量、单价必须>0
// 2. 混合结算时拆分金额必须恰好等于发票总额
// 3. 非混合结算时不允许携带拆分金额
func (i *Invoice) Validate() error {
	if i.CustomerID == 0 {
		return ErrMissingCustomer
	}
	if !i.PaymentType.Valid() {
		return ErrInvalidPaymentType
	}
	if len(i.Items) == 0 {
		return ErrEmptyItems
	}
	for idx := range i.Items {
		if i.Items[idx].ProductID == 0 || i.Items[idx].Quantity <= 0 || i.Items[idx].UnitPrice <= 0 {
			return ErrInvalidItem
		}
	}
	if i.PaymentType == PaymentMixed {
		if i.Breakdown.Sum() != i.TotalAmount {
			return ErrBreakdownMismatch
		}
	} else if i.Breakdown.Sum() != 0 {
		return ErrUnexpectedBreakdown
	}
	return nil
}
