package dto

// CreateInvoiceRequest HTTP创建发票请求
type CreateInvoiceRequest struct {
	CustomerID     uint               `json:"customer_id" binding:"required" example:"1"`
	PaymentType    string             `json:"payment_type" binding:"required,oneof=cash cheque transfer mixed" example:"mixed"`
	CashAmount     int64              `json:"cash_amount" binding:"omitempty,min=0" example:"10000"`
	ChequeAmount   int64              `json:"cheque_amount" binding:"omitempty,min=0" example:"20000"`
	TransferAmount int64              `json:"transfer_amount" binding:"omitempty,min=0" example:"0"`
	Items          []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

// InvoiceItemInput 发票明细输入
type InvoiceItemInput struct {
	ProductID uint    `json:"product_id" binding:"required" example:"1"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0" example:"12.5"`
}

// ShipInvoiceRequest HTTP发货请求
type ShipInvoiceRequest struct {
	Carrier      string `json:"carrier" binding:"required,max=100" example:"顺丰速运"`
	TrackingCode string `json:"tracking_code" binding:"required,max=100" example:"SF1234567890"`
	ShippedAt    string `json:"shipped_at" binding:"required" example:"2026-08-24"` // yyyy-MM-dd
	PackageCount int    `json:"package_count" binding:"required,min=1" example:"3"`
}

// InvoiceResponse HTTP发票响应（完整聚合）
type InvoiceResponse struct {
	ID             uint                `json:"id" example:"1"`
	InvoiceNo      string              `json:"invoice_no" example:"INV20260824123456"`
	Status         string              `json:"status" example:"warehouse_pending"`
	PaymentType    string              `json:"payment_type" example:"mixed"`
	CashAmount     int64               `json:"cash_amount" example:"10000"`
	ChequeAmount   int64               `json:"cheque_amount" example:"20000"`
	TransferAmount int64               `json:"transfer_amount" example:"0"`
	TotalAmount    int64               `json:"total_amount" example:"30000"`
	Items          []InvoiceItemInfo   `json:"items"`
	Customer       *CustomerResponse   `json:"customer,omitempty"`
	Creator        *UserInfo           `json:"creator,omitempty"`
	Tracking       *TrackingInfoOutput `json:"tracking,omitempty"`
	CreatedAt      string              `json:"created_at" example:"2026-08-24 10:30:00"`
	UpdatedAt      string              `json:"updated_at" example:"2026-08-24 10:30:00"`
}

// InvoiceItemInfo 发票明细信息（含解析后的产品）
type InvoiceItemInfo struct {
	ID          uint    `json:"id" example:"1"`
	ProductID   uint    `json:"product_id" example:"1"`
	ProductCode string  `json:"product_code" example:"FB-CT-001"`
	ProductName string  `json:"product_name" example:"纯棉帆布"`
	Quantity    float64 `json:"quantity" example:"12.5"`
	Unit        string  `json:"unit" example:"米"`
	UnitPrice   int64   `json:"unit_price" example:"3500"`
	Subtotal    int64   `json:"subtotal" example:"43750"`
}

// TrackingInfoOutput 物流信息输出
type TrackingInfoOutput struct {
	Carrier      string `json:"carrier" example:"顺丰速运"`
	TrackingCode string `json:"tracking_code" example:"SF1234567890"`
	ShippedAt    string `json:"shipped_at" example:"2026-08-24"`
	PackageCount int    `json:"package_count" example:"3"`
}

// ListInvoicesRequest HTTP发票列表请求
type ListInvoicesRequest struct {
	Page        int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Status      int    `form:"status" binding:"omitempty,min=1,max=6" example:"1"`
	CustomerID  uint   `form:"customer_id" binding:"omitempty" example:"1"`
	CreatedBy   uint   `form:"created_by" binding:"omitempty" example:"1"`
	PaymentType string `form:"payment_type" binding:"omitempty,oneof=cash cheque transfer mixed" example:"cash"`
	From        string `form:"from" binding:"omitempty" example:"2026-08-01"` // yyyy-MM-dd
	To          string `form:"to" binding:"omitempty" example:"2026-08-31"`
}

// ShortageInfo 库存缺口信息（预留失败响应）
type ShortageInfo struct {
	ProductID uint    `json:"product_id" example:"2"`
	Code      string  `json:"code" example:"FB-CD-002"`
	Name      string  `json:"name" example:"灯芯绒"`
	Requested float64 `json:"requested" example:"30"`
	Available float64 `json:"available" example:"12.5"`
}
