package dto

// RecordTransactionRequest HTTP手工台账请求（进货/盘点）
type RecordTransactionRequest struct {
	ProductID uint    `json:"product_id" binding:"required" example:"1"`
	Kind      string  `json:"kind" binding:"required,oneof=restock adjust" example:"restock"`
	Delta     float64 `json:"delta" binding:"required" example:"200"`
	Note      string  `json:"note" binding:"omitempty,max=200" example:"8月第二批进货"`
}

// TransactionResponse HTTP台账响应
type TransactionResponse struct {
	ID        uint    `json:"id" example:"1"`
	ProductID uint    `json:"product_id" example:"1"`
	InvoiceID uint    `json:"invoice_id" example:"0"`
	Kind      string  `json:"kind" example:"restock"`
	Delta     float64 `json:"delta" example:"200"`
	Note      string  `json:"note" example:"8月第二批进货"`
	CreatedBy uint    `json:"created_by" example:"1"`
	CreatedAt string  `json:"created_at" example:"2026-08-24 10:30:00"`
}

// QuantityResponse HTTP产品库存视图响应
type QuantityResponse struct {
	ProductID uint    `json:"product_id" example:"1"`
	Code      string  `json:"code" example:"FB-001"`
	Name      string  `json:"name" example:"纯棉平纹布"`
	Unit      string  `json:"unit" example:"米"`
	Available float64 `json:"available" example:"120.5"`
	Reserved  float64 `json:"reserved" example:"30"`
	Total     float64 `json:"total" example:"150.5"`
}

// ListTransactionsRequest HTTP台账列表请求
type ListTransactionsRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	ProductID uint   `form:"product_id" binding:"omitempty" example:"1"`
	InvoiceID uint   `form:"invoice_id" binding:"omitempty" example:"1"`
	Kind      string `form:"kind" binding:"omitempty,oneof=reserve release ship_mark restock adjust" example:"reserve"`
	From      string `form:"from" binding:"omitempty" example:"2026-08-01"`
	To        string `form:"to" binding:"omitempty" example:"2026-08-31"`
}
