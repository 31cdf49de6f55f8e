package dto

// CreateProductRequest HTTP创建产品请求
type CreateProductRequest struct {
	Code            string   `json:"code" binding:"required,max=50" example:"FB-CT-001"`
	Name            string   `json:"name" binding:"required,max=200" example:"纯棉帆布"`
	Category        string   `json:"category" binding:"omitempty,max=50" example:"棉布"`
	Unit            string   `json:"unit" binding:"required,max=20" example:"米"`
	PiecesPerRoll   int      `json:"pieces_per_roll" binding:"omitempty,min=0" example:"2"`
	InitialQuantity float64  `json:"initial_quantity" binding:"min=0" example:"500"`
	Colors          []string `json:"colors" binding:"omitempty" example:"米白,藏青"`
	Series          []string `json:"series" binding:"omitempty" example:"C01,C02"`
	PartNumber      string   `json:"part_number" binding:"omitempty,max=50" example:"PN-1024"`
	ReorderLocation string   `json:"reorder_location" binding:"omitempty,max=100" example:"柯桥轻纺城"`
	PurchasePrice   int64    `json:"purchase_price" binding:"required,min=1" example:"2500"`
	SalePrice       int64    `json:"sale_price" binding:"required,min=1" example:"3500"`
	ImageURL        string   `json:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/fabric.jpg"`
	Description     string   `json:"description" binding:"omitempty,max=5000" example:"中厚帆布，适合箱包"`
	YearProduction  int      `json:"year_production" binding:"omitempty" example:"2026"`
}

// UpdateProductRequest HTTP更新产品请求（不含库存量，库存走台账接口）
type UpdateProductRequest struct {
	Name            string   `json:"name" binding:"required,max=200"`
	Category        string   `json:"category" binding:"omitempty,max=50"`
	Unit            string   `json:"unit" binding:"required,max=20"`
	PiecesPerRoll   int      `json:"pieces_per_roll" binding:"omitempty,min=0"`
	Colors          []string `json:"colors" binding:"omitempty"`
	Series          []string `json:"series" binding:"omitempty"`
	PartNumber      string   `json:"part_number" binding:"omitempty,max=50"`
	ReorderLocation string   `json:"reorder_location" binding:"omitempty,max=100"`
	PurchasePrice   int64    `json:"purchase_price" binding:"required,min=1"`
	SalePrice       int64    `json:"sale_price" binding:"required,min=1"`
	ImageURL        string   `json:"image_url" binding:"omitempty,url,max=500"`
	Description     string   `json:"description" binding:"omitempty,max=5000"`
	YearProduction  int      `json:"year_production" binding:"omitempty"`
}

// ProductResponse HTTP产品响应
type ProductResponse struct {
	ID                uint     `json:"id" example:"1"`
	Code              string   `json:"code" example:"FB-CT-001"`
	Name              string   `json:"name" example:"纯棉帆布"`
	Category          string   `json:"category" example:"棉布"`
	Unit              string   `json:"unit" example:"米"`
	PiecesPerRoll     int      `json:"pieces_per_roll" example:"2"`
	QuantityAvailable float64  `json:"quantity_available" example:"500"`
	Colors            []string `json:"colors"`
	Series            []string `json:"series"`
	PartNumber        string   `json:"part_number" example:"PN-1024"`
	ReorderLocation   string   `json:"reorder_location" example:"柯桥轻纺城"`
	PurchasePrice     int64    `json:"purchase_price" example:"2500"`
	SalePrice         int64    `json:"sale_price" example:"3500"`
	ImageURL          string   `json:"image_url" example:"https://example.com/fabric.jpg"`
	Description       string   `json:"description" example:"中厚帆布，适合箱包"`
	YearProduction    int      `json:"year_production" example:"2026"`
	CreatedAt         string   `json:"created_at" example:"2026-08-24 10:30:00"`
	UpdatedAt         string   `json:"updated_at" example:"2026-08-24 10:30:00"`
}

// ListProductsRequest HTTP产品列表请求
type ListProductsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"帆布"`
	Category string `form:"category" binding:"omitempty,max=50" example:"棉布"`
}
