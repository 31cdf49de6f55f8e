package dto

// CreateCustomerRequest HTTP创建客户请求
type CreateCustomerRequest struct {
	FirstName    string             `json:"first_name" binding:"required,max=50" example:"小芳"`
	LastName     string             `json:"last_name" binding:"required,max=50" example:"王"`
	Phone        string             `json:"phone" binding:"omitempty,max=20" example:"13800138000"`
	Address      string             `json:"address" binding:"omitempty,max=200" example:"纺织城大街1号"`
	City         string             `json:"city" binding:"omitempty,max=50" example:"绍兴"`
	Province     string             `json:"province" binding:"omitempty,max=50" example:"浙江"`
	BankAccounts []BankAccountInput `json:"bank_accounts" binding:"omitempty,dive"`
}

// BankAccountInput 收款账户输入
type BankAccountInput struct {
	BankName      string `json:"bank_name" binding:"required,max=100" example:"中国工商银行"`
	AccountNumber string `json:"account_number" binding:"omitempty,max=50" example:"6222081234567890"`
	IBAN          string `json:"iban" binding:"omitempty,max=50" example:""`
}

// UpdateCustomerRequest HTTP更新客户请求（不含收款账户）
type UpdateCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50" example:"小芳"`
	LastName  string `json:"last_name" binding:"required,max=50" example:"王"`
	Phone     string `json:"phone" binding:"omitempty,max=20" example:"13800138000"`
	Address   string `json:"address" binding:"omitempty,max=200" example:"纺织城大街1号"`
	City      string `json:"city" binding:"omitempty,max=50" example:"绍兴"`
	Province  string `json:"province" binding:"omitempty,max=50" example:"浙江"`
}

// CustomerResponse HTTP客户响应
type CustomerResponse struct {
	ID           uint              `json:"id" example:"1"`
	FirstName    string            `json:"first_name" example:"小芳"`
	LastName     string            `json:"last_name" example:"王"`
	Phone        string            `json:"phone" example:"13800138000"`
	Address      string            `json:"address" example:"纺织城大街1号"`
	City         string            `json:"city" example:"绍兴"`
	Province     string            `json:"province" example:"浙江"`
	BankAccounts []BankAccountInfo `json:"bank_accounts"`
	CreatedAt    string            `json:"created_at" example:"2026-08-24 10:30:00"`
}

// BankAccountInfo 收款账户信息
type BankAccountInfo struct {
	ID            uint   `json:"id" example:"1"`
	BankName      string `json:"bank_name" example:"中国工商银行"`
	AccountNumber string `json:"account_number" example:"6222081234567890"`
	IBAN          string `json:"iban" example:""`
}

// ListCustomersRequest HTTP客户列表请求
type ListCustomersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"王"`
}
