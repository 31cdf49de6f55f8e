package customer

import (
	"time"
)

// Customer 客户实体（聚合根）
// 设计说明：
// 1. BankAccount是聚合内的子实体，必须通过Customer访问
// 2. 发票查询时客户（含收款账户）随聚合一并返回，调用方无需二次查询
type Customer struct {
	ID           uint
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	City         string
	Province     string
	BankAccounts []BankAccount // 收款账户（支票/转账结算时使用）
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BankAccount 客户收款账户
type BankAccount struct {
	ID            uint
	CustomerID    uint
	BankName      string
	AccountNumber string
	IBAN          string
}

// NewCustomer 创建新客户（工厂方法）
func NewCustomer(firstName, lastName, phone, address, city, province string, accounts []BankAccount) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Address:      address,
		City:         city,
		Province:     province,
		BankAccounts: accounts,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FullName 客户全名
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
