package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/fabricshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CustomerModel{},
		&BankAccountModel{},
		&ProductModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&InventoryTransactionModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	Role      string    `gorm:"index;size:20;not null;comment:角色(admin/accountant/warehouse)"`
	IsActive  bool      `gorm:"default:true;comment:是否启用"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// CustomerModel GORM客户模型
type CustomerModel struct {
	ID           uint               `gorm:"primaryKey"`
	FirstName    string             `gorm:"index:idx_customer_name;size:50;not null;comment:名"`
	LastName     string             `gorm:"index:idx_customer_name;size:50;not null;comment:姓"`
	Phone        string             `gorm:"index;size:20;comment:电话"`
	Address      string             `gorm:"size:200;comment:地址"`
	City         string             `gorm:"size:50;comment:城市"`
	Province     string             `gorm:"size:50;comment:省份"`
	BankAccounts []BankAccountModel `gorm:"foreignKey:CustomerID"` // 一对多关联
	CreatedAt    time.Time          `gorm:"comment:创建时间"`
	UpdatedAt    time.Time          `gorm:"comment:更新时间"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// BankAccountModel GORM客户收款账户模型
type BankAccountModel struct {
	ID            uint   `gorm:"primaryKey"`
	CustomerID    uint   `gorm:"index;not null;comment:客户ID"`
	BankName      string `gorm:"size:100;not null;comment:银行名称"`
	AccountNumber string `gorm:"size:50;comment:账号"`
	IBAN          string `gorm:"size:50;comment:IBAN"`
}

func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ProductModel GORM产品模型
// 设计说明：
// 1. 数量使用decimal(12,3)：布料按米裁剪，3位小数足够
// 2. Colors/Series是变长列表，序列化为JSON存储
// 3. QuantityAvailable由CHECK约束兜底非负（应用层已保证）
type ProductModel struct {
	ID                uint      `gorm:"primaryKey"`
	Code              string    `gorm:"uniqueIndex;size:50;not null;comment:产品编码"`
	Name              string    `gorm:"index:idx_product_search;size:200;not null;comment:品名"`
	Category          string    `gorm:"index;size:50;comment:类别"`
	Unit              string    `gorm:"size:20;not null;comment:计量单位"`
	PiecesPerRoll     int       `gorm:"default:0;comment:每匹段数"`
	QuantityAvailable float64   `gorm:"type:decimal(12,3);not null;default:0;comment:可用库存量"`
	Colors            string    `gorm:"type:text;comment:颜色列表(JSON)"`
	Series            string    `gorm:"type:text;comment:色号系列(JSON)"`
	PartNumber        string    `gorm:"size:50;comment:货号"`
	ReorderLocation   string    `gorm:"size:100;comment:补货渠道"`
	PurchasePrice     int64     `gorm:"not null;comment:进价(最小货币单位)"`
	SalePrice         int64     `gorm:"not null;comment:售价(最小货币单位)"`
	ImageURL          string    `gorm:"size:500;comment:图片URL"`
	Description       string    `gorm:"type:text;comment:描述"`
	YearProduction    int       `gorm:"comment:生产年份"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

func (ProductModel) TableName() string {
	return "products"
}

// InvoiceModel GORM发票模型
// 设计说明：
// 1. 与InvoiceItemModel是一对多关系
// 2. InvoiceNo有唯一索引（业务主键）
// 3. Status使用tinyint存储，(id, status)上的条件UPDATE
//    实现乐观并发控制
// 4. 物流信息内嵌为可空列，shipped之前为NULL
type InvoiceModel struct {
	ID             uint               `gorm:"primaryKey"`
	InvoiceNo      string             `gorm:"uniqueIndex;size:32;not null;comment:发票编号"`
	CustomerID     uint               `gorm:"index;not null;comment:客户ID"`
	Status         int                `gorm:"index;type:tinyint;default:1;comment:状态(1待预留2待审核3已审核4已发货5已送达6已取消)"`
	PaymentType    string             `gorm:"index;size:20;not null;comment:结算方式"`
	CashAmount     int64              `gorm:"default:0;comment:现金金额(分)"`
	ChequeAmount   int64              `gorm:"default:0;comment:支票金额(分)"`
	TransferAmount int64              `gorm:"default:0;comment:转账金额(分)"`
	TotalAmount    int64              `gorm:"not null;comment:发票总额(分)"`
	Carrier        string             `gorm:"size:100;comment:承运方"`
	TrackingCode   string             `gorm:"size:100;comment:运单号"`
	ShippedAt      *time.Time         `gorm:"comment:发货日期"`
	PackageCount   int                `gorm:"default:0;comment:件数"`
	CreatedBy      uint               `gorm:"index;not null;comment:创建人ID"`
	Items          []InvoiceItemModel `gorm:"foreignKey:InvoiceID"` // 一对多关联
	CreatedAt      time.Time          `gorm:"index;comment:创建时间"`
	UpdatedAt      time.Time          `gorm:"comment:更新时间"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel GORM发票明细模型
// 记录成交时的单价快照，创建后不再修改
type InvoiceItemModel struct {
	ID        uint    `gorm:"primaryKey"`
	InvoiceID uint    `gorm:"index;not null;comment:发票ID"`
	ProductID uint    `gorm:"index;not null;comment:产品ID"`
	Quantity  float64 `gorm:"type:decimal(12,3);not null;comment:数量"`
	Unit      string  `gorm:"size:20;comment:计量单位快照"`
	UnitPrice int64   `gorm:"not null;comment:成交单价(分)"`
}

func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// InventoryTransactionModel GORM库存台账模型
// 只追加：没有任何UPDATE/DELETE路径触及此表
type InventoryTransactionModel struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"index:idx_ledger_product;not null;comment:产品ID"`
	InvoiceID uint      `gorm:"index:idx_ledger_invoice;comment:关联发票ID(0表示无关联)"`
	Kind      string    `gorm:"index;size:20;not null;comment:变动类型"`
	Delta     float64   `gorm:"type:decimal(12,3);not null;comment:变动量"`
	Note      string    `gorm:"size:200;comment:备注"`
	CreatedBy uint      `gorm:"comment:操作人ID"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}
