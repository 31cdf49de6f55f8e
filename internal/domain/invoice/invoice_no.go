package invoice

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateInvoiceNo 生成发票编号
// 格式:INV + 日期(yyyyMMdd) + 6位随机数
// 示例:INV20260824123456
// 日期前缀便于按天对账，随机后缀防止编号被恶意遍历;
// 唯一性最终由数据库唯一索引兜底
func GenerateInvoiceNo() string {
	date := time.Now().Format("20060102")
	random := rand.Intn(1000000)
	return fmt.Sprintf("INV%s%06d", date, random)
}
