package inventory

import (
	"time"
)

// Kind 台账变动类型
type Kind string

const (
	// KindReserve 预留：发票进入预留环节时扣减库存（Delta<0）
	KindReserve Kind = "reserve"
	// KindRelease 释放：已预留发票取消时归还库存（Delta>0）
	KindRelease Kind = "release"
	// KindShipMark 发货标记：记录货物离库事件，不改变库存（Delta=0）
	KindShipMark Kind = "ship_mark"
	// KindRestock 进货入库（Delta>0）
	KindRestock Kind = "restock"
	// KindAdjust 盘点调整（Delta可正可负）
	KindAdjust Kind = "adjust"
)

// Valid 校验变动类型取值
func (k Kind) Valid() bool {
	switch k {
	case KindReserve, KindRelease, KindShipMark, KindRestock, KindAdjust:
		return true
	}
	return false
}

// Transaction 库存台账记录（只追加，不修改不删除）
// 设计说明：
// 1. 台账是库存变动的唯一事实来源：产品的QuantityAvailable
//    是台账变动量的派生计数器，两者必须在同一事务内同步修改
// 2. InvoiceID关联触发变动的发票（进货/盘点时为0）
// 3. 取消发票是否归还库存，由该发票reserve与release的净值决定，
//    而不是由发票状态推断（状态会变，台账不会说谎）
type Transaction struct {
	ID        uint
	ProductID uint
	InvoiceID uint    // 关联发票（0表示与发票无关的变动）
	Kind      Kind    // 变动类型
	Delta     float64 // 变动量（正为入库，负为出库）
	Note      string  // 备注（盘点原因、进货批次等）
	CreatedBy uint    // 操作人
	CreatedAt time.Time
}

// NewTransaction 创建台账记录（工厂方法）
func NewTransaction(productID, invoiceID uint, kind Kind, delta float64, note string, createdBy uint) *Transaction {
	return &Transaction{
		ProductID: productID,
		InvoiceID: invoiceID,
		Kind:      kind,
		Delta:     delta,
		Note:      note,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
}

// Validate 台账记录校验
// 业务规则：各类型的变动量符号固定，防止写入自相矛盾的台账
func (t *Transaction) Validate() error {
	if t.ProductID == 0 {
		return ErrInvalidTransaction
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	switch t.Kind {
	case KindReserve:
		if t.Delta >= 0 {
			return ErrInvalidDelta
		}
	case KindRelease, KindRestock:
		if t.Delta <= 0 {
			return ErrInvalidDelta
		}
	case KindShipMark:
		if t.Delta != 0 {
			return ErrInvalidDelta
		}
	case KindAdjust:
		if t.Delta == 0 {
			return ErrInvalidDelta
		}
	}
	return nil
}
