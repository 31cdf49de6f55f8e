package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/fabricshop/internal/application/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/interface/http/dto"
	"github.com/xiebiao/fabricshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/response"
)

// InventoryHandler 库存台账HTTP处理器
type InventoryHandler struct {
	recordUseCase   *appinventory.RecordTransactionUseCase
	listUseCase     *appinventory.ListTransactionsUseCase
	quantityUseCase *appinventory.ProductQuantityUseCase
}

// NewInventoryHandler 创建台账处理器
func NewInventoryHandler(
	recordUseCase *appinventory.RecordTransactionUseCase,
	listUseCase *appinventory.ListTransactionsUseCase,
	quantityUseCase *appinventory.ProductQuantityUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		recordUseCase:   recordUseCase,
		listUseCase:     listUseCase,
		quantityUseCase: quantityUseCase,
	}
}

// Record 手工台账（进货/盘点）
// @Summary      进货入库或盘点调整
// @Description  写入restock/adjust台账并同步库存计数器（admin/warehouse）。调减不能使库存为负
// @Tags         库存模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RecordTransactionRequest true "台账信息"
// @Success      200 {object} response.Response{data=dto.TransactionResponse} "记录成功"
// @Failure      200 {object} response.Response "变动量非法/库存不足"
// @Router       /inventory/transactions [post]
func (h *InventoryHandler) Record(c *gin.Context) {
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.recordUseCase.Execute(c.Request.Context(), appinventory.RecordRequest{
		ProductID:    req.ProductID,
		Kind:         inventory.Kind(req.Kind),
		Delta:        req.Delta,
		Note:         req.Note,
		OperatorID:   middleware.MustGetUserID(c),
		OperatorRole: middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toTransactionResponse(result))
}

// List 查询台账
// @Summary      查询库存台账
// @Description  分页查询，支持按产品/发票/类型/时间段过滤，用于审计追溯
// @Tags         库存模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Param        product_id query int false "产品过滤"
// @Param        invoice_id query int false "发票过滤"
// @Param        kind query string false "类型过滤"
// @Success      200 {object} response.Response{data=response.PageData} "查询成功"
// @Router       /inventory/transactions [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeValidation, "日期格式应为yyyy-MM-dd")
		return
	}

	items, total, err := h.listUseCase.Execute(c.Request.Context(), appinventory.ListRequest{
		ProductID: req.ProductID,
		InvoiceID: req.InvoiceID,
		Kind:      inventory.Kind(req.Kind),
		From:      from,
		To:        to,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.TransactionResponse, len(items))
	for i, t := range items {
		list[i] = toTransactionResponse(t)
	}

	page, pageSize := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	response.SuccessWithPage(c, list, total, page, pageSize)
}

// Quantity 产品库存视图
// @Summary      查询产品库存视图
// @Description  可用量+预留量=在库总量（已发货的不再计入预留）
// @Tags         库存模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "产品ID"
// @Success      200 {object} response.Response{data=dto.QuantityResponse} "查询成功"
// @Failure      200 {object} response.Response "产品不存在"
// @Router       /inventory/products/{id}/quantity [get]
func (h *InventoryHandler) Quantity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.quantityUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.QuantityResponse{
		ProductID: view.ProductID,
		Code:      view.Code,
		Name:      view.Name,
		Unit:      view.Unit,
		Available: view.Available,
		Reserved:  view.Reserved,
		Total:     view.Total,
	})
}

// toTransactionResponse 台账记录 → HTTP响应
func toTransactionResponse(t *inventory.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:        t.ID,
		ProductID: t.ProductID,
		InvoiceID: t.InvoiceID,
		Kind:      string(t.Kind),
		Delta:     t.Delta,
		Note:      t.Note,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
