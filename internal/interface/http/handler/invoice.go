package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appinvoice "github.com/xiebiao/fabricshop/internal/application/invoice"
	"github.com/xiebiao/fabricshop/internal/domain/inventory"
	"github.com/xiebiao/fabricshop/internal/domain/invoice"
	"github.com/xiebiao/fabricshop/internal/interface/http/dto"
	"github.com/xiebiao/fabricshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/response"
)

// InvoiceHandler 发票HTTP处理器
// 每个转移动作一个端点，端点只做绑定与转换，
// 权限门和状态机判定全部在应用层/领域层
type InvoiceHandler struct {
	createUC  *appinvoice.CreateInvoiceUseCase
	reserveUC *appinvoice.ReserveInvoiceUseCase
	approveUC *appinvoice.ApproveInvoiceUseCase
	shipUC    *appinvoice.ShipInvoiceUseCase
	deliverUC *appinvoice.DeliverInvoiceUseCase
	cancelUC  *appinvoice.CancelInvoiceUseCase
	queryUC   *appinvoice.QueryInvoicesUseCase
}

// NewInvoiceHandler 创建发票处理器
func NewInvoiceHandler(
	createUC *appinvoice.CreateInvoiceUseCase,
	reserveUC *appinvoice.ReserveInvoiceUseCase,
	approveUC *appinvoice.ApproveInvoiceUseCase,
	shipUC *appinvoice.ShipInvoiceUseCase,
	deliverUC *appinvoice.DeliverInvoiceUseCase,
	cancelUC *appinvoice.CancelInvoiceUseCase,
	queryUC *appinvoice.QueryInvoicesUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{
		createUC:  createUC,
		reserveUC: reserveUC,
		approveUC: approveUC,
		shipUC:    shipUC,
		deliverUC: deliverUC,
		cancelUC:  cancelUC,
		queryUC:   queryUC,
	}
}

// Create 创建发票
// @Summary      创建发票
// @Description  创建新发票（admin/accountant），初始状态为待仓库预留，不触碰库存
// @Tags         发票模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateInvoiceRequest true "发票信息"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "创建成功"
// @Failure      200 {object} response.Response "参数错误/无权限/客户不存在"
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	items := make([]appinvoice.CreateInvoiceItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = appinvoice.CreateInvoiceItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
	}

	result, err := h.createUC.Execute(c.Request.Context(), appinvoice.CreateInvoiceRequest{
		CustomerID:  req.CustomerID,
		PaymentType: invoice.PaymentType(req.PaymentType),
		Breakdown: invoice.PaymentBreakdown{
			CashAmount:     req.CashAmount,
			ChequeAmount:   req.ChequeAmount,
			TransferAmount: req.TransferAmount,
		},
		Items:       items,
		CreatorID:   middleware.MustGetUserID(c),
		CreatorRole: middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Reserve 预留库存
// @Summary      预留库存
// @Description  仓库确认发票并预留全部明细的库存（warehouse/admin）。全有或全无：任一明细不足则整单失败并列出所有缺口
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "预留成功，发票进入待财务审核"
// @Failure      200 {object} response.Response{data=[]dto.ShortageInfo} "库存不足（data为缺口列表）"
// @Router       /invoices/{id}/reserve [post]
func (h *InvoiceHandler) Reserve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.reserveUC.Execute(c.Request.Context(), id,
		middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		// 库存不足时携带每个产品的缺口明细
		var insufficient *inventory.InsufficientStockError
		if errors.As(err, &insufficient) {
			shortages := make([]dto.ShortageInfo, len(insufficient.Shortages))
			for i, s := range insufficient.Shortages {
				shortages[i] = dto.ShortageInfo{
					ProductID: s.ProductID,
					Code:      s.Code,
					Name:      s.Name,
					Requested: s.Requested,
					Available: s.Available,
				}
			}
			response.ErrorWithData(c, err, shortages)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Approve 财务审核
// @Summary      财务审核
// @Description  财务审核已预留的发票（accountant/admin），无库存副作用
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "审核通过"
// @Router       /invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.approveUC.Execute(c.Request.Context(), id,
		middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Ship 发货
// @Summary      发货
// @Description  仓库发货（warehouse/admin），记录物流信息并写ship_mark审计台账，库存中性
// @Tags         发票模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Param        request body dto.ShipInvoiceRequest true "物流信息"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "发货成功"
// @Failure      200 {object} response.Response "物流信息不完整"
// @Router       /invoices/{id}/ship [post]
func (h *InvoiceHandler) Ship(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ShipInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	shippedAt, err := time.Parse("2006-01-02", req.ShippedAt)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeValidation, "发货日期格式应为yyyy-MM-dd")
		return
	}

	tracking := &invoice.TrackingInfo{
		Carrier:      req.Carrier,
		TrackingCode: req.TrackingCode,
		ShippedAt:    &shippedAt,
		PackageCount: req.PackageCount,
	}

	result, err := h.shipUC.Execute(c.Request.Context(), id, tracking,
		middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Deliver 确认送达
// @Summary      确认送达
// @Description  仓库确认货物送达（warehouse/admin），发票进入终态
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "确认成功"
// @Router       /invoices/{id}/deliver [post]
func (h *InvoiceHandler) Deliver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.deliverUC.Execute(c.Request.Context(), id,
		middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Cancel 取消发票
// @Summary      取消发票
// @Description  取消发票（admin/accountant）。已预留的库存按台账净值精确归还；发货后不可取消
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "取消成功"
// @Failure      200 {object} response.Response "当前状态不允许取消"
// @Router       /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), id,
		middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// Get 查询发票详情
// @Summary      查询发票详情
// @Description  返回完整聚合：明细（含产品）、客户（含收款账户）、创建人、物流信息
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "发票ID"
// @Success      200 {object} response.Response{data=dto.InvoiceResponse} "查询成功"
// @Failure      200 {object} response.Response "发票不存在"
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.queryUC.Get(c.Request.Context(), id, middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toInvoiceResponse(result))
}

// List 查询发票列表
// @Summary      查询发票列表
// @Description  分页查询，支持按状态/客户/创建人/结算方式/日期过滤；仓库角色只能看到其可操作状态的发票
// @Tags         发票模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Param        status query int false "状态过滤(1-6)"
// @Param        customer_id query int false "客户过滤"
// @Param        payment_type query string false "结算方式过滤"
// @Success      200 {object} response.Response{data=response.PageData} "查询成功"
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeValidation, "日期格式应为yyyy-MM-dd")
		return
	}

	invoices, total, err := h.queryUC.List(c.Request.Context(), appinvoice.ListRequest{
		Status:      invoice.Status(req.Status),
		CustomerID:  req.CustomerID,
		CreatedBy:   req.CreatedBy,
		PaymentType: invoice.PaymentType(req.PaymentType),
		From:        from,
		To:          to,
		Page:        req.Page,
		PageSize:    req.PageSize,
		Role:        middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		list[i] = toInvoiceResponse(inv)
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

// =========================================
// 辅助函数
// =========================================

// parseID 解析路径中的发票ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parseDateRange 解析yyyy-MM-dd日期区间（to取当天末尾）
func parseDateRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	return
}

// toInvoiceResponse 领域聚合 → HTTP响应
func toInvoiceResponse(inv *invoice.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemInfo, len(inv.Items))
	for i := range inv.Items {
		it := &inv.Items[i]
		info := dto.InvoiceItemInfo{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		}
		if it.Product != nil {
			info.ProductCode = it.Product.Code
			info.ProductName = it.Product.Name
		}
		items[i] = info
	}

	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNo:      inv.InvoiceNo,
		Status:         inv.Status.String(),
		PaymentType:    string(inv.PaymentType),
		CashAmount:     inv.Breakdown.CashAmount,
		ChequeAmount:   inv.Breakdown.ChequeAmount,
		TransferAmount: inv.Breakdown.TransferAmount,
		TotalAmount:    inv.TotalAmount,
		Items:          items,
		CreatedAt:      inv.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      inv.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if inv.Customer != nil {
		accounts := make([]dto.BankAccountInfo, len(inv.Customer.BankAccounts))
		for i, a := range inv.Customer.BankAccounts {
			accounts[i] = dto.BankAccountInfo{
				ID:            a.ID,
				BankName:      a.BankName,
				AccountNumber: a.AccountNumber,
				IBAN:          a.IBAN,
			}
		}
		resp.Customer = &dto.CustomerResponse{
			ID:           inv.Customer.ID,
			FirstName:    inv.Customer.FirstName,
			LastName:     inv.Customer.LastName,
			Phone:        inv.Customer.Phone,
			Address:      inv.Customer.Address,
			City:         inv.Customer.City,
			Province:     inv.Customer.Province,
			BankAccounts: accounts,
			CreatedAt:    inv.Customer.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	if inv.Creator != nil {
		resp.Creator = &dto.UserInfo{
			ID:    inv.Creator.ID,
			Email: inv.Creator.Email,
			Name:  inv.Creator.Name,
			Role:  string(inv.Creator.Role),
		}
	}

	if inv.Tracking != nil {
		t := &dto.TrackingInfoOutput{
			Carrier:      inv.Tracking.Carrier,
			TrackingCode: inv.Tracking.TrackingCode,
			PackageCount: inv.Tracking.PackageCount,
		}
		if inv.Tracking.ShippedAt != nil {
			t.ShippedAt = inv.Tracking.ShippedAt.Format("2006-01-02")
		}
		resp.Tracking = t
	}

	return resp
}
