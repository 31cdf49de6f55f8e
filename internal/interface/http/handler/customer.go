package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/xiebiao/fabricshop/internal/application/customer"
	"github.com/xiebiao/fabricshop/internal/domain/customer"
	"github.com/xiebiao/fabricshop/internal/interface/http/dto"
	"github.com/xiebiao/fabricshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/response"
)

// CustomerHandler 客户HTTP处理器
type CustomerHandler struct {
	manageUseCase *appcustomer.ManageCustomerUseCase
}

// NewCustomerHandler 创建客户处理器
func NewCustomerHandler(manageUseCase *appcustomer.ManageCustomerUseCase) *CustomerHandler {
	return &CustomerHandler{manageUseCase: manageUseCase}
}

// Create 创建客户
// @Summary      创建客户
// @Description  创建新客户及其收款账户（admin/accountant）
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCustomerRequest true "客户信息"
// @Success      200 {object} response.Response{data=dto.CustomerResponse} "创建成功"
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	accounts := make([]appcustomer.BankAccountInput, len(req.BankAccounts))
	for i, a := range req.BankAccounts {
		accounts[i] = appcustomer.BankAccountInput{
			BankName:      a.BankName,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
		}
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), appcustomer.CreateRequest{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Province:     req.Province,
		BankAccounts: accounts,
		OperatorRole: middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCustomerResponse(result))
}

// Update 更新客户资料
// @Summary      更新客户资料
// @Description  更新客户基本信息（admin/accountant），收款账户不在此接口修改
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Param        request body dto.UpdateCustomerRequest true "客户信息"
// @Success      200 {object} response.Response{data=dto.CustomerResponse} "更新成功"
// @Failure      200 {object} response.Response "客户不存在"
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), appcustomer.UpdateRequest{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Province:     req.Province,
		OperatorRole: middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCustomerResponse(result))
}

// Get 查询客户详情
// @Summary      查询客户详情（含收款账户）
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "客户ID"
// @Success      200 {object} response.Response{data=dto.CustomerResponse} "查询成功"
// @Failure      200 {object} response.Response "客户不存在"
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCustomerResponse(result))
}

// List 查询客户列表
// @Summary      查询客户列表
// @Description  分页查询，支持按姓名/电话关键词搜索
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Param        keyword query string false "关键词"
// @Success      200 {object} response.Response{data=response.PageData} "查询成功"
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	customers, total, err := h.manageUseCase.List(c.Request.Context(), customer.ListParams{
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.CustomerResponse, len(customers))
	for i, cu := range customers {
		list[i] = toCustomerResponse(cu)
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

// toCustomerResponse 领域实体 → HTTP响应
func toCustomerResponse(cu *customer.Customer) *dto.CustomerResponse {
	accounts := make([]dto.BankAccountInfo, len(cu.BankAccounts))
	for i, a := range cu.BankAccounts {
		accounts[i] = dto.BankAccountInfo{
			ID:            a.ID,
			BankName:      a.BankName,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
		}
	}

	return &dto.CustomerResponse{
		ID:           cu.ID,
		FirstName:    cu.FirstName,
		LastName:     cu.LastName,
		Phone:        cu.Phone,
		Address:      cu.Address,
		City:         cu.City,
		Province:     cu.Province,
		BankAccounts: accounts,
		CreatedAt:    cu.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
