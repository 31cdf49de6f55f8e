package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/fabricshop/internal/application/product"
	"github.com/xiebiao/fabricshop/internal/domain/product"
	"github.com/xiebiao/fabricshop/internal/interface/http/dto"
	"github.com/xiebiao/fabricshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/fabricshop/pkg/errors"
	"github.com/xiebiao/fabricshop/pkg/response"
)

// ProductHandler 产品HTTP处理器
type ProductHandler struct {
	manageUseCase *appproduct.ManageProductUseCase
}

// NewProductHandler 创建产品处理器
func NewProductHandler(manageUseCase *appproduct.ManageProductUseCase) *ProductHandler {
	return &ProductHandler{manageUseCase: manageUseCase}
}

// Create 创建产品
// @Summary      创建产品
// @Description  创建新产品（admin/warehouse），初始库存作为基线，后续变动走台账
// @Tags         产品模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "产品信息"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "创建成功"
// @Failure      200 {object} response.Response "参数错误/编码重复/颜色色号数量不一致"
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), appproduct.CreateRequest{
		Code:            req.Code,
		Name:            req.Name,
		Category:        req.Category,
		Unit:            req.Unit,
		PiecesPerRoll:   req.PiecesPerRoll,
		InitialQuantity: req.InitialQuantity,
		Colors:          req.Colors,
		Series:          req.Series,
		PartNumber:      req.PartNumber,
		ReorderLocation: req.ReorderLocation,
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		YearProduction:  req.YearProduction,
		OperatorRole:    middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductResponse(result))
}

// Update 更新产品
// @Summary      更新产品
// @Description  更新产品信息（admin/warehouse），不含库存量
// @Tags         产品模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "产品ID"
// @Param        request body dto.UpdateProductRequest true "产品信息"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "更新成功"
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), appproduct.UpdateRequest{
		ID:              id,
		Name:            req.Name,
		Category:        req.Category,
		Unit:            req.Unit,
		PiecesPerRoll:   req.PiecesPerRoll,
		Colors:          req.Colors,
		Series:          req.Series,
		PartNumber:      req.PartNumber,
		ReorderLocation: req.ReorderLocation,
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		YearProduction:  req.YearProduction,
		OperatorRole:    middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductResponse(result))
}

// Get 查询产品详情
// @Summary      查询产品详情
// @Tags         产品模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "产品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse} "查询成功"
// @Failure      200 {object} response.Response "产品不存在"
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductResponse(result))
}

// List 查询产品列表
// @Summary      查询产品列表
// @Description  分页查询，支持按编码/品名关键词和类别过滤
// @Tags         产品模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Param        keyword query string false "关键词"
// @Param        category query string false "类别"
// @Success      200 {object} response.Response{data=response.PageData} "查询成功"
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	products, total, err := h.manageUseCase.List(c.Request.Context(), product.ListParams{
		Keyword:  req.Keyword,
		Category: req.Category,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		list[i] = toProductResponse(p)
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

// toProductResponse 领域实体 → HTTP响应
func toProductResponse(p *product.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Category:          p.Category,
		Unit:              p.Unit,
		PiecesPerRoll:     p.PiecesPerRoll,
		QuantityAvailable: p.QuantityAvailable,
		Colors:            p.Colors,
		Series:            p.Series,
		PartNumber:        p.PartNumber,
		ReorderLocation:   p.ReorderLocation,
		PurchasePrice:     p.PurchasePrice,
		SalePrice:         p.SalePrice,
		ImageURL:          p.ImageURL,
		Description:       p.Description,
		YearProduction:    p.YearProduction,
		CreatedAt:         p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
