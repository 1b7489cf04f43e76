package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	stockledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"github.com/smallbiznis/pizzaria/pkg/db/pagination"
)

func (s *Server) ListStockAdjustments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		OrderID string `form:"order_id"`
		Status  string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.List(c.Request.Context(), stockledgerdomain.ListRequest{
		Pagination: query.Pagination,
		OrderID:    strings.TrimSpace(query.OrderID),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Adjustments,
		"page_info": resp.PageInfo,
	})
}
