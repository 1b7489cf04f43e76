package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/pizzaria/internal/observability/context"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
)

// bindOrderID tags the request context with the :id path param so every
// log line of the request carries it.
func bindOrderID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	tagOrder(c, id)
	return id
}

func tagOrder(c *gin.Context, id string) {
	if id == "" {
		return
	}
	c.Request = c.Request.WithContext(obscontext.WithOrderID(c.Request.Context(), id))
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tagOrder(c, result.Order.ID)

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) ListOrders(c *gin.Context) {
	orders, err := s.orderSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if userID := strings.TrimSpace(c.Query("userId")); userID != "" {
		filtered := make([]orderdomain.Order, 0, len(orders))
		for _, o := range orders {
			if o.UserID == userID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	order, err := s.orderSvc.Get(c.Request.Context(), bindOrderID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req orderdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.UpdateStatus(c.Request.Context(), bindOrderID(c), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}
