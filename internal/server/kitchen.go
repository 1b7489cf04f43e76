package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
)

func (s *Server) ListIngredients(c *gin.Context) {
	items, err := s.ingredientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) UpdateIngredientStock(c *gin.Context) {
	var req ingredientdomain.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.ingredientSvc.UpdateStock(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListMachines(c *gin.Context) {
	machines, err := s.machineSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": machines})
}

func (s *Server) UpdateMachine(c *gin.Context) {
	var req machinedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	machine, err := s.machineSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": machine})
}

// RunMaintenanceSweep runs the sweep on demand, the same job the scheduler
// runs periodically.
func (s *Server) RunMaintenanceSweep(c *gin.Context) {
	result, err := s.maintenanceSvc.RunSweep(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
