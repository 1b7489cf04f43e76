package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
)

// ListPizzas returns the menu with stock availability folded in.
func (s *Server) ListPizzas(c *gin.Context) {
	ctx := c.Request.Context()
	pizzas, err := s.menuSvc.ListPizzas(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.availability.Project(ctx, pizzas)})
}

func (s *Server) ListComplements(c *gin.Context) {
	complements, err := s.menuSvc.ListComplements(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": complements})
}

func (s *Server) CreatePizza(c *gin.Context) {
	var req menudomain.PizzaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pizza, err := s.menuSvc.CreatePizza(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": pizza})
}

func (s *Server) ReplacePizza(c *gin.Context) {
	var req menudomain.PizzaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pizza, err := s.menuSvc.ReplacePizza(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pizza})
}

func (s *Server) DeletePizza(c *gin.Context) {
	if err := s.menuSvc.DeletePizza(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateComplement(c *gin.Context) {
	var req menudomain.ComplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	complement, err := s.menuSvc.CreateComplement(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": complement})
}

func (s *Server) ReplaceComplement(c *gin.Context) {
	var req menudomain.ComplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	complement, err := s.menuSvc.ReplaceComplement(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": complement})
}

func (s *Server) DeleteComplement(c *gin.Context) {
	if err := s.menuSvc.DeleteComplement(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
