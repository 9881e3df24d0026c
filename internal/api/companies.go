package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/company"
)

type createCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	ManagedBy string `json:"managedBy" binding:"required"`
}

func (a *API) createCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	cp, err := a.companies.Create(c.Request.Context(), company.CreateRequest{
		Name:      req.Name,
		ManagedBy: req.ManagedBy,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, cp)
}

func (a *API) listCompanies(c *gin.Context) {
	companies, err := a.companies.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

func (a *API) getCompany(c *gin.Context) {
	cp, err := a.companies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, cp)
}

type updateCompanyRequest struct {
	Name      string `json:"name"`
	ManagedBy string `json:"managedBy"`
}

func (a *API) updateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	cp, err := a.companies.Update(c.Request.Context(), company.UpdateRequest{
		CompanyID: c.Param("id"),
		Name:      req.Name,
		ManagedBy: req.ManagedBy,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, cp)
}

func (a *API) deleteCompany(c *gin.Context) {
	if err := a.companies.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
