package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadscout/report-service/internal/domain"
)

func (s *Server) listReports(c *gin.Context) {
	area := c.DefaultQuery("area", domain.FacetAll)
	category := c.DefaultQuery("category", domain.FacetAll)
	order := domain.SortOrder(c.DefaultQuery("sort", string(domain.SortDescending)))

	if order != domain.SortAscending && order != domain.SortDescending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be ascending or descending"})
		return
	}

	all := s.deps.Reports.Snapshot()
	filtered := domain.FilterSort(all, area, category, order)

	c.JSON(http.StatusOK, gin.H{
		"reports":    filtered,
		"count":      len(filtered),
		"areas":      domain.AreaOptions(all),
		"categories": domain.CategoryOptions(all),
	})
}

func (s *Server) refreshReports(c *gin.Context) {
	reports, err := s.deps.Store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.deps.Reports.ReplaceAll(reports)
	s.deps.Metrics.ReportsInMemory.Set(float64(s.deps.Reports.Len()))
	s.deps.Logger.Info("report list refreshed", "count", len(reports))
	c.JSON(http.StatusOK, gin.H{"count": len(reports)})
}

// toggleReport flips the report's resolution state, remote first. The local
// copy is only patched once the store acknowledges the update.
func (s *Server) toggleReport(c *gin.Context) {
	id := c.Param("id")
	current, ok := s.deps.Reports.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	next := current.State.Toggle()
	if err := s.deps.Store.Update(c.Request.Context(), id, map[string]any{
		"state": string(next),
	}); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.deps.Reports.Patch(id, func(r *domain.Report) { r.State = next })
	c.JSON(http.StatusOK, gin.H{"_id": id, "state": next})
}

func (s *Server) deleteReport(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.deps.Reports.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	if err := s.deps.Store.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.deps.Reports.Remove(id)
	s.deps.Metrics.ReportsInMemory.Set(float64(s.deps.Reports.Len()))
	s.deps.Logger.Info("report deleted", "id", id)
	c.Status(http.StatusNoContent)
}
