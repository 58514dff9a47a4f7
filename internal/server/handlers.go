package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
)

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	cat := s.cfg.Catalog.Snapshot()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"materials":  cat.Len(),
		"source":     cat.Source(),
		"loaded_at":  cat.LoadedAt().UTC().Format(time.RFC3339),
		"generation": s.cfg.Catalog.Generation(),
	})
}

// MaterialsResponse is the body of GET /v1/materials
type MaterialsResponse struct {
	Total     int               `json:"total"`
	Of        int               `json:"of"`
	Today     string            `json:"today"`
	Query     string            `json:"query,omitempty"`
	Facets    domain.Facets     `json:"facets"`
	Materials []domain.Material `json:"materials"`
}

// handleMaterials filters the catalog.
// Facets may be repeated (?color=Gray&color=White) or comma separated.
func (s *Server) handleMaterials(c *gin.Context) {
	today, err := s.today(c)
	if err != nil {
		handleError(c, err)
		return
	}

	validOnly := s.cfg.ValidOnlyDefault
	if v := c.Query("valid_only"); v != "" {
		validOnly, err = strconv.ParseBool(v)
		if err != nil {
			handleError(c, NewAppError(http.StatusBadRequest, "Invalid valid_only value", err))
			return
		}
	}

	facets := domain.Facets{
		Colors:         queryList(c, "color"),
		Manufacturers:  queryList(c, "manufacturer"),
		Certifications: queryList(c, "cert"),
		ValidOnly:      validOnly,
	}
	query := c.Query("q")

	resp, err := s.filter.Execute(c.Request.Context(), services.FilterRequest{
		Query:  query,
		Facets: facets,
		Today:  today,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MaterialsResponse{
		Total:     resp.Total,
		Of:        resp.Of,
		Today:     resp.Today.Format(domain.DateLayout),
		Query:     query,
		Facets:    facets,
		Materials: resp.Materials,
	})
}

func (s *Server) handleMaterial(c *gin.Context) {
	cat := s.cfg.Catalog.Snapshot()
	if cat == nil {
		handleError(c, domain.ErrCatalogNotLoaded)
		return
	}
	product := c.Param("product")
	m, ok := cat.Find(product)
	if !ok {
		handleError(c, fmt.Errorf("%w: material %q", ErrNotFound, product))
		return
	}

	today, err := s.today(c)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"material": m,
		"valid":    m.IsValidOn(today),
	})
}

func (s *Server) handleManufacturers(c *gin.Context) {
	cat := s.cfg.Catalog.Snapshot()
	if cat == nil {
		handleError(c, domain.ErrCatalogNotLoaded)
		return
	}
	list := services.Manufacturers(cat, s.cfg.Websites)
	c.JSON(http.StatusOK, gin.H{"total": len(list), "manufacturers": list})
}

func (s *Server) handleCertifications(c *gin.Context) {
	resp, err := s.filter.Certifications(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	links := resp.Links
	if links == nil {
		links = []domain.CertificationLink{}
	}
	c.JSON(http.StatusOK, gin.H{"total": resp.Total, "certifications": links})
}

func (s *Server) handleFacets(c *gin.Context) {
	cat := s.cfg.Catalog.Snapshot()
	if cat == nil {
		handleError(c, domain.ErrCatalogNotLoaded)
		return
	}
	c.JSON(http.StatusOK, services.FacetOptionsOf(cat))
}

func (s *Server) handleStats(c *gin.Context) {
	cat := s.cfg.Catalog.Snapshot()
	if cat == nil {
		handleError(c, domain.ErrCatalogNotLoaded)
		return
	}
	today, err := s.today(c)
	if err != nil {
		handleError(c, err)
		return
	}
	days := s.cfg.HorizonDays
	if v := c.Query("horizon_days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 0 {
			handleError(c, NewAppError(http.StatusBadRequest, "Invalid horizon_days value", err))
			return
		}
	}
	c.JSON(http.StatusOK, services.ComputeStats(cat, today, time.Duration(days)*24*time.Hour))
}

// submissionBody is the JSON accepted by the request and contact endpoints
type submissionBody struct {
	Product        string `json:"product"`
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Message        string `json:"message"`
}

func (s *Server) handleRequest(c *gin.Context) {
	s.submit(c, domain.KindCertificationRequest)
}

func (s *Server) handleContact(c *gin.Context) {
	s.submit(c, domain.KindContact)
}

func (s *Server) submit(c *gin.Context, kind domain.SubmissionKind) {
	if s.cfg.Requests == nil {
		handleError(c, NewAppError(http.StatusServiceUnavailable, "Submissions are disabled", nil))
		return
	}

	var body submissionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	sub := domain.Submission{
		Kind:           kind,
		Product:        body.Product,
		RequesterName:  body.RequesterName,
		RequesterEmail: body.RequesterEmail,
		Message:        body.Message,
	}
	if kind == domain.KindContact {
		sub.Product = ""
	}

	prepared, err := s.cfg.Requests.Prepare(sub)
	if err == nil {
		var results <-chan services.SubmitResult
		results, err = s.cfg.Requests.Submit(c.Request.Context(), prepared)
		if err == nil {
			s.awaitSubmission(c, results, prepared.ID)
			return
		}
	}
	if appErr := MapError(err); appErr.Code == http.StatusInternalServerError {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	handleError(c, err)
}

// awaitSubmission answers 202 right away. With ?wait=true it waits
// for delivery and reports transport failures as 502.
func (s *Server) awaitSubmission(c *gin.Context, results <-chan services.SubmitResult, id string) {
	wait, _ := strconv.ParseBool(c.Query("wait"))
	if !wait {
		go func() {
			res := <-results
			s.metrics.ObserveSubmission(res.Submission.Kind, res.Err)
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "id": id, "channel": s.cfg.Requests.Channel()})
		return
	}

	select {
	case res := <-results:
		s.metrics.ObserveSubmission(res.Submission.Kind, res.Err)
		if res.Err != nil {
			handleError(c, res.Err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "delivered",
			"id":      res.Submission.ID,
			"channel": res.Channel,
		})
	case <-c.Request.Context().Done():
		handleError(c, NewAppError(http.StatusGatewayTimeout, "Client went away", c.Request.Context().Err()))
	}
}

func (s *Server) today(c *gin.Context) (time.Time, error) {
	v := c.Query("today")
	if v == "" {
		return domain.DateOf(s.cfg.Today()), nil
	}
	t, err := domain.ParseDate(v)
	if err != nil {
		return time.Time{}, NewAppError(http.StatusBadRequest, "Invalid today value", err)
	}
	return t, nil
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
