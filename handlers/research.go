package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"legalcase_app_go/middleware"
	"legalcase_app_go/models"
	"legalcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// MaxBulkIndexDocuments bounds one bulk index request
const MaxBulkIndexDocuments = 1000

// DefaultSimilarityThreshold is used when a similarity request names none
const DefaultSimilarityThreshold = 0.7

// SearchResearchHandler runs a full-text search over the research index
func SearchResearchHandler(c echo.Context) error {
	docs, err := middleware.GetResearch(c).SearchText(c.Request().Context(), c.QueryParam("q"), queryLimit(c))
	if err != nil {
		return storeError(err, "No research documents found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": docs})
}

// AdvancedSearchResearchHandler runs a structured research query
func AdvancedSearchResearchHandler(c echo.Context) error {
	var q models.LegalSearchQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search query")
	}
	q.Take = clampTake(c, q.Take)

	docs, err := middleware.GetResearch(c).SearchAdvanced(c.Request().Context(), q)
	if err != nil {
		return storeError(err, "No research documents found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": docs,
		"pagination": map[string]interface{}{
			"skip": q.Skip,
			"take": q.Take,
		},
	})
}

// GetResearchHandler returns one research document by id
func GetResearchHandler(c echo.Context) error {
	doc, err := middleware.GetResearch(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Research document not found")
	}
	return c.JSON(http.StatusOK, doc)
}

// GetResearchByCitationHandler looks a document up by its citation
func GetResearchByCitationHandler(c echo.Context) error {
	citation := strings.TrimSpace(c.QueryParam("citation"))
	if citation == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "citation is required")
	}

	doc, err := middleware.GetResearch(c).GetByCitation(c.Request().Context(), citation)
	if err != nil {
		return storeError(err, "Research document not found")
	}
	return c.JSON(http.StatusOK, doc)
}

// ListResearchHandler filters research by jurisdiction, court or decision date range
func ListResearchHandler(c echo.Context) error {
	ctx := c.Request().Context()
	research := middleware.GetResearch(c)
	limit := queryLimit(c)

	var (
		docs []models.LegalResearchDocument
		err  error
	)
	switch {
	case c.QueryParam("jurisdiction") != "":
		docs, err = research.GetByJurisdiction(ctx, c.QueryParam("jurisdiction"), limit)
	case c.QueryParam("court") != "":
		docs, err = research.GetByCourt(ctx, c.QueryParam("court"), limit)
	case c.QueryParam("from") != "" || c.QueryParam("to") != "":
		from, to, perr := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
		if perr != nil {
			return perr
		}
		docs, err = research.GetByDateRange(ctx, from, to, limit)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "One of jurisdiction, court, from or to is required")
	}
	if err != nil {
		return storeError(err, "No research documents found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": docs})
}

// SimilarResearchHandler finds research documents related to a case text
func SimilarResearchHandler(c echo.Context) error {
	var body struct {
		Text      string   `json:"text"`
		Threshold *float64 `json:"threshold"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	threshold := DefaultSimilarityThreshold
	if body.Threshold != nil {
		threshold = *body.Threshold
	}

	docs, err := middleware.GetResearch(c).FindSimilar(c.Request().Context(), body.Text, threshold)
	if err != nil {
		return storeError(err, "No research documents found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": docs})
}

// ResearchStatsHandler returns document counts per type
func ResearchStatsHandler(c echo.Context) error {
	stats, err := middleware.GetResearch(c).GetStats(c.Request().Context())
	if err != nil {
		return storeError(err, "No research statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

// BulkIndexResearchHandler indexes a batch of research documents
func BulkIndexResearchHandler(c echo.Context) error {
	var docs []models.LegalResearchDocument
	if err := c.Bind(&docs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(docs) > MaxBulkIndexDocuments {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			"At most "+strconv.Itoa(MaxBulkIndexDocuments)+" documents per request")
	}

	if err := middleware.GetResearch(c).BulkIndex(c.Request().Context(), docs); err != nil {
		return storeError(err, "Research index not found")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"indexed": len(docs),
		"data":    docs,
	})
}

// DeleteResearchHandler removes a research document
func DeleteResearchHandler(c echo.Context) error {
	if err := middleware.GetResearch(c).Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(err, "Research document not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// parseDateRange reads YYYY-MM-DD bounds; the end bound covers its whole day
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().UTC()

	if from != "" {
		parsed, err := services.ParseDate("from", from)
		if err != nil {
			return start, end, storeError(err, "")
		}
		start = parsed
	}
	if to != "" {
		parsed, err := services.ParseDate("to", to)
		if err != nil {
			return start, end, storeError(err, "")
		}
		end = services.EndOfDay(parsed)
	}
	if end.Before(start) {
		return start, end, echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}
	return start, end, nil
}
