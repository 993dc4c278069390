package handlers

import (
	"net/http"

	"legalcase_app_go/middleware"
	"legalcase_app_go/models"
	"legalcase_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreateCaseHandler opens a case owned by the calling user
func CreateCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.CreateCaseInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	input.OwnerID = user.ID

	created, err := middleware.GetCoordinator(c).CreateCase(c.Request().Context(), input)
	if err != nil {
		return storeError(err, "Owner not found")
	}
	return c.JSON(http.StatusCreated, created)
}

// GetCasesHandler lists the calling user's cases
func GetCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	cases, err := middleware.GetCoordinator(c).GetCasesByUser(c.Request().Context(), user.ID)
	if err != nil {
		return storeError(err, "Cases not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  cases,
		"total": len(cases),
	})
}

// GetCaseDetailHandler returns a case merged with its documents and analyses
func GetCaseDetailHandler(c echo.Context) error {
	if _, err := authorizeCase(c); err != nil {
		return err
	}

	detail, err := middleware.GetCoordinator(c).GetCaseWithDocuments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Case not found")
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateCaseHandler replaces the editable fields of a case
func UpdateCaseHandler(c echo.Context) error {
	existing, err := authorizeCase(c)
	if err != nil {
		return err
	}

	var input models.Case
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	input.ID = existing.ID
	input.OwnerID = existing.OwnerID
	if input.CaseNumber == "" {
		input.CaseNumber = existing.CaseNumber
	}
	if input.Status == "" {
		input.Status = existing.Status
	}
	if input.Type == "" {
		input.Type = existing.Type
	}
	if input.Priority == "" {
		input.Priority = existing.Priority
	}

	updated, err := middleware.GetCoordinator(c).UpdateCase(c.Request().Context(), &input)
	if err != nil {
		return storeError(err, "Case not found")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCaseHandler soft-deletes a case
func DeleteCaseHandler(c echo.Context) error {
	if _, err := authorizeCase(c); err != nil {
		return err
	}

	if err := middleware.GetCoordinator(c).DeleteCase(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(err, "Case not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchCasesHandler runs structured criteria over case aggregates. Non-admin
// callers only search their own cases.
func SearchCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var criteria models.CaseSearchCriteria
	if err := c.Bind(&criteria); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search criteria")
	}
	if user.Role != models.RoleAdmin {
		criteria.OwnerID = &user.ID
	}
	criteria.Take = clampTake(c, criteria.Take)

	docs, err := middleware.GetCoordinator(c).SearchCases(c.Request().Context(), criteria)
	if err != nil {
		return storeError(err, "Cases not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": docs,
		"pagination": map[string]interface{}{
			"skip": criteria.Skip,
			"take": criteria.Take,
		},
	})
}

// GetCaseStatsHandler returns the analysis rollup of a case
func GetCaseStatsHandler(c echo.Context) error {
	if _, err := authorizeCase(c); err != nil {
		return err
	}

	stats, err := middleware.GetCoordinator(c).GetAnalysisStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Case not found")
	}
	return c.JSON(http.StatusOK, stats)
}

// AttachDocumentHandler records uploaded-document metadata on a case
func AttachDocumentHandler(c echo.Context) error {
	existing, err := authorizeCase(c)
	if err != nil {
		return err
	}

	var info models.DocumentInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	info.UploadedByID = middleware.GetCurrentUser(c).ID

	doc, err := middleware.GetCoordinator(c).AttachDocument(c.Request().Context(), existing.ID, info)
	if err != nil {
		return storeError(err, "Case documents not found")
	}
	return c.JSON(http.StatusCreated, doc)
}

// SetTagsHandler replaces the tags of a case
func SetTagsHandler(c echo.Context) error {
	existing, err := authorizeCase(c)
	if err != nil {
		return err
	}

	var body struct {
		Tags []string `json:"tags"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	doc, err := middleware.GetCoordinator(c).SetTags(c.Request().Context(), existing.ID, body.Tags)
	if err != nil {
		return storeError(err, "Case documents not found")
	}
	return c.JSON(http.StatusOK, doc)
}

// AnalyzeCaseHandler runs the analysis engine on a document of a case
func AnalyzeCaseHandler(c echo.Context) error {
	existing, err := authorizeCase(c)
	if err != nil {
		return err
	}

	var input services.AnalyzeInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := middleware.GetCoordinator(c).AnalyzeCase(c.Request().Context(), existing.ID, input)
	if err != nil {
		return storeError(err, "Case not found")
	}
	return c.JSON(http.StatusCreated, result)
}

// authorizeCase loads the case named by the :id param and hides cases the
// caller does not own. Admins see every case.
func authorizeCase(c echo.Context) (*models.Case, error) {
	user := middleware.GetCurrentUser(c)

	existing, err := middleware.GetCoordinator(c).GetCase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, storeError(err, "Case not found")
	}
	if existing.OwnerID != user.ID && user.Role != models.RoleAdmin {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return existing, nil
}
