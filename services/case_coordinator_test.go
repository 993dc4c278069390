package services

import (
	"context"
	"errors"
	"testing"

	"legalcase_app_go/models"
	"legalcase_app_go/services/docstore"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// faultyCaseStore delegates to a real store except for the methods a test
// arms with expectations.
type faultyCaseStore struct {
	docstore.CaseStore
	mock.Mock
	failCreate, failDelete, failGet bool
}

func (f *faultyCaseStore) Create(ctx context.Context, doc *models.CaseDocument) error {
	if f.failCreate {
		return f.Called(ctx, doc).Error(0)
	}
	return f.CaseStore.Create(ctx, doc)
}

func (f *faultyCaseStore) Delete(ctx context.Context, caseID string) error {
	if f.failDelete {
		return f.Called(ctx, caseID).Error(0)
	}
	return f.CaseStore.Delete(ctx, caseID)
}

func (f *faultyCaseStore) GetByID(ctx context.Context, caseID string) (*models.CaseDocument, error) {
	if f.failGet {
		args := f.Called(ctx, caseID)
		return nil, args.Error(1)
	}
	return f.CaseStore.GetByID(ctx, caseID)
}

type failingEngine struct{ err error }

func (e failingEngine) Analyze(ctx context.Context, documentText, caseContext string) (*AnalysisOutcome, error) {
	return nil, e.err
}

type coordinatorFixture struct {
	db          *gorm.DB
	owner       *models.User
	aggregates  *faultyCaseStore
	coordinator *CaseCoordinator
}

func setupCoordinator(t *testing.T) *coordinatorFixture {
	t.Helper()
	db := setupStoreTestDB(t)
	aggregates := &faultyCaseStore{CaseStore: docstore.NewMemoryStore().Cases()}
	return &coordinatorFixture{
		db:          db,
		owner:       createOwner(t, db),
		aggregates:  aggregates,
		coordinator: NewCaseCoordinator(NewCaseRecordStore(db), aggregates, MockAnalysisEngine{}),
	}
}

func (f *coordinatorFixture) create(t *testing.T, title string, tags ...string) *models.Case {
	t.Helper()
	c, err := f.coordinator.CreateCase(context.Background(), CreateCaseInput{
		Title:   title,
		OwnerID: f.owner.ID,
		Tags:    tags,
	})
	require.NoError(t, err)
	return c
}

func TestCreateCase_ThenGetWithDocuments(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()

	court := "Albuquerque District Court"
	created, err := f.coordinator.CreateCase(ctx, CreateCaseInput{
		Title:    "State v. <b>Kettleman</b>",
		Court:    &court,
		Type:     models.CaseTypeCriminal,
		Priority: models.CasePriorityHigh,
		OwnerID:  f.owner.ID,
		Tags:     []string{"Embezzlement", " embezzlement ", "urgent"},
	})
	require.NoError(t, err)
	assert.Equal(t, "State v. Kettleman", created.Title)

	got, err := f.coordinator.GetCaseWithDocuments(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.Case.ID)
	assert.Equal(t, created.Title, got.Case.Title)
	assert.Equal(t, created.CaseNumber, got.Case.CaseNumber)
	assert.Equal(t, created.Status, got.Case.Status)
	assert.Equal(t, created.OwnerID, got.Case.OwnerID)
	assert.Equal(t, court, *got.Case.Court)
	assert.Equal(t, []string{"embezzlement", "urgent"}, got.Tags)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, got.Documents)
	assert.Empty(t, got.Analyses)

	doc, err := f.aggregates.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.CaseNumber, doc.CaseNumber)
	assert.Equal(t, f.owner.ID, doc.OwnerID)
	assert.Equal(t, []string{"embezzlement", "urgent"}, doc.Metadata.Tags)
}

func TestCreateCase_ValidationTouchesNoStore(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateCaseInput
		field string
	}{
		{"blank title", CreateCaseInput{Title: "  <i></i> ", OwnerID: f.owner.ID}, "title"},
		{"missing owner", CreateCaseInput{Title: "A"}, "owner_id"},
		{"bad status", CreateCaseInput{Title: "A", OwnerID: f.owner.ID, Status: "Pending"}, "status"},
		{"probability range", CreateCaseInput{Title: "A", OwnerID: f.owner.ID, SuccessProbability: floatPtr(101)}, "success_probability"},
		{"negative value", CreateCaseInput{Title: "A", OwnerID: f.owner.ID, EstimatedValue: floatPtr(-1)}, "estimated_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.coordinator.CreateCase(ctx, tt.input)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	var count int64
	f.db.Model(&models.Case{}).Count(&count)
	assert.Zero(t, count)
	n, err := f.aggregates.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateCase_AggregateFailureIsPartial(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	f.aggregates.failCreate = true
	f.aggregates.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	before := testutil.ToFloat64(PartialFailures.WithLabelValues(OperationCreate))
	c, err := f.coordinator.CreateCase(ctx, CreateCaseInput{Title: "A", OwnerID: f.owner.ID, Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(PartialFailures.WithLabelValues(OperationCreate)))
	f.aggregates.AssertExpectations(t)

	got, err := f.coordinator.GetCaseWithDocuments(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, 0, got.Version)
}

func TestDeleteCase_AggregateFailureStillRemovesFromListing(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	keep := f.create(t, "Keep")
	gone := f.create(t, "Gone")

	f.aggregates.failDelete = true
	f.aggregates.On("Delete", mock.Anything, gone.ID).Return(errors.New("i/o timeout"))

	before := testutil.ToFloat64(PartialFailures.WithLabelValues(OperationDelete))
	require.NoError(t, f.coordinator.DeleteCase(ctx, gone.ID))
	assert.Equal(t, before+1, testutil.ToFloat64(PartialFailures.WithLabelValues(OperationDelete)))
	f.aggregates.AssertExpectations(t)

	cases, err := f.coordinator.GetCasesByUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, keep.ID, cases[0].ID)

	_, err = f.coordinator.GetCaseWithDocuments(ctx, gone.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteCase_Missing(t *testing.T) {
	f := setupCoordinator(t)
	assert.ErrorIs(t, f.coordinator.DeleteCase(context.Background(), "missing"), models.ErrNotFound)
}

func TestDeleteCase_RemovesAggregate(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")

	require.NoError(t, f.coordinator.DeleteCase(ctx, c.ID))
	exists, err := f.aggregates.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetCaseWithDocuments_AggregateReadFailureDegrades(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A", "urgent")

	f.aggregates.failGet = true
	f.aggregates.On("GetByID", mock.Anything, c.ID).Return(nil, &models.StoreError{Store: models.StoreAggregate, Op: "get", Err: errors.New("boom")})

	before := testutil.ToFloat64(PartialFailures.WithLabelValues(OperationRead))
	got, err := f.coordinator.GetCaseWithDocuments(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.Case.ID)
	assert.Empty(t, got.Documents)
	assert.Empty(t, got.Tags)
	assert.Equal(t, before+1, testutil.ToFloat64(PartialFailures.WithLabelValues(OperationRead)))
}

func TestSearchCases_ByTag(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	tagged := f.create(t, "Tagged", "urgent")
	f.create(t, "Routine", "routine")
	f.create(t, "Untagged")

	docs, err := f.coordinator.SearchCases(ctx, models.CaseSearchCriteria{Tags: []string{"urgent"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, tagged.ID, docs[0].CaseID)
}

func TestSearchCases_TagCaseInsensitive(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	criminal := f.create(t, "Criminal", "Criminal", "Theft")
	f.create(t, "Civil", "Civil", "Contract")

	for _, tag := range []string{"Criminal", "criminal", " CRIMINAL "} {
		docs, err := f.coordinator.SearchCases(ctx, models.CaseSearchCriteria{Tags: []string{tag}})
		require.NoError(t, err)
		require.Len(t, docs, 1, "tag %q", tag)
		assert.Equal(t, criminal.ID, docs[0].CaseID)
	}
}

func TestSearchCases_EmptyCriteriaPaged(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C", "D"} {
		f.create(t, title)
	}

	all, err := f.coordinator.SearchCases(ctx, models.CaseSearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].UpdatedAt.After(all[i-1].UpdatedAt))
	}

	page, err := f.coordinator.SearchCases(ctx, models.CaseSearchCriteria{Skip: 1, Take: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].CaseID, page[0].CaseID)
	assert.Equal(t, all[2].CaseID, page[1].CaseID)
}

func TestUpdateCase_LeavesAggregateAlone(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "Original")

	c.Title = "Renamed"
	updated, err := f.coordinator.UpdateCase(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	doc, err := f.aggregates.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", doc.Title)
	assert.Equal(t, 1, doc.Version)

	missing := *c
	missing.ID = "missing"
	_, err = f.coordinator.UpdateCase(ctx, &missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetTagsAndAttachDocument_BumpVersion(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")

	doc, err := f.coordinator.SetTags(ctx, c.ID, []string{"Fraud", "fraud", "", "Appeal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fraud", "appeal"}, doc.Tags)
	assert.Equal(t, []string{"fraud", "appeal"}, doc.Metadata.Tags)
	assert.Equal(t, 2, doc.Version)

	doc, err = f.coordinator.AttachDocument(ctx, c.ID, models.DocumentInfo{
		FileName: "complaint.pdf",
		FileType: "application/pdf",
		FileSize: 2048,
		Type:     models.DocumentTypeComplaint,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Version)
	require.Len(t, doc.Documents, 1)
	assert.NotEmpty(t, doc.Documents[0].ID)
	assert.Equal(t, models.DocumentStatusUploaded, doc.Documents[0].Status)
	assert.Equal(t, 1, doc.Metadata.TotalDocuments)

	_, err = f.coordinator.AttachDocument(ctx, c.ID, models.DocumentInfo{FileName: "x", Type: "Selfie"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.coordinator.SetTags(ctx, "missing", []string{"x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalyzeCase_PrependsAndFeedsStats(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")

	first, err := f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: "The defendant took the car."})
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, first.Status)
	assert.NotNil(t, first.CompletedAt)

	second, err := f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: "Second filing."})
	require.NoError(t, err)

	got, err := f.coordinator.GetCaseWithDocuments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Analyses, 2)
	assert.Equal(t, second.ID, got.Analyses[0].ID)
	assert.Equal(t, first.ID, got.Analyses[1].ID)
	assert.Equal(t, 3, got.Version)

	stats, err := f.coordinator.GetAnalysisStats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CompletedAnalyses)
	require.NotNil(t, stats.AverageViabilityScore)
	assert.InDelta(t, 72.0, *stats.AverageViabilityScore, 1e-9)
	assert.NotNil(t, stats.LastAnalyzedAt)
}

func TestAnalyzeCase_EngineFailureRecorded(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")
	f.coordinator.engine = failingEngine{err: errors.New("model overloaded")}

	result, err := f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: "text"})
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, result.Status)
	assert.Equal(t, "model overloaded", result.AnalysisText)
	assert.Nil(t, result.CompletedAt)

	stats, err := f.coordinator.GetAnalysisStats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FailedAnalyses)
	assert.Nil(t, stats.AverageViabilityScore)
}

func TestAnalyzeCase_RecreatesMissingAggregate(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")
	require.NoError(t, f.aggregates.CaseStore.Delete(ctx, c.ID))

	_, err := f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: "text"})
	require.NoError(t, err)

	doc, err := f.aggregates.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.CaseNumber, doc.CaseNumber)
	assert.Len(t, doc.Analyses, 1)
}

func TestAnalyzeCase_Errors(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()
	c := f.create(t, "A")

	_, err := f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: " "})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.coordinator.AnalyzeCase(ctx, "missing", AnalyzeInput{DocumentText: "text"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentID: "nope", DocumentText: "text"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAnalyzeCase_RejectsClosedCases(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()

	for _, status := range []string{models.CaseStatusClosed, models.CaseStatusDismissed} {
		t.Run(status, func(t *testing.T) {
			c, err := f.coordinator.CreateCase(ctx, CreateCaseInput{Title: status, OwnerID: f.owner.ID, Status: status})
			require.NoError(t, err)

			_, err = f.coordinator.AnalyzeCase(ctx, c.ID, AnalyzeInput{DocumentText: "text"})
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "status", verr.Field)

			doc, err := f.aggregates.GetByID(ctx, c.ID)
			require.NoError(t, err)
			assert.Empty(t, doc.Analyses)
		})
	}
}

func TestGetAnalysisStats_NoAggregate(t *testing.T) {
	f := setupCoordinator(t)

	stats, err := f.coordinator.GetAnalysisStats(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAnalyses)
	assert.Nil(t, stats.AverageViabilityScore)
}

func floatPtr(f float64) *float64 {
	return &f
}
