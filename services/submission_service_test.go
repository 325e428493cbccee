package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hasandi22/Final-year-research---Data-Collection/dataset"
	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

// MockStore is a mock type for the dataset.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Download(ctx context.Context, repo, path string) ([]byte, error) {
	args := m.Called(ctx, repo, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Upload(ctx context.Context, data []byte, repo, path string) error {
	args := m.Called(ctx, data, repo, path)
	return args.Error(0)
}

var (
	testStart  = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	testSubmit = time.Date(2025, 3, 1, 10, 25, 30, 123456000, time.UTC)
)

func TestFlattenColumns(t *testing.T) {
	rec := Flatten(models.NewSurveyState("p-1", testStart), testSubmit)
	assert.Equal(t, models.RecordColumns(), rec.Columns())
	assert.Len(t, rec.Fields, 71)
}

func TestFlattenNullsForUnanswered(t *testing.T) {
	rec := Flatten(models.NewSurveyState("p-1", testStart), testSubmit)

	for _, col := range []string{"age", "gender", "gad_q1", "panas_q10", "emp_q8", "neu_state_anxiety", "neu_post_q7", "single_mood"} {
		v, ok := rec.Value(col)
		require.True(t, ok, col)
		assert.Nil(t, v, col)
	}
	v, _ := rec.Value("open_emp")
	assert.Equal(t, "", v)
	v, _ = rec.Value("participant_id")
	assert.Equal(t, "p-1", v)
	v, _ = rec.Value("start_ts_utc")
	assert.Equal(t, "2025-03-01T10:00:00.000000", v)
	v, _ = rec.Value("submit_ts_utc")
	assert.Equal(t, "2025-03-01T10:25:30.123456", v)
}

func TestFlattenIsIdempotent(t *testing.T) {
	state := models.NewSurveyState("p-1", testStart)
	age := 40
	state.Demographics.Age = &age
	require.NoError(t, state.Baseline.GAD.Set(3, 2))

	assert.Equal(t, Flatten(state, testSubmit), Flatten(state, testSubmit))
	v, _ := Flatten(state, testSubmit).Value("gad_q3")
	assert.Equal(t, 2, v)
}

func TestFlattenSubmitNeverBeforeStart(t *testing.T) {
	rec := Flatten(models.NewSurveyState("p-1", testSubmit), testStart)
	start, _ := rec.Value("start_ts_utc")
	submit, _ := rec.Value("submit_ts_utc")
	assert.Equal(t, start, submit)
}

func TestSubmitCreatesDatasetWhenMissing(t *testing.T) {
	store := new(MockStore)
	store.On("Download", mock.Anything, "lab/study", "responses.csv").
		Return(nil, dataset.ErrNotFound)

	var uploaded []byte
	store.On("Upload", mock.Anything, mock.Anything, "lab/study", "responses.csv").
		Run(func(args mock.Arguments) { uploaded = args.Get(1).([]byte) }).
		Return(nil)

	svc := NewSubmissionService(store, "lab/study", "responses.csv")
	_, err := svc.Submit(context.Background(), models.NewSurveyState("p-1", testStart), testSubmit)
	require.NoError(t, err)

	table, err := dataset.ParseCSV(uploaded)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, models.RecordColumns(), table.Columns)
	assert.Equal(t, "p-1", table.Rows[0]["participant_id"])
	store.AssertExpectations(t)
}

func TestSubmitAppendsOneRow(t *testing.T) {
	existing := []byte("participant_id,legacy_col\nold-1,x\nold-2,y\n")
	store := new(MockStore)
	store.On("Download", mock.Anything, "lab/study", "responses.csv").Return(existing, nil)

	var uploaded []byte
	store.On("Upload", mock.Anything, mock.Anything, "lab/study", "responses.csv").
		Run(func(args mock.Arguments) { uploaded = args.Get(1).([]byte) }).
		Return(nil)

	svc := NewSubmissionService(store, "lab/study", "responses.csv")
	_, err := svc.Submit(context.Background(), models.NewSurveyState("p-3", testStart), testSubmit)
	require.NoError(t, err)

	table, err := dataset.ParseCSV(uploaded)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "legacy_col", table.Columns[1])
	assert.Equal(t, "x", table.Rows[0]["legacy_col"])
	assert.Equal(t, "", table.Rows[0]["age"])
	assert.Equal(t, "p-3", table.Rows[2]["participant_id"])
}

func TestSubmitDownloadFailureStartsFresh(t *testing.T) {
	store := new(MockStore)
	store.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	var uploaded []byte
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.Get(1).([]byte) }).
		Return(nil)

	svc := NewSubmissionService(store, "lab/study", "responses.csv")
	_, err := svc.Submit(context.Background(), models.NewSurveyState("p-1", testStart), testSubmit)
	require.NoError(t, err)

	table, err := dataset.ParseCSV(uploaded)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestSubmitUploadErrorReturnedVerbatim(t *testing.T) {
	store := new(MockStore)
	store.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, dataset.ErrNotFound)
	uploadErr := errors.New("hub: rate limited (status 429)")
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(uploadErr)

	svc := NewSubmissionService(store, "lab/study", "responses.csv")
	_, err := svc.Submit(context.Background(), models.NewSurveyState("p-1", testStart), testSubmit)
	assert.Equal(t, uploadErr, err)
}

func TestSubmitWithoutRepo(t *testing.T) {
	store := new(MockStore)
	svc := NewSubmissionService(store, "", "responses.csv")
	_, err := svc.Submit(context.Background(), models.NewSurveyState("p-1", testStart), testSubmit)
	assert.Error(t, err)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
