package service

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const legacyExport = `[
  {
    "_id": "65f0c0ffee",
    "caseName": "Zhao Liu",
    "symptom": "fever",
    "contact": "555-1",
    "gender": "女",
    "age": 31,
    "diagnosisRecords": [
      {"_id": "r1", "content": "cold", "diagnosisTime": "2023-01-02T03:04:05.678Z", "images": ["/uploads/a.png"]},
      {"_id": "r2", "content": "better", "diagnosisTime": "2023-01-05T00:00:00Z", "modifiedTime": "2023-02-01T00:00:00Z"}
    ]
  },
  {
    "id": "c2",
    "name": "Sun Qi",
    "createdAt": "2022-12-31T00:00:00Z",
    "diagnoses": [
      {"id": "d1", "content": "sprain", "createdAt": "2023-01-01T00:00:00Z",
       "images": [{"id": "i1", "dataUrl": "data:image/png;base64,AAAA", "name": "foot.png"}]}
    ]
  }
]`

func TestCaseService_ImportCases(t *testing.T) {
	ctx := context.Background()

	t.Run("legacy and current shapes", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		var got []model.Case
		r.On("CountCases", mock.Anything).Return(int64(0), nil).Once()
		r.On("CreateCases", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			got = args.Get(1).([]model.Case)
		}).Return(nil).Once()

		n, err := svc.ImportCases(ctx, []byte(legacyExport))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, got, 2)

		c := got[0]
		assert.Equal(t, "65f0c0ffee", c.ID)
		assert.Equal(t, "Zhao Liu", c.Name)
		assert.Equal(t, model.GenderFemale, c.Gender)
		require.NotNil(t, c.Age)
		assert.Equal(t, 31, *c.Age)
		require.Len(t, c.Diagnoses, 2)
		assert.Equal(t, "/uploads/a.png", c.Diagnoses[0].Images[0].Data)
		assert.NotEmpty(t, c.Diagnoses[0].Images[0].ID)
		assert.True(t, c.CreatedAt.Equal(time.Date(2023, 1, 2, 3, 4, 5, 678e6, time.UTC)))
		// последняя активность — правка второго диагноза
		assert.True(t, c.LastDiagnosisTime.Equal(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)))

		c2 := got[1]
		assert.Equal(t, "c2", c2.ID)
		assert.True(t, c2.CreatedAt.Equal(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "data:image/png;base64,AAAA", c2.Diagnoses[0].Images[0].Data)
		assert.Equal(t, "foot.png", c2.Diagnoses[0].Images[0].Name)
		r.AssertExpectations(t)
	})

	t.Run("skipped when store is not empty", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		r.On("CountCases", mock.Anything).Return(int64(3), nil).Once()

		n, err := svc.ImportCases(ctx, []byte(legacyExport))
		assert.ErrorIs(t, err, ErrAlreadyPopulated)
		assert.Zero(t, n)
		r.AssertNotCalled(t, "CreateCases", mock.Anything, mock.Anything)
	})

	t.Run("schema violations", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())

		for _, doc := range []string{
			`{"name": "not an array"}`,
			`[{"symptom": "no name", "diagnoses": [{"content": "x"}]}]`,
			`[{"name": "A", "diagnoses": []}]`,
			`[{"name": "A", "age": -3, "diagnoses": [{"content": "x"}]}]`,
			`not json`,
		} {
			_, err := svc.ImportCases(ctx, []byte(doc))
			assert.True(t, IsValidation(err), "doc %s: %v", doc, err)
		}
		r.AssertNotCalled(t, "CountCases", mock.Anything)
	})

	t.Run("duplicate ids regenerated", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		var got []model.Case
		r.On("CountCases", mock.Anything).Return(int64(0), nil).Once()
		r.On("CreateCases", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			got = args.Get(1).([]model.Case)
		}).Return(nil).Once()

		doc := `[
		  {"id": "same", "name": "A", "diagnoses": [{"id": "d", "content": "x"}, {"id": "d", "content": "y"}]},
		  {"id": "same", "name": "B", "diagnoses": [{"content": "z"}]}
		]`
		_, err := svc.ImportCases(ctx, []byte(doc))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0].ID, got[1].ID)
		assert.NotEqual(t, got[0].Diagnoses[0].ID, got[0].Diagnoses[1].ID)
	})
}
