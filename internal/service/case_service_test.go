package service

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/repo"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCaseService_CreateCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ok: one diagnosis, timestamps equal", func(t *testing.T) {
		r := new(mockCaseRepo)
		store := blob.NewMemoryStore()
		svc := newTestService(r, store)
		svc.SetClock(fixedClock(now))

		r.On("CreateCase", mock.Anything, mock.AnythingOfType("*model.Case")).Return(nil).Once()

		c, err := svc.CreateCase(ctx, CreateCaseInput{
			ProfileInput: ProfileInput{Name: "  Wang Li ", Symptom: "cough", Gender: model.GenderMale, Age: ptrInt(42)},
			Content:      "bronchitis",
			Images:       []ImageInput{{Name: "xray.png", ContentType: "image/png", Data: pngData}},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Wang Li", c.Name)
		require.Len(t, c.Diagnoses, 1)
		d := c.Diagnoses[0]
		assert.Equal(t, "bronchitis", d.Content)
		assert.True(t, c.CreatedAt.Equal(now))
		assert.True(t, c.LastDiagnosisTime.Equal(d.CreatedAt))
		assert.Nil(t, d.UpdatedAt)
		require.Len(t, d.Images, 1)
		assert.True(t, strings.HasPrefix(d.Images[0].Data, "mem://"))
		assert.Equal(t, "xray.png", d.Images[0].Name)
		assert.Equal(t, 1, store.Len())
		r.AssertExpectations(t)
	})

	t.Run("empty name rejected, nothing stored", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())

		_, err := svc.CreateCase(ctx, CreateCaseInput{ProfileInput: ProfileInput{Name: "   "}, Content: "x"})
		assert.True(t, IsValidation(err))
		r.AssertNotCalled(t, "CreateCase", mock.Anything, mock.Anything)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())

		_, err := svc.CreateCase(ctx, CreateCaseInput{ProfileInput: ProfileInput{Name: "A"}, Content: " \n"})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "content", ve.Field)
	})

	t.Run("bad gender and negative age rejected", func(t *testing.T) {
		svc := newTestService(new(mockCaseRepo), blob.NewMemoryStore())

		_, err := svc.CreateCase(ctx, CreateCaseInput{ProfileInput: ProfileInput{Name: "A", Gender: "other"}, Content: "x"})
		assert.True(t, IsValidation(err))
		_, err = svc.CreateCase(ctx, CreateCaseInput{ProfileInput: ProfileInput{Name: "A", Age: ptrInt(-1)}, Content: "x"})
		assert.True(t, IsValidation(err))
	})

	t.Run("repo failure discards stored images", func(t *testing.T) {
		r := new(mockCaseRepo)
		store := blob.NewMemoryStore()
		svc := newTestService(r, store)

		r.On("CreateCase", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := svc.CreateCase(ctx, CreateCaseInput{
			ProfileInput: ProfileInput{Name: "A"},
			Content:      "x",
			Images:       []ImageInput{{Name: "a.png", Data: pngData}, {Name: "b.png", Data: pngData}},
		})
		assert.ErrorIs(t, err, ErrStorage)
		assert.Equal(t, 0, store.Len())
	})
}

func TestCaseService_GetCase(t *testing.T) {
	ctx := context.Background()
	r := new(mockCaseRepo)
	svc := newTestService(r, blob.NewMemoryStore())

	r.On("GetCase", mock.Anything, "c1").Return(&model.Case{ID: "c1", Name: "A"}, nil).Once()
	r.On("GetCase", mock.Anything, "missing").Return(nil, repo.ErrNotFound).Once()
	r.On("GetCase", mock.Anything, "broken").Return(nil, errors.New("io")).Once()

	c, err := svc.GetCase(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "A", c.Name)

	_, err = svc.GetCase(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetCase(ctx, "broken")
	assert.ErrorIs(t, err, ErrStorage)
	r.AssertExpectations(t)
}

func TestCaseService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	cases := []model.Case{
		{ID: "1", Name: "Zhang San", Symptom: "Headache", Diagnoses: []model.Diagnosis{{Content: "migraine"}}},
		{ID: "2", Name: "Li Si", Contact: "138-0000", Diagnoses: []model.Diagnosis{{Content: "Flu"}}},
	}

	t.Run("empty store gives empty slice", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		r.On("ListCases", mock.Anything).Return(nil, nil).Once()

		res, err := svc.ListCases(ctx)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("search is case-insensitive and keeps order", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		r.On("ListCases", mock.Anything).Return(cases, nil)

		res, err := svc.SearchCases(ctx, "HEAD")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "1", res[0].ID)

		res, err = svc.SearchCases(ctx, "flu")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "2", res[0].ID)

		res, err = svc.SearchCases(ctx, "  ")
		require.NoError(t, err)
		assert.Len(t, res, 2)

		res, err = svc.SearchCases(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("storage error", func(t *testing.T) {
		r := new(mockCaseRepo)
		svc := newTestService(r, blob.NewMemoryStore())
		r.On("ListCases", mock.Anything).Return(nil, errors.New("db")).Once()

		_, err := svc.SearchCases(ctx, "x")
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestCaseService_UpdateCase(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := new(mockCaseRepo)
	svc := newTestService(r, blob.NewMemoryStore())
	svc.SetClock(fixedClock(last.Add(time.Hour)))

	current := &model.Case{ID: "c1", Name: "Old", LastDiagnosisTime: last, Diagnoses: []model.Diagnosis{{ID: "d1", Content: "x", CreatedAt: last}}}
	r.On("GetCase", mock.Anything, "c1").Return(current, nil).Once()
	r.On("SaveCase", mock.Anything, mock.MatchedBy(func(c *model.Case) bool {
		return c.Name == "New" && c.Gender == model.GenderFemale && c.LastDiagnosisTime.Equal(last) && len(c.Diagnoses) == 1
	})).Return(nil).Once()

	c, err := svc.UpdateCase(ctx, "c1", ProfileInput{Name: "New", Gender: model.GenderFemale})
	require.NoError(t, err)
	assert.Equal(t, "New", c.Name)
	r.AssertExpectations(t)

	r.On("GetCase", mock.Anything, "nope").Return(nil, repo.ErrNotFound).Once()
	_, err = svc.UpdateCase(ctx, "nope", ProfileInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}
