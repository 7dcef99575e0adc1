package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LoadSubjectsFillsCache(t *testing.T) {
	// Arrange
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/subjects", r.URL.Path)
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`{"data":[{"id":1,"title":"Mathematics"},{"id":2,"title":"Physics"}]}`))
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))

	// Act
	subjects, err := cat.LoadSubjects(context.Background(), "math")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "math", gotSearch)
	require.Len(t, subjects, 2)

	state := cat.Subjects()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	require.Len(t, state.Items, 2)
	assert.Equal(t, "Physics", state.Items[1].Title)
}

func TestCatalog_FailedLoadKeepsPreviousItems(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"storage unavailable"}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":1,"title":"Mathematics"}]}`))
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))

	_, err := cat.LoadSubjects(context.Background(), "")
	require.NoError(t, err)

	fail.Store(true)
	_, err = cat.LoadSubjects(context.Background(), "")

	require.Error(t, err)
	state := cat.Subjects()
	assert.False(t, state.Loading)
	assert.Contains(t, state.Err, "storage unavailable")
	require.Len(t, state.Items, 1, "stale items survive a failed reload")
	assert.Equal(t, "Mathematics", state.Items[0].Title)

	// a successful reload clears the recorded error
	fail.Store(false)
	_, err = cat.LoadSubjects(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cat.Subjects().Err)
}

func TestCatalog_CreateSubjectAppliedAfterServerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"data":[{"id":1,"title":"Mathematics"}]}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":2,"title":"Physics"}}`))
		}
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))
	_, err := cat.LoadSubjects(context.Background(), "")
	require.NoError(t, err)

	created, err := cat.CreateSubject(context.Background(), "Physics")

	require.NoError(t, err)
	assert.Equal(t, uint(2), created.ID)
	items := cat.Subjects().Items
	require.Len(t, items, 2)
	assert.Equal(t, "Physics", items[1].Title)
}

func TestCatalog_FailedMutationLeavesCacheUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"data":[{"id":1,"title":"Mathematics"}]}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"subject has grades"}`))
		}
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))
	_, err := cat.LoadSubjects(context.Background(), "")
	require.NoError(t, err)

	err = cat.DeleteSubject(context.Background(), 1)

	require.Error(t, err)
	require.Len(t, cat.Subjects().Items, 1, "item stays cached until the server confirms the delete")
}

func TestCatalog_DeleteGradeEvictsFromCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "3", r.URL.Query().Get("subjectId"))
			w.Write([]byte(`{"data":[{"id":5,"title":"Algebra 1","subject_id":3,"time":10,"questionCount":20,"is_active":true}]}`))
		case http.MethodDelete:
			assert.Equal(t, "/api/grades/5", r.URL.Path)
			w.Write([]byte(`{"data":null}`))
		}
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))
	grades, err := cat.LoadGrades(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, grades, 1)

	require.NoError(t, cat.DeleteGrade(context.Background(), 5))

	assert.Empty(t, cat.Grades().Items)
}

func TestCatalog_LoadQuestionsKeepsPageMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("gradeId"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		w.Write([]byte(`{"data":{"items":[{"id":1,"grade_id":5,"question":"2+2?","options":[]}],"total":11,"page":2,"limit":10}}`))
	}))
	defer srv.Close()
	cat := NewCatalog(New(srv.URL))

	page, err := cat.LoadQuestions(context.Background(), QuestionFilter{GradeID: 5, Page: 2, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	meta := cat.QuestionMeta()
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	require.Len(t, cat.Questions().Items, 1)
}
