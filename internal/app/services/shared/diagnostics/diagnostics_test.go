package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	matched        int64
	documents      []bson.M
	lastCollection string
	lastFilter     bson.D
	lastProjection bson.D
	lastLimit      int64
	deleteCalls    int
	err            error
}

func (f *fakeStore) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	f.lastCollection, f.lastFilter = collection, filter
	return f.matched, f.err
}

func (f *fakeStore) Find(ctx context.Context, collection string, filter, projection bson.D, limit int64) ([]bson.M, error) {
	f.lastProjection, f.lastLimit = projection, limit
	return f.documents, f.err
}

func (f *fakeStore) DeleteMany(ctx context.Context, collection string, filter bson.D) (int64, error) {
	f.deleteCalls++
	return f.matched, f.err
}

type staticConfirmer struct {
	answer  bool
	prompts []string
}

func (s *staticConfirmer) Confirm(prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, nil
}

func newTestDiagnostics(store CollectionStore) *Diagnostics {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewDiagnostics(store, logger)
}

func TestParseDocument(t *testing.T) {
	t.Run("Empty input is an empty document", func(t *testing.T) {
		document, err := ParseDocument("  ")
		require.NoError(t, err)
		assert.Empty(t, document)
	})

	t.Run("Relaxed and canonical Extended JSON", func(t *testing.T) {
		document, err := ParseDocument(`{"payment_status":"paid","_id":{"$oid":"64b7f0c2a1b2c3d4e5f60718"},"price":{"$gt":100}}`)
		require.NoError(t, err)
		require.Len(t, document, 3)
		assert.Equal(t, "payment_status", document[0].Key)

		objectID, ok := document[1].Value.(primitive.ObjectID)
		require.True(t, ok)
		assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", objectID.Hex())
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := ParseDocument(`{"payment_status":`)
		assert.Error(t, err)
	})
}

func TestFormatDocument(t *testing.T) {
	formatted, err := FormatDocument(bson.M{"name": "Dr. A", "payment_value": 40})
	require.NoError(t, err)
	assert.Contains(t, formatted, `"name": "Dr. A"`)
	assert.Contains(t, formatted, `"payment_value": 40`)
}

func TestDiagnostics_Inspect(t *testing.T) {
	t.Run("Passes parsed query to the store", func(t *testing.T) {
		store := &fakeStore{matched: 12, documents: []bson.M{{"_id": "a"}, {"_id": "b"}}}
		tool := newTestDiagnostics(store)

		result, err := tool.Inspect(context.Background(), Query{
			Collection: "treatment_plans",
			Filter:     `{"payment_status":"paid"}`,
			Projection: `{"services":0}`,
			Limit:      2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), result.Matched)
		assert.Len(t, result.Documents, 2)
		assert.Equal(t, "treatment_plans", store.lastCollection)
		assert.Equal(t, bson.D{{Key: "payment_status", Value: "paid"}}, store.lastFilter)
		assert.Equal(t, "services", store.lastProjection[0].Key)
		assert.Equal(t, int64(2), store.lastLimit)
	})

	t.Run("Collection is required", func(t *testing.T) {
		_, err := newTestDiagnostics(&fakeStore{}).Inspect(context.Background(), Query{})
		assert.ErrorIs(t, err, ErrMissingCollection)
	})

	t.Run("Invalid projection", func(t *testing.T) {
		_, err := newTestDiagnostics(&fakeStore{}).Inspect(context.Background(), Query{Collection: "doctors", Projection: "{"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "projection"))
	})

	t.Run("Store failure", func(t *testing.T) {
		storeErr := errors.New("no reachable servers")
		_, err := newTestDiagnostics(&fakeStore{err: storeErr}).Inspect(context.Background(), Query{Collection: "doctors"})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestDiagnostics_Delete(t *testing.T) {
	query := Query{Collection: "treatment_plans", Filter: `{"payment_status":"cancelled"}`}

	t.Run("Deletes after confirmation", func(t *testing.T) {
		store := &fakeStore{matched: 3}
		confirmer := &staticConfirmer{answer: true}

		result, err := newTestDiagnostics(store).Delete(context.Background(), query, confirmer)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Deleted)
		assert.Equal(t, 1, store.deleteCalls)
		require.Len(t, confirmer.prompts, 1)
		assert.Contains(t, confirmer.prompts[0], "3 document(s)")
		assert.Contains(t, confirmer.prompts[0], "treatment_plans")
	})

	t.Run("Declined confirmation deletes nothing", func(t *testing.T) {
		store := &fakeStore{matched: 3}

		result, err := newTestDiagnostics(store).Delete(context.Background(), query, &staticConfirmer{answer: false})
		assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
		assert.Equal(t, int64(3), result.Matched)
		assert.Equal(t, int64(0), result.Deleted)
		assert.Equal(t, 0, store.deleteCalls)
	})

	t.Run("Nothing matched skips the prompt", func(t *testing.T) {
		store := &fakeStore{matched: 0}
		confirmer := &staticConfirmer{answer: true}

		_, err := newTestDiagnostics(store).Delete(context.Background(), query, confirmer)
		require.NoError(t, err)
		assert.Empty(t, confirmer.prompts)
		assert.Equal(t, 0, store.deleteCalls)
	})

	t.Run("Empty filter is refused", func(t *testing.T) {
		store := &fakeStore{matched: 100}

		_, err := newTestDiagnostics(store).Delete(context.Background(), Query{Collection: "doctors"}, AutoConfirmer{})
		assert.ErrorIs(t, err, ErrEmptyFilter)
		assert.Equal(t, 0, store.deleteCalls)
	})

	t.Run("Empty filter allowed explicitly", func(t *testing.T) {
		store := &fakeStore{matched: 100}

		result, err := newTestDiagnostics(store).Delete(context.Background(), Query{Collection: "doctors", AllowAll: true}, AutoConfirmer{})
		require.NoError(t, err)
		assert.Equal(t, int64(100), result.Deleted)
	})
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"  yes  \n", true},
		{"yes", true},
		{"y\n", false},
		{"YES\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			out := &bytes.Buffer{}
			confirmer := PromptConfirmer{In: strings.NewReader(tt.input), Out: out}

			confirmed, err := confirmer.Confirm("Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, confirmed)
			assert.Contains(t, out.String(), "Type 'yes'")
		})
	}
}
