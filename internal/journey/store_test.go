package journey

import (
	"context"
	"testing"

	"github.com/adermis/adermis/internal/models"
	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"
)

func newSessionContext(t *testing.T) (*Store, context.Context) {
	t.Helper()
	sessions := scs.New()
	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	return NewStore(sessions), ctx
}

func TestStoreLifecycle(t *testing.T) {
	store, ctx := newSessionContext(t)

	// Initial state: empty input, no result, empty treatment.
	require.Equal(t, models.ScanInput{}, store.Input(ctx))
	_, ok := store.Result(ctx)
	require.False(t, ok)
	require.Empty(t, store.Treatment(ctx))

	input := models.ScanInput{
		ImageToken:       "token",
		ImageName:        "captured-image.jpg",
		TextDescription:  "itchy red patch",
		SelectedConcerns: []string{"Persistent redness"},
	}
	store.SetInput(ctx, input)
	require.Equal(t, input, store.Input(ctx))

	result := models.AnalysisResult{
		Condition:       "Eczema",
		Confidence:      92,
		Severity:        models.SeverityHigh,
		Description:     "The analysis indicates a likelihood of Eczema.",
		Recommendations: []string{"Consult with a dermatologist for a definitive diagnosis."},
	}
	store.SetResult(ctx, result)
	got, ok := store.Result(ctx)
	require.True(t, ok)
	require.Equal(t, result, got)

	store.SetTreatment(ctx, "**Diagnosis:** mild eczema")
	require.Equal(t, "**Diagnosis:** mild eczema", store.Treatment(ctx))

	// A new analysis replaces the result wholesale.
	replacement := models.AnalysisResult{Condition: "Psoriasis", Confidence: 60, Severity: models.SeverityMedium}
	store.SetResult(ctx, replacement)
	got, ok = store.Result(ctx)
	require.True(t, ok)
	require.Equal(t, replacement, got)

	store.Reset(ctx)
	require.Equal(t, models.ScanInput{}, store.Input(ctx))
	_, ok = store.Result(ctx)
	require.False(t, ok)
	require.Empty(t, store.Treatment(ctx))
}

func TestStoreAnalysisGuard(t *testing.T) {
	sessions := scs.New()
	store := NewStore(sessions)

	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	sessions.Put(ctx, "seen", true)
	token, _, err := sessions.Commit(ctx)
	require.NoError(t, err)

	// Two concurrent requests from the same browser each load their own
	// copy of the committed session. The guard must reject the second one
	// even though nothing it put in the first copy has been committed yet.
	first, err := sessions.Load(context.Background(), token)
	require.NoError(t, err)
	second, err := sessions.Load(context.Background(), token)
	require.NoError(t, err)

	require.True(t, store.BeginAnalysis(first))
	require.False(t, store.BeginAnalysis(second))

	// An unrelated session is not blocked.
	other, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	require.True(t, store.BeginAnalysis(other))
	store.EndAnalysis(other)

	store.EndAnalysis(first)
	require.True(t, store.BeginAnalysis(second))
	store.EndAnalysis(second)
}
