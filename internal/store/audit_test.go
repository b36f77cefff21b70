package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
)

func TestMarshalParams(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"nil", nil, "[]"},
		{"positional", []any{"Y", int64(3), nil, true}, `["Y",3,null,true]`},
		{"named", map[string]any{"@p0": "Y", "@id": int64(3)}, `{"@id":3,"@p0":"Y"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalParams(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := MarshalParams([]any{1.5})
	assert.Error(t, err)
}

func TestRecordCompensation(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("rec-1", "rec-2", "rec-3")))

	first := &Record{
		RunID:          "run-1",
		Query:          "active_customers",
		Dialect:        "relational",
		OriginalSQL:    `SELECT 1 WHERE "is_active"`,
		CompensatedSQL: `SELECT 1 WHERE "is_active" = ?`,
		Params:         `["Y"]`,
		Fingerprint:    ir.MustQueryFingerprint(`SELECT 1 WHERE "is_active" = ?`, []any{"Y"}),
		Visited:        5,
		Rewritten:      1,
	}
	inserted, err := s.RecordCompensation(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "rec-1", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, ir.ModelVersion, first.ModelVersion)
	assert.Equal(t, ir.ToolVersion, first.ToolVersion)

	second := &Record{RunID: "run-1", Query: "other", Fingerprint: "fp-2"}
	inserted, err = s.RecordCompensation(ctx, second)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, "[]", second.Params)

	// Same run and fingerprint: ignored, existing identity returned.
	dup := &Record{RunID: "run-1", Query: "again", Fingerprint: first.Fingerprint}
	inserted, err = s.RecordCompensation(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "rec-1", dup.ID)
	assert.Equal(t, int64(1), dup.Seq)

	recs, err := s.ReadCompensations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, *first, recs[0])
	assert.Equal(t, "other", recs[1].Query)
}

func TestRecordCompensation_SeqPerRun(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	a := &Record{RunID: "run-a", Fingerprint: "x"}
	b := &Record{RunID: "run-b", Fingerprint: "x"}
	_, err := s.RecordCompensation(ctx, a)
	require.NoError(t, err)
	inserted, err := s.RecordCompensation(ctx, b)
	require.NoError(t, err)

	assert.True(t, inserted, "fingerprints are unique per run only")
	assert.Equal(t, int64(1), b.Seq)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRecordCompensation_Validation(t *testing.T) {
	s := createTestStore(t)
	_, err := s.RecordCompensation(context.Background(), &Record{Fingerprint: "x"})
	assert.ErrorContains(t, err, "run id is required")
	_, err = s.RecordCompensation(context.Background(), &Record{RunID: "r"})
	assert.ErrorContains(t, err, "fingerprint is required")
}

func TestReadCompensations_Empty(t *testing.T) {
	s := createTestStore(t)
	recs, err := s.ReadCompensations(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	older := s.NewRunID()
	newer := s.NewRunID()
	for _, r := range []*Record{
		{RunID: newer, Fingerprint: "1"},
		{RunID: older, Fingerprint: "1"},
		{RunID: older, Fingerprint: "2"},
	} {
		_, err := s.RecordCompensation(ctx, r)
		require.NoError(t, err)
	}

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{older, newer}, runs)
}
