package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStore_IsolatesSenders(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "6281", NewAddingTask()))
	require.NoError(t, s.Set(ctx, "6282", NewRegistering()))

	got, ok, err := s.Get(ctx, "6281")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlowAddingTask, got.Flow())

	got, ok, err = s.Get(ctx, "6282")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlowRegistering, got.Flow())

	require.NoError(t, s.Delete(ctx, "6281"))
	_, ok, _ = s.Get(ctx, "6281")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "6282")
	assert.True(t, ok)
}

func TestMemoryStore_SetNilDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a", NewUserMenu()))
	require.NoError(t, s.Set(ctx, "a", nil))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sender := fmt.Sprintf("62%d", i)
			_ = s.Set(ctx, sender, NewAddingUser())
			_, _, _ = s.Get(ctx, sender)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, s.Len())
}

func TestAddingTask_WithPhotoDoesNotAlias(t *testing.T) {
	base := NewAddingTask().WithPhoto("a.jpg")
	left := base.WithPhoto("b.jpg")
	right := base.WithPhoto("c.jpg")

	assert.Equal(t, []string{"a.jpg"}, base.Photos)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, left.Photos)
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, right.Photos)
}

func TestCodec_RoundTripsEveryFlow(t *testing.T) {
	states := []State{
		NewRegistering(),
		AddingTask{Step: StepWaitingForImage, Title: "Laporan", Deadline: "2024-05-01", Photos: []string{"x.jpg"}},
		EditingTask{Step: StepWaitingForImageDecision, TaskID: 7, NewTitle: "Baru", NewDeadline: "2024-06-01"},
		AddingUser{Step: StepWaitingForRole, Phone: "628123", Name: "Budi"},
		NewChangingRole("628123", "Budi"),
		NewDeletingUser("628123", "Budi"),
		NewUserMenu(),
	}
	for _, want := range states {
		flow, payload, err := Encode(want)
		require.NoError(t, err)
		got, err := Decode(flow, payload)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecode_UnknownFlow(t *testing.T) {
	_, err := Decode(Flow("dancing"), []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownFlow)
}
