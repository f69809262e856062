package fs_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/core"
)

// TestConcurrency_WritersAndReaders checks that readers never observe a
// partially written slot while several writers replace it.
func TestConcurrency_WritersAndReaders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	dir := t.TempDir()
	writer := newStore(t, fs.Config{Path: dir})
	reader := fs.NewStore(fs.Config{Path: dir})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	payload := func(n int) []core.Note {
		notes := make([]core.Note, n)
		for i := range notes {
			notes[i] = core.Note{ID: fmt.Sprint(i), Title: fmt.Sprintf("note %d of %d", i, n), Content: "x", Tag: "Work"}
		}
		return notes
	}
	require.NoError(t, writer.SaveNotes(ctx, payload(1)))

	var wg sync.WaitGroup
	for w := 1; w <= 3; w++ {
		wg.Add(1)
		go func(size int) {
			defer wg.Done()
			for ctx.Err() == nil {
				assert.NoError(t, writer.SaveNotes(context.Background(), payload(size*50)))
			}
		}(w)
	}

	torn := 0
	for ctx.Err() == nil {
		notes := reader.LoadNotes(context.Background())
		if len(notes) == len(core.DefaultNotes()) && notes[0].ID == "" {
			torn++
			continue
		}
		n := len(notes)
		if assert.Contains(t, []int{1, 50, 100, 150}, n) {
			assert.Equal(t, fmt.Sprintf("note %d of %d", n-1, n), notes[n-1].Title)
		}
	}
	wg.Wait()

	assert.Zero(t, torn, "reader fell back to defaults while writers were active")
}
