package idx_test

import (
	"testing"
	"time"

	"github.com/cobaltlabs/passport/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := idx.Parse("")
	require.ErrorIs(t, err, idx.ErrInvalid)

	_, err = idx.Parse("not-a-ulid")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
}

func TestMonotonicWithinSameMillisecond(t *testing.T) {
	tm := time.Unix(42, 0).UTC()

	a := idx.NewAt(tm)
	b := idx.NewAt(tm)

	// Monotonic entropy keeps same-millisecond IDs sortable.
	require.Less(t, a.String(), b.String())
}
