package coords_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngff-go/zarrgo/coords"
)

// spec.md §8 scenario 5.
func TestNewService_ComposesDatasetBeforeMultiscale(t *testing.T) {
	dataset := []coords.Transform{{Kind: coords.Scale, Vector: []float64{2, 0.5, 0.5}}}
	multiscale := []coords.Transform{{Kind: coords.Translation, Vector: []float64{0, 10, 20}}}

	svc, err := coords.NewService(3, dataset, multiscale)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0.5, 0.5}, svc.Scale())
	require.Equal(t, []float64{0, 10, 20}, svc.Translation())

	start, end, err := svc.PhysicalToPixelRegion([]float64{0, 10, 20}, []float64{4, 5, 6}, []int64{100, 100, 100})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 0}, start)
	require.Equal(t, []int64{2, 10, 12}, end)
}

func TestPhysicalIndexRoundTrip(t *testing.T) {
	svc, err := coords.NewService(2, nil, []coords.Transform{
		{Kind: coords.Scale, Vector: []float64{2, 3}},
		{Kind: coords.Translation, Vector: []float64{5, 7}},
	})
	require.NoError(t, err)

	idx := []float64{1, 2}
	phys, err := svc.IndexToPhysical(idx)
	require.NoError(t, err)

	back, err := svc.PhysicalToIndex(phys)
	require.NoError(t, err)
	for d := range idx {
		require.InDelta(t, idx[d], back[d], 1e-9)
	}
}

func TestPhysicalToPixelRegion_DegenerateAxisWidened(t *testing.T) {
	svc, err := coords.NewService(1, nil, nil)
	require.NoError(t, err)

	start, end, err := svc.PhysicalToPixelRegion([]float64{9.9}, []float64{0.01}, []int64{10})
	require.NoError(t, err)
	require.Less(t, start[0], end[0])
	require.LessOrEqual(t, end[0], int64(10))

	// An ROI past the array's end clamps to [12, 10), which is degenerate
	// and is widened to the last pixel.
	start, end, err = svc.PhysicalToPixelRegion([]float64{12}, []float64{1}, []int64{10})
	require.NoError(t, err)
	require.Equal(t, []int64{9}, start)
	require.Equal(t, []int64{10}, end)
}

func TestCompose_RejectsUnknownKind(t *testing.T) {
	_, _, err := coords.Compose(1, []coords.Transform{{Kind: coords.Kind(99)}})
	require.Error(t, err)
}

func TestCompose_RejectsRankMismatch(t *testing.T) {
	_, _, err := coords.Compose(2, []coords.Transform{{Kind: coords.Scale, Vector: []float64{1}}})
	require.Error(t, err)
}
