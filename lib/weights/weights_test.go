package weights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	require.Equal(t, 1.5, Fixed(1.5).Weight(context.Background(), "10870", "anything"))
}

func TestTable(t *testing.T) {
	table := NewTable(map[string]map[string]float64{
		"10870": {
			"AP Calculus BC": 1.2,
			"Algebra II":     1.0,
			"Honors Biology": 1.1,
		},
	})
	ctx := context.Background()

	require.Equal(t, 1.2, table.Weight(ctx, "10870", "AP Calculus BC"))
	// display-name drift should still resolve
	require.Equal(t, 1.1, table.Weight(ctx, "10870", "Honors Biology 1"))
	// unknown district and unrelated course names weigh 1
	require.Equal(t, 1.0, table.Weight(ctx, "99999", "AP Calculus BC"))
	require.Equal(t, 1.0, table.Weight(ctx, "10870", "Woodshop"))
}
