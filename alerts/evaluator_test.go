package alerts

import (
	"testing"

	"pricewatch/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func Test_Evaluate_ThresholdReached(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Monitor", URL: "https://amazon.com/dp/m", TargetPrice: dec(t, "100")}

	result := Evaluate(product, decimal.NewFromInt(95), nil, models.DefaultSettings())
	require.Len(t, result, 1)
	require.Equal(t, models.AlertTypeThreshold, result[0].Type)
	require.Contains(t, result[0].Message, "Monitor")
	require.Contains(t, result[0].Message, product.URL)
}

func Test_Evaluate_ThresholdBoundaryInclusive(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Monitor", TargetPrice: dec(t, "100")}

	result := Evaluate(product, decimal.NewFromInt(100), nil, models.DefaultSettings())
	require.Len(t, result, 1)
}

func Test_Evaluate_AboveTarget(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Monitor", TargetPrice: dec(t, "100")}

	result := Evaluate(product, decimal.NewFromInt(105), nil, models.DefaultSettings())
	require.Empty(t, result)
}

func Test_Evaluate_DropScenarios(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Headphones", AlertDropPercent: dec(t, "5")}
	prior := dec(t, "200")

	cases := []struct {
		name  string
		price int64
		fires bool
	}{
		{"well past threshold", 180, true}, // 10% drop
		{"exactly at threshold", 190, true}, // 5% drop, boundary inclusive
		{"just under threshold", 191, false}, // 4.5% drop
		{"price unchanged", 200, false},
		{"price rose", 210, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(product, decimal.NewFromInt(tc.price), prior, models.DefaultSettings())
			if tc.fires {
				require.Len(t, result, 1)
				require.Equal(t, models.AlertTypeDrop, result[0].Type)
			} else {
				require.Empty(t, result)
			}
		})
	}
}

func Test_Evaluate_DropNeedsPriorReading(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Headphones", AlertDropPercent: dec(t, "5")}

	result := Evaluate(product, decimal.NewFromInt(1), nil, models.DefaultSettings())
	require.Empty(t, result)
}

func Test_Evaluate_DropIgnoresZeroPrior(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Headphones", AlertDropPercent: dec(t, "5")}
	zero := decimal.Zero

	result := Evaluate(product, decimal.NewFromInt(1), &zero, models.DefaultSettings())
	require.Empty(t, result)
}

func Test_Evaluate_BothRulesFire(t *testing.T) {
	t.Parallel()
	product := models.Product{
		Name:             "Console",
		TargetPrice:      dec(t, "400"),
		AlertDropPercent: dec(t, "10"),
	}
	prior := dec(t, "500")

	result := Evaluate(product, decimal.NewFromInt(350), prior, models.DefaultSettings())
	require.Len(t, result, 2)
	require.Equal(t, models.AlertTypeThreshold, result[0].Type)
	require.Equal(t, models.AlertTypeDrop, result[1].Type)
}

func Test_Evaluate_NoRulesConfigured(t *testing.T) {
	t.Parallel()
	product := models.Product{Name: "Plain"}
	prior := dec(t, "500")

	result := Evaluate(product, decimal.NewFromInt(1), prior, models.DefaultSettings())
	require.Empty(t, result)
}

func Test_RisePercent(t *testing.T) {
	t.Parallel()
	prior := dec(t, "100")

	rise, rose := RisePercent(decimal.NewFromInt(110), prior)
	require.True(t, rose)
	require.Equal(t, "10.0", rise.StringFixed(1))

	_, rose = RisePercent(decimal.NewFromInt(90), prior)
	require.False(t, rose)

	_, rose = RisePercent(decimal.NewFromInt(110), nil)
	require.False(t, rose)
}
