package scraper

import (
	"testing"

	"pricewatch/models"

	"github.com/stretchr/testify/require"
)

func Test_Normalize_USFormat(t *testing.T) {
	t.Parallel()
	settings := models.Settings{DecimalSeparator: ".", ThousandsSeparator: ","}

	price, ok := Normalize("$ 1,234.56", settings)
	require.True(t, ok)
	require.Equal(t, "1234.56", price.String())
}

func Test_Normalize_EuropeanFormat(t *testing.T) {
	t.Parallel()
	settings := models.Settings{DecimalSeparator: ",", ThousandsSeparator: "."}

	price, ok := Normalize("1.234,56 €", settings)
	require.True(t, ok)
	require.Equal(t, "1234.56", price.String())
}

func Test_Normalize_Unparseable(t *testing.T) {
	t.Parallel()
	settings := models.DefaultSettings()

	_, ok := Normalize("N/A", settings)
	require.False(t, ok)
}

func Test_Normalize_Cases(t *testing.T) {
	t.Parallel()
	us := models.Settings{DecimalSeparator: ".", ThousandsSeparator: ","}
	eu := models.Settings{DecimalSeparator: ",", ThousandsSeparator: "."}

	cases := []struct {
		name     string
		raw      string
		settings models.Settings
		want     string
		ok       bool
	}{
		{"plain integer", "1299", us, "1299", true},
		{"currency suffix", "1.299,00 COP", eu, "1299", true},
		{"negative", "-45.50", us, "-45.5", true},
		{"whitespace wrapped", "  $ 99.99  ", us, "99.99", true},
		{"thousands only", "1,299,000", us, "1299000", true},
		{"empty string", "", us, "", false},
		{"letters only", "precio no disponible", us, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := Normalize(tc.raw, tc.settings)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.want, price.String())
			}
		})
	}
}

func Test_Normalize_BlankSeparatorsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	price, ok := Normalize("$ 1,234.56", models.Settings{})
	require.True(t, ok)
	require.Equal(t, "1234.56", price.String())
}
