package documents_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/alquileres-api/internal/application/documents"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "cero pesos"},
		{"1", "un peso"},
		{"15", "quince pesos"},
		{"21", "veintiún pesos"},
		{"31", "treinta y un pesos"},
		{"100", "cien pesos"},
		{"101", "ciento un pesos"},
		{"1500", "mil quinientos pesos"},
		{"21000", "veintiún mil pesos"},
		{"1000000", "un millón de pesos"},
		{"2500000", "dos millones quinientos mil pesos"},
		{"1234.56", "mil doscientos treinta y cuatro pesos con 56/100"},
		{"50.5", "cincuenta pesos con 50/100"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, documents.AmountInWords(decimal.RequireFromString(tt.amount)))
		})
	}
}
