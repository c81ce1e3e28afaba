package documents

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	unidades = [...]string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	diez     = [...]string{"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve"}
	veinte   = [...]string{"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve"}
	decenas  = [...]string{"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	centenas = [...]string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// AmountInWords expresa un importe en letras para el recibo, p. ej. 1500 → "mil quinientos pesos".
// Los centavos se agregan como "con NN/100".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	switch {
	case whole == 0:
		b.WriteString("cero pesos")
	case whole == 1:
		b.WriteString("un peso")
	case whole%1_000_000 == 0:
		b.WriteString(apocope(integerWords(whole)) + " de pesos")
	default:
		b.WriteString(apocope(integerWords(whole)) + " pesos")
	}
	if cents > 0 {
		fmt.Fprintf(&b, " con %02d/100", cents)
	}
	return b.String()
}

func integerWords(n int64) string {
	switch {
	case n >= 1_000_000:
		millions, rest := n/1_000_000, n%1_000_000
		head := "un millón"
		if millions > 1 {
			head = apocope(integerWords(millions)) + " millones"
		}
		if rest == 0 {
			return head
		}
		return head + " " + integerWords(rest)
	case n >= 1000:
		thousands, rest := n/1000, n%1000
		head := "mil"
		if thousands > 1 {
			head = apocope(integerWords(thousands)) + " mil"
		}
		if rest == 0 {
			return head
		}
		return head + " " + integerWords(rest)
	case n >= 100:
		if n == 100 {
			return "cien"
		}
		head, rest := centenas[n/100], n%100
		if rest == 0 {
			return head
		}
		return head + " " + integerWords(rest)
	case n >= 30:
		head, rest := decenas[n/10], n%10
		if rest == 0 {
			return head
		}
		return head + " y " + unidades[rest]
	case n >= 20:
		return veinte[n-20]
	case n >= 10:
		return diez[n-10]
	}
	return unidades[n]
}

// apocope acorta "uno" delante de un sustantivo: "veintiuno" → "veintiún", "treinta y uno" → "treinta y un".
func apocope(s string) string {
	switch {
	case strings.HasSuffix(s, "veintiuno"):
		return strings.TrimSuffix(s, "veintiuno") + "veintiún"
	case strings.HasSuffix(s, "uno"):
		return strings.TrimSuffix(s, "uno") + "un"
	}
	return s
}
