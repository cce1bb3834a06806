package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// AddAmount acumula delta en la moneda indicada y devuelve la lista resultante ordenada por moneda.
// Las monedas que quedan en cero se conservan para no perder el historial de la ubicación.
func AddAmount(values []entity.CurrencyAmount, currency string, delta decimal.Decimal) []entity.CurrencyAmount {
	out := make([]entity.CurrencyAmount, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v.Currency == currency {
			v.Amount = v.Amount.Add(delta)
			found = true
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, entity.CurrencyAmount{Currency: currency, Amount: delta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// SumByCurrency agrupa el costo de compra de los ítems por moneda.
func SumByCurrency(items []*entity.ProductItem) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, it := range items {
		sums[it.Currency] = sums[it.Currency].Add(it.PurchaseCost)
	}
	return sums
}

// AmountOf devuelve el monto acumulado en una moneda (cero si no existe).
func AmountOf(values []entity.CurrencyAmount, currency string) decimal.Decimal {
	for _, v := range values {
		if v.Currency == currency {
			return v.Amount
		}
	}
	return decimal.Zero
}
