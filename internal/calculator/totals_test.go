package calculator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, rate string) models.LineItem {
	return models.LineItem{Quantity: d(qty), Rate: d(rate), Amount: d(qty).Mul(d(rate))}
}

func TestCalculateTotals(t *testing.T) {
	consulting := []models.LineItem{item("40", "150"), item("20", "120")}

	tests := []struct {
		name  string
		items []models.LineItem
		adj   models.Adjustments
		want  models.Totals
	}{
		{
			name:  "tax only",
			items: consulting,
			adj:   models.Adjustments{TaxRate: d("10")},
			want: models.Totals{
				Subtotal: d("8400"), Taxable: d("8400"), Tax: d("840"), Total: d("9240"), BalanceDue: d("9240"),
			},
		},
		{
			name:  "discount and shipping applied before tax",
			items: consulting,
			adj:   models.Adjustments{Discount: d("400"), Shipping: d("100"), TaxRate: d("10")},
			want: models.Totals{
				Subtotal: d("8400"), Taxable: d("8100"), Tax: d("810"), Total: d("8910"), BalanceDue: d("8910"),
			},
		},
		{
			name:  "fully paid",
			items: consulting,
			adj:   models.Adjustments{TaxRate: d("10"), AmountPaid: d("9240")},
			want: models.Totals{
				Subtotal: d("8400"), Taxable: d("8400"), Tax: d("840"), Total: d("9240"), BalanceDue: d("0"),
			},
		},
		{
			name:  "overpaid balance is not clamped",
			items: consulting,
			adj:   models.Adjustments{TaxRate: d("10"), AmountPaid: d("10000")},
			want: models.Totals{
				Subtotal: d("8400"), Taxable: d("8400"), Tax: d("840"), Total: d("9240"), BalanceDue: d("-760"),
			},
		},
		{
			name:  "no items is a zero invoice",
			items: nil,
			adj:   models.Adjustments{TaxRate: d("10")},
			want: models.Totals{
				Subtotal: d("0"), Taxable: d("0"), Tax: d("0"), Total: d("0"), BalanceDue: d("0"),
			},
		},
		{
			name:  "fractional rate keeps full precision",
			items: []models.LineItem{item("3", "0.333")},
			adj:   models.Adjustments{TaxRate: d("7.25")},
			want: models.Totals{
				Subtotal: d("0.999"), Taxable: d("0.999"), Tax: d("0.0724275"), Total: d("1.0714275"), BalanceDue: d("1.0714275"),
			},
		},
		{
			name:  "amount field is not trusted",
			items: []models.LineItem{{Quantity: d("2"), Rate: d("5"), Amount: d("999")}},
			adj:   models.Adjustments{},
			want: models.Totals{
				Subtotal: d("10"), Taxable: d("10"), Tax: d("0"), Total: d("10"), BalanceDue: d("10"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.adj)
			assertTotals(t, got, tt.want)
		})
	}
}

func assertTotals(t *testing.T, got, want models.Totals) {
	t.Helper()
	check := func(field string, g, w decimal.Decimal) {
		if !g.Equal(w) {
			t.Errorf("%s = %s, want %s", field, g, w)
		}
	}
	check("Subtotal", got.Subtotal, want.Subtotal)
	check("Taxable", got.Taxable, want.Taxable)
	check("Tax", got.Tax, want.Tax)
	check("Total", got.Total, want.Total)
	check("BalanceDue", got.BalanceDue, want.BalanceDue)
}

func TestCalculateTotals_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	one := decimal.NewFromInt(1)

	for i := 0; i < 200; i++ {
		n := rng.Intn(6)
		items := make([]models.LineItem, n)
		sum := decimal.Zero
		for j := range items {
			qty := decimal.New(rng.Int63n(10000), -2)
			rate := decimal.New(rng.Int63n(100000), -2)
			items[j] = models.LineItem{Quantity: qty, Rate: rate, Amount: qty.Mul(rate)}
			sum = sum.Add(qty.Mul(rate))
		}
		adj := models.Adjustments{
			Discount:   decimal.New(rng.Int63n(5000), -2),
			Shipping:   decimal.New(rng.Int63n(5000), -2),
			TaxRate:    decimal.New(rng.Int63n(3000), -2),
			AmountPaid: decimal.New(rng.Int63n(200000), -2),
		}

		got := CalculateTotals(items, adj)

		if !got.Subtotal.Equal(sum) {
			t.Fatalf("case %d: subtotal %s != Σ qty×rate %s", i, got.Subtotal, sum)
		}
		taxable := sum.Sub(adj.Discount).Add(adj.Shipping)
		wantTotal := taxable.Mul(one.Add(adj.TaxRate.Shift(-2)))
		if !got.Total.Equal(wantTotal) {
			t.Fatalf("case %d: total %s, want %s", i, got.Total, wantTotal)
		}
		if !got.BalanceDue.Equal(got.Total.Sub(adj.AmountPaid)) {
			t.Fatalf("case %d: balance due %s != total - paid", i, got.BalanceDue)
		}

		again := CalculateTotals(items, adj)
		assertTotals(t, again, got)
	}
}
