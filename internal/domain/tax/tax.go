package tax

import (
	"github.com/shopspring/decimal"
)

// Rate is the sales tax percentage applied to orders in one state.
type Rate struct {
	State        string `validate:"required"`
	Abbreviation string `validate:"required,len=2,uppercase"`
	Rate         decimal.Decimal
}

// Provider exposes the tax catalog. State names are expected to be unique;
// callers detect violations when matching.
type Provider interface {
	Rates() []Rate
}

// Table is an in-memory Provider.
type Table []Rate

// Rates returns a copy of the table entries.
func (t Table) Rates() []Rate {
	out := make([]Rate, len(t))
	copy(out, t)
	return out
}

// Match returns every rate whose state name equals state exactly.
func Match(rates []Rate, state string) []Rate {
	var out []Rate
	for _, r := range rates {
		if r.State == state {
			out = append(out, r)
		}
	}
	return out
}
