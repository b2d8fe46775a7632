package market

import "strings"

// SymbolSpec carries the pip/contract conventions for one symbol.
// PipMultiplier converts a raw price difference into pips;
// ContractSize is the notional units represented by one lot.
type SymbolSpec struct {
	PipMultiplier float64
	ContractSize  float64
}

// PipValue is the account-currency value of one pip for one lot.
func (s SymbolSpec) PipValue() float64 {
	return s.ContractSize / s.PipMultiplier
}

// DefaultSpec is used for symbols not present in the table.
var DefaultSpec = SymbolSpec{PipMultiplier: 10000, ContractSize: 100000}

// Symbols is keyed by uppercased symbol name. Broker-suffixed names
// (e.g. "EURUSDm") that are not listed fall back to DefaultSpec.
var Symbols = map[string]SymbolSpec{
	"EURUSD": {PipMultiplier: 10000, ContractSize: 100000},
	"GBPUSD": {PipMultiplier: 10000, ContractSize: 100000},
	"AUDUSD": {PipMultiplier: 10000, ContractSize: 100000},
	"NZDUSD": {PipMultiplier: 10000, ContractSize: 100000},
	"USDCHF": {PipMultiplier: 10000, ContractSize: 100000},
	"USDCAD": {PipMultiplier: 10000, ContractSize: 100000},
	"USDJPY": {PipMultiplier: 100, ContractSize: 100000},
	"EURJPY": {PipMultiplier: 100, ContractSize: 100000},
	"GBPJPY": {PipMultiplier: 100, ContractSize: 100000},
	"XAUUSD": {PipMultiplier: 10, ContractSize: 100},
	"XAGUSD": {PipMultiplier: 100, ContractSize: 5000},
	"US30":   {PipMultiplier: 1, ContractSize: 1},
	"NAS100": {PipMultiplier: 1, ContractSize: 1},
	"SPX500": {PipMultiplier: 1, ContractSize: 1},
	"BTCUSD": {PipMultiplier: 1, ContractSize: 1},
}

// Spec looks up the conventions for symbol, falling back to DefaultSpec
// for unknown names. Lookup is case-insensitive.
func Spec(symbol string) SymbolSpec {
	if s, ok := Symbols[strings.ToUpper(symbol)]; ok {
		return s
	}
	return DefaultSpec
}
