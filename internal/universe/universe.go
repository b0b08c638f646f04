package universe

// Universe is the fixed set of instruments offered in the pickers.
type Universe struct {
	Stocks  []string
	Indexes []string
}

// Default returns the built-in equity list and the index ETFs used for comparison.
func Default() Universe {
	return Universe{
		Stocks:  append([]string(nil), defaultStocks...),
		Indexes: append([]string(nil), defaultIndexes...),
	}
}

// ComparisonOptions lists the index ETFs followed by the stocks.
func (u Universe) ComparisonOptions() []string {
	out := make([]string, 0, len(u.Indexes)+len(u.Stocks))
	out = append(out, u.Indexes...)
	return append(out, u.Stocks...)
}

func (u Universe) IsStock(symbol string) bool {
	return contains(u.Stocks, symbol)
}

// IsComparable reports whether symbol may be chosen as a comparison instrument.
func (u Universe) IsComparable(symbol string) bool {
	return contains(u.Indexes, symbol) || contains(u.Stocks, symbol)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var defaultIndexes = []string{"URTH", "SPY", "QQQ"}

var defaultStocks = []string{
	"AAPL", "ABNB", "ACGL", "ADBE", "ADI", "ADP", "ADSK", "AEP", "AKAM", "ALGN",
	"AMAT", "AMD", "AMGN", "AMZN", "ANSS", "APP", "ARGX", "ARM", "ASML", "AVGO",
	"AXON", "AZN", "AZPN", "BIIB", "BKNG", "BNTX", "BSY", "CASY", "CCEP", "CDNS",
	"CDW", "CEG", "CELH", "CHKP", "CHTR", "CMCSA", "CME", "COIN", "COO", "COST",
	"CPRT", "CRSP", "CRWD", "CSCO", "CSGP", "CSX", "CTAS", "CTSH", "CYBR", "DASH",
	"DDOG", "DKNG", "DLTR", "DOCU", "DOX", "DXCM", "EA", "EBAY", "ENPH", "EQIX",
	"EXC", "EXPE", "FANG", "FAST", "FFIV", "FIVE", "FLEX", "FOXA", "FSLR", "FTNT",
	"GEHC", "GEN", "GFS", "GILD", "GMAB", "GOOG", "HON", "ICLR", "IDXX", "ILMN",
	"INTC", "INTU", "ISRG", "JKHY", "KDP", "KHC", "KLAC", "LIN", "LKQ", "LOGI",
	"LRCX", "LSCC", "LULU", "MANH", "MAR", "MCHP", "MDB", "MDLZ", "META", "MNDY",
	"MNST", "MPWR", "MRNA", "MRVL", "MSFT", "MSTR", "MU", "NDAQ", "NFLX", "NICE",
	"NTAP", "NTNX", "NVDA", "NWSA", "NXPI", "ODFL", "OKTA", "ON", "ORLY", "OTEX",
	"PANW", "PAYX", "PCAR", "PEP", "POOL", "PTC", "PYPL", "QCOM", "QRVO", "REGN",
	"RIVN", "ROP", "ROST", "SBUX", "SIRI", "SMCI", "SNPS", "SNY", "SPLK", "SSNC",
	"STX", "SWKS", "TEAM", "TER", "TMUS", "TRMB", "TSCO", "TSLA", "TTD", "TTWO",
	"TXN", "ULTA", "VRSK", "VRSN", "VRTX", "WBD", "WDAY", "WDC", "WING", "WYNN",
	"Z", "ZBRA", "ZG", "ZM", "ZS",
}
