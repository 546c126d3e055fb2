package models

import "github.com/shopspring/decimal"

func init() {
	// amounts go out as JSON numbers (16500), not strings ("16500")
	decimal.MarshalJSONWithoutQuotes = true
}
