// Package tournament turns loosely formatted spreadsheet rows into typed poker
// tournament listings.
//
// A Row is the raw column -> text mapping read from the published sheet. The
// parsers in this package are total: malformed amounts, dates or prize lists
// degrade to an absent field (a nil pointer on Tournament) and never abort the
// row. Normalize combines them and computes the prize multiplier, the ratio of
// total prize pool to entry cost that the listing board ranks events by.
package tournament
