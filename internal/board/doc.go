// Package board turns normalized tournaments and a filter state into the
// rows a presentation layer displays.
//
// Build runs the whole cycle on every call: filter, stable sort, then one
// View per remaining row with formatted fields and a highlight class. There
// is no incremental state between calls.
package board
