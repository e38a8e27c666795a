// Package score turns an extraction into a [0,1] confidence value and a list
// of review reasons for the operator-facing quality report.
package score
