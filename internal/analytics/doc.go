// Package analytics scores creator supplied video metrics against fixed
// thresholds and turns weak results into improvement tips.
package analytics
