// Package validation parses and range-checks tank cascade input before it
// reaches the calculator. Unlike the calculator's own checks, it collects every
// violation it finds and reports them together.
package validation
