// Package main provides the entry point for the AdOperator CLI.
//
// AdOperator turns a product description into a strategic reading, ad
// variations, an audience simulation and a final decision, one backend stage
// at a time. The CLI also runs the local offline worker that fronts the web
// app and delivers push notifications.
//
// Usage:
//
//	adoperator login --email you@example.com
//	adoperator analysis new --name "Sérum X" --niche skincare --promise "pele firme"
//	adoperator serve
//
// See --help for all available options.
package main

// main is the entry point for AdOperator.
func main() {
	Execute()
}
