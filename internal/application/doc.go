// Package application provides application initialization and dependency wiring.
// It seeds storage with the configured tank systems and builds the calculator,
// handlers, routers and HTTP server, keeping the main package focused on CLI
// parsing and orchestration.
package application
