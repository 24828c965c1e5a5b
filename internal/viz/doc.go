// Package viz renders assembled setups, assembly failures and flight
// traces for the terminal.
package viz
