// Package handlers holds the RunE functions for rollupctl commands. Each
// handler sets up logging, calls the API client and hands the result to the
// display package.
package handlers
