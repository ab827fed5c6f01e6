// Package services orchestrates the plot domain packages into the use cases
// served by the HTTP handlers and the CLI.
package services

import (
	"errors"
)

// Service-level errors
var (
	ErrPlotNotFound      = errors.New("plot not found")
	ErrInvalidPlotID     = errors.New("plot id must be a numeric OBJECTID")
	ErrInvalidStatus     = errors.New("invalid plot status")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrDataNotLoaded     = errors.New("plot data is not loaded")
	ErrInvalidViewMode   = errors.New("invalid view mode")
	ErrInvalidYearRange  = errors.New("invalid year range")
	ErrRequestNotFound   = errors.New("request not found")
	ErrWorkOrderNotFound = errors.New("work order not found")
	ErrIssueNotFound     = errors.New("issue not found")
)

// StatusAll selects every plot when listing by status.
const StatusAll = "All"

// MaxSearchResults caps the plot search result list.
const MaxSearchResults = 50
