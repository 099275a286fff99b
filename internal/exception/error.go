package exception

import "errors"

// ErrRecordNotFound custom database error for failure to find record
var ErrRecordNotFound = errors.New("record not found")

// ErrInvalidRequest returned when a scan request fails validation
var ErrInvalidRequest = errors.New("invalid scan request")

// ErrInvalidPortSpec returned when a port specification cannot be parsed
var ErrInvalidPortSpec = errors.New("invalid port specification")

// ErrInvalidHost returned when a host is neither an IP nor a domain name
var ErrInvalidHost = errors.New("invalid host")

// ErrInvalidCIDR returned when a CIDR block cannot be expanded
var ErrInvalidCIDR = errors.New("invalid cidr")

// ErrScanCanceled returned alongside partial results of a canceled scan
var ErrScanCanceled = errors.New("scan canceled")

// ErrScanInProgress returned when a scan is requested while one is running
var ErrScanInProgress = errors.New("scan already in progress")
