// Package request provides functions to extract parameters from the request.
package request

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Path returns the value of the named path parameter.
// The return value is trimmed of leading and trailing whitespace.
func Path(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

// Query returns the value of the named query parameter.
// The return value is trimmed of leading and trailing whitespace.
func Query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// QueryInt returns the value of the named query parameter as int.
// If the parameter is missing or not a number, it returns the default value.
func QueryInt(r *http.Request, name string, defaultValue int) int {
	value := Query(r, name)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// QueryBool returns the value of the named query parameter as bool.
// If the parameter is missing or not a boolean, it returns the default value.
func QueryBool(r *http.Request, name string, defaultValue bool) bool {
	value := Query(r, name)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// QueryTime returns the value of the named query parameter as RFC 3339 time.
// If the parameter is missing or malformed, it returns the zero time.
func QueryTime(r *http.Request, name string) time.Time {
	value := Query(r, name)
	if value == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ClientAddress returns the remote address of the request, without the port.
func ClientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
