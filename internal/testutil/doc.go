// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing core model objects (strategies,
// populated memories) and driving time. They are not intended for production
// usage.
package testutil
