// Package types holds small value types shared by the repository layer:
// named query parameters, page requests and enum contracts.
package types
