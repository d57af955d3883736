// Package api defines the unified completion types shared by all parts of
// the lokal gateway: the provider-agnostic response shape, token usage
// accounting, the error taxonomy for the HTTP surface, and ID generation.
//
// These types are the contract between transport, storage, and providers.
// Providers populate a ModelResponse by copying data out of engine output
// objects; they never hand engine-owned objects to callers.
package api
