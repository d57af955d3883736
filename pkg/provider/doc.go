// Package provider defines the abstraction the lokal gateway drives its
// completion backends through. Adapters live in subpackages; the local
// in-process engine adapter is pkg/provider/local.
package provider
