// Package inference defines the boundary to in-process inference engines:
// the Engine interface, the typed construction configuration, per-call
// sampling parameters, and the raw output shapes engines return.
//
// lokal does not implement model inference, tokenization, or batching
// policy. Engines are external collaborators registered by name; this
// package only fixes the contract they are called through.
package inference
