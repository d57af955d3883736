// Package local implements the Provider interface for in-process
// inference engines. It owns no inference logic of its own: it splits
// caller options into engine-construction and generation options, keeps
// a single engine instance alive per registry, renders prompts, forwards
// generate calls, and shapes raw engine outputs into ModelResponses with
// token-usage accounting.
//
// The engine instance is created lazily on the first call and reused for
// every subsequent call, regardless of which model later calls name
// (first-caller-wins). Multi-model deployments need one Registry per
// model.
package local
