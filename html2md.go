// Package html2md turns arbitrary HTML documents into clean, bounded-length
// Markdown suitable for feeding into an LLM context window.
//
// The pipeline has four stages used in strict order: content extraction
// with a quality gate, rule-driven Markdown conversion, line-level
// boilerplate cleanup, and heading-preserving truncation to a token budget.
//
// This package contains domain types, interfaces and the pure text stages
// following Ben Johnson's Standard Package Layout. Implementations that wrap
// third-party libraries live in subdirectories named after their primary
// dependency (e.g., readability/, htmltomarkdown/, sqlite/).
package html2md
