// Package gemini implements the generation interface using Google's Gemini
// API: per-kind prompt templates, one client per configured credential, and
// response validation against the per-kind schemas.
package gemini
