// Package generation provides the interface and error taxonomy for
// interacting with the external generative-AI service. It abstracts the
// details of the LLM API integration (Gemini), allowing the batch engine to
// generate per-kind content without coupling to a specific external service.
package generation
