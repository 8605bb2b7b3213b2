// Package credential manages the pool of interchangeable API keys for the
// external generative service. Keys are loaded once at startup and selected
// round-robin to spread concurrent requests under provider rate limits.
package credential
