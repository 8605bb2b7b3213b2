// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the generation engine, translating HTTP concerns to batch
// orchestration and assembling engine output into the lesson payload.
package api
