// Package main implements the entry point for the studygen server, which
// fans learning-content generation out across parallel model calls and
// assembles the results into multi-format lesson payloads.
package main

import (
	"context"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		exitOnError("failed to initialize application", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		exitOnError("server error", err)
	}
}
