// Command example builds the sample React app in ./src into ./dist.
package main

import (
	"context"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	c, err := reactpack.New("src", "dist",
		reactpack.WithOptions(reactpack.BuildOptions{
			Config:   "reactpack.config.yaml",
			Template: reactpack.TemplateSpec{Path: "template.html"},
		}),
		reactpack.WithLogger(logger),
		reactpack.WithOutput(os.Stdout, os.Stderr),
	)
	if err != nil {
		log.Fatalf("failed to create compiler: %v", err)
	}
	defer c.Close()

	results := c.Compile(context.Background(), reactpack.BuildOptions{
		Entry: reactpack.EntrySpec{"main": "./index.jsx"},
		CompilerOptions: map[string]any{
			"target": "19",
		},
	})
	for _, r := range results {
		log.Printf("build failed: %v", r.Err)
	}
	if len(results) > 0 {
		os.Exit(1)
	}
}
