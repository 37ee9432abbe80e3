//go:build ignore

// Generates the quill reference pages into docs/quill:
//
//	go run ./cmd/quill/doc_gen.go [outdir]
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra/doc"

	"github.com/mithrel/quill/internal/cli"
)

func main() {
	out := filepath.Join("docs", "quill")
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	root := cli.NewRootCmd()
	root.DisableAutoGenTag = true

	md := filepath.Join(out, "markdown")
	man := filepath.Join(out, "man")
	for _, dir := range []string{md, man} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	if err := doc.GenMarkdownTree(root, md); err != nil {
		log.Fatal(err)
	}

	now := time.Now()
	header := &doc.GenManHeader{
		Title:   "QUILL",
		Section: "1",
		Date:    &now,
		Source:  "quill",
		Manual:  "quill manual",
	}
	if err := doc.GenManTree(root, header, man); err != nil {
		log.Fatal(err)
	}
}
