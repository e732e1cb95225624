/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Command docgen writes the CLI reference as one markdown page per command.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	stackcmd "github.com/orien/stackpilot/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	outputDir := flag.String("out", filepath.Join("docs", "reference", "cli"), "directory for the generated pages")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}
	if err := removeStalePages(*outputDir); err != nil {
		log.Fatalf("clean output directory: %v", err)
	}

	root := stackcmd.RootCommand()
	walk(root, func(c *cobra.Command) { c.DisableAutoGenTag = true })

	if err := doc.GenMarkdownTreeCustom(root, *outputDir, frontMatter, pageLink); err != nil {
		log.Fatalf("generate markdown documentation: %v", err)
	}
}

// removeStalePages deletes pages of commands that no longer exist
func removeStalePages(dir string) error {
	pages, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return err
	}
	for _, page := range pages {
		if err := os.Remove(page); err != nil {
			return err
		}
	}
	return nil
}

func walk(c *cobra.Command, fn func(*cobra.Command)) {
	fn(c)
	for _, child := range c.Commands() {
		walk(child, fn)
	}
}

func frontMatter(filename string) string {
	title := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ".md"), "_", " ")
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", title)
}

func pageLink(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}
