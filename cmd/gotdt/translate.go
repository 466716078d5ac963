package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt"
)

type translateArgs struct {
	from     string
	to       string
	noFormat bool
	output   string
	json     bool
	quiet    bool
}

func newTranslateCmd(a *app) *cobra.Command {
	var ta translateArgs

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a document (stdin when no file is given)",
		Long: `Translate a document into one or more target languages.

With several targets (--to pt,es,fr) and --output, one file per language is
written next to the output path, e.g. guide.pt.md and guide.es.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, a, ta, args)
		},
	}

	cmd.Flags().StringVar(&ta.from, "from", "", "Source language (default from config; \"auto\" to detect)")
	cmd.Flags().StringVar(&ta.to, "to", "", "Target language(s), comma-separated (default from config)")
	cmd.Flags().BoolVar(&ta.noFormat, "no-format", false, "Do not shield code blocks, inline code and literal markup")
	cmd.Flags().StringVarP(&ta.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&ta.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&ta.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runTranslate(cmd *cobra.Command, a *app, ta translateArgs, args []string) error {
	if err := a.load(true); err != nil {
		return err
	}

	input, inputName, err := readInput(a.stdin, args)
	if err != nil {
		return err
	}

	source := ta.from
	if source == "" {
		source = a.cfg.Translation.SourceLanguage
	}
	targets := splitList(ta.to)
	if len(targets) == 0 {
		targets = []string{a.cfg.Translation.TargetLanguage}
	}

	docs := make([]gotdt.Document, len(targets))
	for i, target := range targets {
		docs[i] = gotdt.Document{
			Text:               input,
			SourceLang:         source,
			TargetLang:         target,
			PreserveFormatting: !ta.noFormat,
		}
		if err := gotdt.ValidateDocument(docs[i], a.cfg.Translation.MaxTextLength); err != nil {
			return err
		}
	}

	p, err := a.newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	results := make(map[string]*gotdt.TranslationResult, len(targets))
	for _, doc := range docs {
		if !ta.quiet {
			fmt.Fprintf(a.stderr, "Translating %s to %s...\n", inputName, doc.TargetLang)
		}

		result, err := p.TranslateDocument(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("translating to %s: %w", doc.TargetLang, err)
		}
		results[doc.TargetLang] = result

		if !ta.quiet {
			fmt.Fprintf(a.stderr, "  done in %v (chunks: %d, failed: %d, cached: %d)\n",
				result.TranslationTime.Round(time.Millisecond),
				result.ChunkCount, result.FailedChunks, result.CachedChunks)
		}
	}

	if ta.json {
		return writeJSON(a.stdout, ta.output, targets, results)
	}
	return writeText(a.stdout, ta.output, targets, results)
}

func readInput(stdin io.Reader, args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// outputPath returns path for a single target, or path with the language
// inserted before the extension when there are several.
func outputPath(path, lang string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + lang + ext
}

func writeText(stdout io.Writer, output string, targets []string, results map[string]*gotdt.TranslationResult) error {
	multi := len(targets) > 1

	if output == "" {
		for i, lang := range targets {
			if multi {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				fmt.Fprintf(stdout, "==> %s <==\n", lang)
			}
			fmt.Fprint(stdout, results[lang].TranslatedText)
			if multi && !strings.HasSuffix(results[lang].TranslatedText, "\n") {
				fmt.Fprintln(stdout)
			}
		}
		return nil
	}

	for _, lang := range targets {
		path := outputPath(output, lang, multi)
		if err := os.WriteFile(path, []byte(results[lang].TranslatedText), 0o644); err != nil { // #nosec G306 - translated documents are not secret
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func writeJSON(stdout io.Writer, output string, targets []string, results map[string]*gotdt.TranslationResult) error {
	var v any = results
	if len(targets) == 1 {
		v = results[targets[0]]
	}

	out := stdout
	if output != "" {
		f, err := os.Create(output) // #nosec G304 - path is intentionally user-provided
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
