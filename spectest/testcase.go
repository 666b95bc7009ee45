// Package spectest extracts golden compiler cases from Markdown documents
// and evaluates programs into the artifacts those cases assert on.
//
// A case starts at a "Test: <name>" heading and holds one bc-program fence
// followed by assertion fences:
//
//	## Test: addition
//	```bc-program
//	int a = 2 + 3;
//	print a;
//	```
//	```output
//	5
//	```
//
// The program fence accepts a fold mode in its info string, as in
// "```bc-program fold=tree".
package spectest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/chazu/bcgen/compiler"
)

// InputFence is the language of the program fence.
const InputFence = "bc-program"

// AssertionType represents the type of assertion code fence.
type AssertionType string

const (
	AssertBytecode    AssertionType = "bytecode"     // generated instructions
	AssertOutput      AssertionType = "output"       // executor output
	AssertFinalOutput AssertionType = "final-output" // evaluator values
	AssertLoadOutput  AssertionType = "load-output"  // backward LOAD scan
	AssertErrors      AssertionType = "errors"       // syntax, semantic or runtime errors
	AssertSymbols     AssertionType = "symbols"      // symbol table dump
)

var assertionTypes = map[string]AssertionType{
	string(AssertBytecode):    AssertBytecode,
	string(AssertOutput):      AssertOutput,
	string(AssertFinalOutput): AssertFinalOutput,
	string(AssertLoadOutput):  AssertLoadOutput,
	string(AssertErrors):      AssertErrors,
	string(AssertSymbols):     AssertSymbols,
}

// Assertion is one expected artifact.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// TestCase is a complete case extracted from Markdown.
type TestCase struct {
	Name       string
	Input      string
	Fold       compiler.FoldMode
	Line       int
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all test cases.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases   []TestCase
		current *TestCase
	)
	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validateTestCase(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: strings.TrimSpace(name)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			lineNum := lineNumber(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
				}
				return ast.WalkContinue, nil
			}

			content := strings.TrimRight(codeBlockContent(n, source), "\n")
			if language == InputFence {
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				fold, err := parseFenceOptions(infoString(n, source))
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: %w", lineNum, err)
				}
				current.Input = content
				current.Fold = fold
				current.Line = lineNum
				return ast.WalkContinue, nil
			}

			typ, ok := assertionTypes[language]
			if !ok {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, current.Name)
			}
			current.Assertions = append(current.Assertions, Assertion{Type: typ, Content: content, Line: lineNum})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// parseFenceOptions reads "key=value" words after the fence language.
func parseFenceOptions(info string) (compiler.FoldMode, error) {
	fields := strings.Fields(info)
	fold := compiler.FoldNone
	for _, f := range fields[min(1, len(fields)):] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key != "fold" {
			return fold, fmt.Errorf("unknown fence option %q", f)
		}
		mode, err := compiler.ParseFoldMode(value)
		if err != nil {
			return fold, err
		}
		fold = mode
	}
	return fold, nil
}

func validateTestCase(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no %s fence", tc.Name, InputFence)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func codeBlockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func infoString(block *ast.FencedCodeBlock, source []byte) string {
	if block.Info == nil {
		return ""
	}
	return string(block.Info.Segment.Value(source))
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
