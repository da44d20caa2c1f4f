// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is one fenced block from an assistant reply.
type CodeBlock struct {
	Language    string
	Code        string
	MaxWidth    int
	LineNumbers bool
	Copied      bool
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language:    language,
		Code:        code,
		MaxWidth:    80,
		LineNumbers: true,
	}
}

// Render renders the block with chroma highlighting, a language badge and
// a "copied" marker while the copy confirmation is showing.
func (c CodeBlock) Render(theme *styles.Theme) string {
	code := strings.TrimRight(c.Code, "\n")

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	lines := strings.Split(highlightCode(code, language, theme.IsDark), "\n")
	if c.LineNumbers {
		for i, line := range lines {
			lines[i] = theme.CodeLineNum.Render(strconv.Itoa(i+1)) + line
		}
	}

	var header []string
	if c.Language != "" {
		header = append(header, theme.CodeLangBadge.Render(c.Language))
	}
	if c.Copied {
		header = append(header, theme.CodeCopied.Render("copied!"))
	}

	body := strings.Join(lines, "\n")
	if len(header) > 0 {
		body = strings.Join(header, " ") + "\n" + body
	}

	maxWidth := c.MaxWidth - 2
	if maxWidth < 20 {
		maxWidth = 20
	}
	return theme.CodeBlock.Copy().MaxWidth(maxWidth).Render(body)
}

// =============================================================================
// FENCE PARSER
// =============================================================================

// Segment is a run of prose or one fenced code block.
type Segment struct {
	Code     bool
	Language string
	Text     string
}

// SplitFences splits markdown into prose and fenced code segments. An
// unclosed fence runs to the end of the text.
func SplitFences(text string) []Segment {
	var (
		segs     []Segment
		buf      []string
		inCode   bool
		language string
	)
	flush := func(code bool) {
		if len(buf) == 0 && !code {
			return
		}
		segs = append(segs, Segment{Code: code, Language: language, Text: strings.Join(buf, "\n")})
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flush(true)
				language = ""
				inCode = false
			} else {
				flush(false)
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				inCode = true
			}
			continue
		}
		buf = append(buf, line)
	}
	flush(inCode)
	return segs
}

// CodeBlocks returns only the fenced code segments of text.
func CodeBlocks(text string) []Segment {
	var out []Segment
	for _, s := range SplitFences(text) {
		if s.Code {
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies terminal syntax highlighting. It returns the input
// unchanged if chroma fails.
func highlightCode(code, language string, dark bool) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if dark {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

func detectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
