// SPDX-License-Identifier: MPL-2.0

package cooklang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/chefkit/chef/pkg/cooklang/ast"
)

const frontMatterFence = "---"

type parser struct {
	recipe       ast.Recipe
	metadataOnly bool
	section      int // index into recipe.Sections, -1 before the first step or header
	step         *ast.Step
	text         strings.Builder
}

// parseAST builds the syntax tree of text. With metadataOnly set, everything
// but the front matter and ">>" lines is skipped.
func parseAST(text string, metadataOnly bool) (*ast.Recipe, error) {
	p := &parser{section: -1, metadataOnly: metadataOnly}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	start, err := p.frontMatter(lines)
	if err != nil {
		return nil, err
	}

	for i := start; i < len(lines); i++ {
		if err := p.line(lines[i], i+1); err != nil {
			return nil, err
		}
	}
	p.endStep()

	return &p.recipe, nil
}

func (p *parser) line(raw string, lineNo int) error {
	trimmed := strings.TrimSpace(stripComments(raw))
	switch {
	case trimmed == "":
		// A line holding only a comment does not end the paragraph.
		if strings.TrimSpace(raw) == "" {
			p.endStep()
		}
		return nil
	case strings.HasPrefix(trimmed, ">>"):
		key, value, ok := strings.Cut(trimmed[2:], ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return &ParseError{Line: lineNo, Msg: "metadata needs the form '>> key: value'"}
		}
		p.recipe.Metadata = append(p.recipe.Metadata, ast.MetadataEntry{Key: key, Value: strings.TrimSpace(value)})
		return nil
	case p.metadataOnly:
		return nil
	case strings.HasPrefix(trimmed, "="):
		p.endStep()
		p.recipe.Sections = append(p.recipe.Sections, ast.Section{Name: strings.TrimSpace(strings.Trim(trimmed, "="))})
		p.section = len(p.recipe.Sections) - 1
		return nil
	default:
		return p.stepLine(trimmed, lineNo)
	}
}

// frontMatter reads a leading YAML block fenced by "---" lines and returns
// the index of the first line after it.
func (p *parser) frontMatter(lines []string) (int, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return 0, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterFence {
			end = i
			break
		}
	}
	if end < 0 {
		return 0, &ParseError{Line: 1, Msg: "front matter is not closed with '---'"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &doc); err != nil {
		return 0, &ParseError{Line: 2, Msg: fmt.Sprintf("front matter: %v", err)}
	}
	if len(doc.Content) == 0 {
		return end + 1, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return 0, &ParseError{Line: 2, Msg: "front matter must be a mapping"}
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		p.recipe.Metadata = append(p.recipe.Metadata, ast.MetadataEntry{Key: key.Value, Value: yamlScalar(value)})
	}

	return end + 1, nil
}

// yamlScalar flattens a front matter value: sequences become a comma
// separated list and nested mappings their YAML text.
func yamlScalar(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, yamlScalar(item))
		}
		return strings.Join(items, ", ")
	case yaml.ScalarNode:
		return n.Value
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

func stripComments(line string) string {
	for {
		start := strings.Index(line, "[-")
		if start < 0 {
			break
		}
		end := strings.Index(line[start+2:], "-]")
		if end < 0 {
			break
		}
		line = line[:start] + line[start+2+end+2:]
	}
	if i := strings.Index(line, "--"); i >= 0 {
		line = line[:i]
	}
	return line
}

func (p *parser) endStep() {
	if p.step == nil {
		return
	}
	p.flushText()
	if p.section < 0 {
		p.recipe.Sections = append(p.recipe.Sections, ast.Section{})
		p.section = len(p.recipe.Sections) - 1
	}
	section := &p.recipe.Sections[p.section]
	section.Steps = append(section.Steps, *p.step)
	p.step = nil
}

func (p *parser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.step.Items = append(p.step.Items, ast.Item{Kind: ast.ItemText, Text: p.text.String()})
	p.text.Reset()
}

// stepLine adds one line of a paragraph. Lines of the same paragraph are
// joined with a space.
func (p *parser) stepLine(line string, lineNo int) error {
	if p.step == nil {
		p.step = &ast.Step{Line: lineNo}
	} else {
		p.text.WriteByte(' ')
	}

	for i := 0; i < len(line); {
		kind, ok := markerKind(line[i])
		if !ok {
			p.text.WriteByte(line[i])
			i++
			continue
		}

		comp, n, err := parseComponent(line[i+1:], kind, lineNo)
		if err != nil {
			return err
		}
		if n == 0 {
			p.text.WriteByte(line[i])
			i++
			continue
		}

		p.flushText()
		p.step.Items = append(p.step.Items, ast.Item{Kind: kind, Index: p.addComponent(kind, comp)})
		i += 1 + n
	}

	return nil
}

func (p *parser) addComponent(kind ast.ItemKind, c ast.Component) int {
	var list *[]ast.Component
	switch kind {
	case ast.ItemIngredient:
		list = &p.recipe.Ingredients
	case ast.ItemCookware:
		list = &p.recipe.Cookware
	default:
		list = &p.recipe.Timers
	}
	*list = append(*list, c)
	return len(*list) - 1
}

func markerKind(c byte) (ast.ItemKind, bool) {
	switch c {
	case '@':
		return ast.ItemIngredient, true
	case '#':
		return ast.ItemCookware, true
	case '~':
		return ast.ItemTimer, true
	default:
		return ast.ItemText, false
	}
}

// parseComponent parses what follows a marker. It returns the number of
// bytes consumed, 0 when the marker starts no component.
func parseComponent(rest string, kind ast.ItemKind, lineNo int) (ast.Component, int, error) {
	comp := ast.Component{Line: lineNo}

	brace := strings.IndexByte(rest, '{')
	if brace < 0 || strings.ContainsAny(rest[:brace], "@#~{}") {
		n := wordLen(rest)
		if n == 0 {
			return comp, 0, nil
		}
		comp.Name = rest[:n]
		return comp, n, nil
	}

	comp.Name = strings.TrimSpace(rest[:brace])
	if comp.Name == "" && kind != ast.ItemTimer {
		return comp, 0, nil
	}

	closing := strings.IndexByte(rest[brace:], '}')
	if closing < 0 {
		return comp, 0, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s %q is missing a closing '}'", kind, comp.Name)}
	}
	closing += brace

	q, err := parseAmount(rest[brace+1 : closing])
	if err != nil {
		return comp, 0, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s %q: %v", kind, comp.Name, err)}
	}
	if kind == ast.ItemTimer && comp.Name == "" && q == nil {
		return comp, 0, &ParseError{Line: lineNo, Msg: "timer needs a name or a duration"}
	}
	comp.Quantity = q
	n := closing + 1

	if kind == ast.ItemIngredient && n < len(rest) && rest[n] == '(' {
		end := strings.IndexByte(rest[n:], ')')
		if end < 0 {
			return comp, 0, &ParseError{Line: lineNo, Msg: fmt.Sprintf("note of ingredient %q is missing a closing ')'", comp.Name)}
		}
		comp.Note = strings.TrimSpace(rest[n+1 : n+end])
		n += end + 1
	}

	return comp, n, nil
}

// wordLen returns the length of the single-word name at the start of s.
func wordLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		n += size
	}
	return n
}
