package selector

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// ErrEmptySelector is flagged when compiling an empty selector string.
var ErrEmptySelector = errors.New("empty selector")

// Compile parses a selector string into its compiled representation. A
// selector list ("a, .b") compiles to a selector with AnyOf alternatives.
// Compile flags an error for syntactically invalid input (unbalanced
// functional pseudo classes, stray combinators, unknown pseudo classes);
// a well-formed selector which happens to match nothing is not an error.
func Compile(text string) (*Selector, error) {
	list, err := CompileList(text)
	if err != nil {
		return nil, err
	}
	if len(list) == 1 {
		return list[0], nil
	}
	sel := &Selector{Source: strings.TrimSpace(text), AnyOf: list}
	sel.specificity = sel.computeSpecificity()
	return sel, nil
}

// CompileList parses a comma separated selector list into one compiled
// selector per alternative.
func CompileList(text string) ([]*Selector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySelector
	}
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{source: text, toks: toks}
	return p.parseList()
}

func tokenize(text string) ([]*scanner.Token, error) {
	s := scanner.New(text)
	var toks []*scanner.Token
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenError:
			return nil, fmt.Errorf("selector %q: scan error at %q", text, tok.Value)
		case scanner.TokenEOF:
			return toks, nil
		case scanner.TokenComment:
			continue // drop
		}
		toks = append(toks, tok)
	}
}

type parser struct {
	source string
	toks   []*scanner.Token
	pos    int
}

func (p *parser) peek() *scanner.Token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return p.toks[p.pos]
}

func (p *parser) next() *scanner.Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *parser) parseList() ([]*Selector, error) {
	var list []*Selector
	for {
		sel, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		sel.Source = p.source
		sel.specificity = sel.computeSpecificity()
		list = append(list, sel)
		tok := p.next()
		if tok == nil {
			return list, nil
		}
		if tok.Type != scanner.TokenChar || tok.Value != "," {
			return nil, fmt.Errorf("selector %q: unexpected %q", p.source, tok.Value)
		}
	}
}

// parseChain parses one selector alternative: a sequence of compound parts
// linked by combinators. The returned selector is the subject (rightmost)
// part, holding parent links for the rest of the chain.
func (p *parser) parseChain() (*Selector, error) {
	var current *Selector
	pending := NoCombinator
	spaceSeen := false
	leadingRel := NoCombinator // for relative selectors inside :has()

	// part returns the compound currently under construction, starting a
	// new one if a combinator or whitespace was seen since the last token.
	part := func() *Selector {
		if current == nil {
			current = &Selector{Rel: leadingRel}
			return current
		}
		if pending != NoCombinator {
			current = &Selector{Parent: current, Rel: pending}
			pending = NoCombinator
			spaceSeen = false
		} else if spaceSeen {
			current = &Selector{Parent: current, Rel: Descendant}
			spaceSeen = false
		}
		return current
	}

	for {
		tok := p.peek()
		if tok == nil {
			break
		}
		switch tok.Type {
		case scanner.TokenS:
			if current != nil {
				spaceSeen = true
			}
			p.next()
		case scanner.TokenIdent:
			part().Element = strings.ToLower(tok.Value)
			p.next()
		case scanner.TokenHash:
			part().ID = tok.Value[1:]
			p.next()
		case scanner.TokenChar:
			switch tok.Value {
			case ",":
				if current == nil {
					return nil, fmt.Errorf("selector %q: empty alternative", p.source)
				}
				return current, nil // comma is consumed by parseList
			case ">", "+", "~":
				rel := combinatorFor(tok.Value)
				if current == nil {
					if leadingRel != NoCombinator {
						return nil, fmt.Errorf("selector %q: stray combinator %q", p.source, tok.Value)
					}
					leadingRel = rel
				} else {
					pending = rel
				}
				p.next()
			case "*":
				part() // universal selector: constrains nothing
				p.next()
			case ".":
				p.next()
				name := p.next()
				if name == nil || name.Type != scanner.TokenIdent {
					return nil, fmt.Errorf("selector %q: expected class name after '.'", p.source)
				}
				sel := part()
				sel.Classes = append(sel.Classes, strings.ToLower(name.Value))
			case ":":
				p.next()
				if err := p.parsePseudo(part()); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("selector %q: unexpected %q", p.source, tok.Value)
			}
		default:
			return nil, fmt.Errorf("selector %q: unexpected %q", p.source, tok.Value)
		}
	}
	if current == nil {
		return nil, ErrEmptySelector
	}
	if pending != NoCombinator {
		return nil, fmt.Errorf("selector %q: dangling combinator", p.source)
	}
	return current, nil
}

func combinatorFor(ch string) Combinator {
	switch ch {
	case ">":
		return Child
	case "+":
		return AdjacentSibling
	case "~":
		return GeneralSibling
	}
	return Descendant
}

// parsePseudo parses a pseudo class or pseudo element; the leading ':' has
// been consumed.
func (p *parser) parsePseudo(sel *Selector) error {
	tok := p.peek()
	if tok != nil && tok.Type == scanner.TokenChar && tok.Value == ":" {
		p.next() // '::' pseudo-element notation
		tok = p.peek()
	}
	if tok == nil {
		return fmt.Errorf("selector %q: dangling ':'", p.source)
	}
	switch tok.Type {
	case scanner.TokenIdent:
		p.next()
		flag, ok := pseudoNames[strings.ToLower(tok.Value)]
		if !ok {
			return fmt.Errorf("selector %q: unknown pseudo class %q", p.source, tok.Value)
		}
		sel.Pseudo |= flag
		return nil
	case scanner.TokenFunction:
		p.next()
		fname := strings.ToLower(strings.TrimSuffix(tok.Value, "("))
		inner, err := p.collectBalanced()
		if err != nil {
			return err
		}
		switch fname {
		case "not":
			subs, err := CompileList(inner)
			if err != nil {
				return fmt.Errorf("selector %q: in :not(): %w", p.source, err)
			}
			sel.Not = append(sel.Not, subs...)
		case "has":
			subs, err := CompileList(inner)
			if err != nil {
				return fmt.Errorf("selector %q: in :has(): %w", p.source, err)
			}
			sel.Has = append(sel.Has, subs...)
		case "nth-child":
			n, err := strconv.Atoi(strings.TrimSpace(inner))
			if err != nil || n < 1 {
				return fmt.Errorf("selector %q: cannot parse :nth-child(%s)", p.source, inner)
			}
			sel.NthChild = n
			sel.HasNth = true
		case "is", "where":
			subs, err := CompileList(inner)
			if err != nil {
				return fmt.Errorf("selector %q: in :%s(): %w", p.source, fname, err)
			}
			sel.AnyOf = append(sel.AnyOf, subs...)
		default:
			return fmt.Errorf("selector %q: unsupported functional pseudo class %q", p.source, fname)
		}
		return nil
	}
	return fmt.Errorf("selector %q: unexpected %q after ':'", p.source, tok.Value)
}

// collectBalanced consumes tokens up to the closing parenthesis matching an
// already-consumed opening one, and returns the collected raw text.
func (p *parser) collectBalanced() (string, error) {
	depth := 1
	var b strings.Builder
	for {
		tok := p.next()
		if tok == nil {
			return "", fmt.Errorf("selector %q: unbalanced parentheses", p.source)
		}
		switch {
		case tok.Type == scanner.TokenFunction:
			depth++
			b.WriteString(tok.Value)
		case tok.Type == scanner.TokenChar && tok.Value == "(":
			depth++
			b.WriteString(tok.Value)
		case tok.Type == scanner.TokenChar && tok.Value == ")":
			depth--
			if depth == 0 {
				return b.String(), nil
			}
			b.WriteString(tok.Value)
		case tok.Type == scanner.TokenS:
			b.WriteString(" ")
		default:
			b.WriteString(tok.Value)
		}
	}
}
