package openstep

type parser struct {
	s   *scanner
	tok token
}

// Parse reads property-list source into a Document. On grammar
// violations the returned error is a *SyntaxError carrying the
// position and expected-token information.
func Parse(src []byte) (*Document, error) {
	p := &parser{s: newScanner(src)}
	if serr := p.advance(); serr != nil {
		return nil, serr
	}
	if p.tok.kind != tokLBrace {
		return nil, p.errExpected("'{'")
	}
	root, serr := p.parseDict()
	if serr != nil {
		return nil, serr
	}
	for p.tok.kind == tokComment {
		if serr := p.advance(); serr != nil {
			return nil, serr
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.errExpected("end of input")
	}
	return &Document{HeadComment: p.s.headComment, Root: root}, nil
}

func (p *parser) advance() *SyntaxError {
	t, serr := p.s.next()
	if serr != nil {
		return serr
	}
	p.tok = t
	return nil
}

// parseDict consumes a dictionary body. The current token is the
// opening brace. Decorative comments between entries (the section
// markers the host tool writes inside the objects dictionary) are
// discarded; the serializer regenerates them.
func (p *parser) parseDict() (*Dict, *SyntaxError) {
	d := NewDict()
	if serr := p.advance(); serr != nil {
		return nil, serr
	}
	for {
		for p.tok.kind == tokComment {
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		}
		if p.tok.kind == tokRBrace {
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
			return d, nil
		}
		if p.tok.kind != tokString {
			return nil, p.errExpected("string", "'}'")
		}
		key := p.tok.text
		if serr := p.advance(); serr != nil {
			return nil, serr
		}

		comment := ""
		if p.tok.kind == tokComment {
			comment = p.tok.text
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		}
		if p.tok.kind != tokEquals {
			return nil, p.errExpected("'='")
		}
		if serr := p.advance(); serr != nil {
			return nil, serr
		}

		val, serr := p.parseValue()
		if serr != nil {
			return nil, serr
		}
		if p.tok.kind == tokComment {
			comment = p.tok.text
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		}
		if p.tok.kind != tokSemi {
			return nil, p.errExpected("';'")
		}
		if serr := p.advance(); serr != nil {
			return nil, serr
		}
		d.SetWithComment(key, val, comment)
	}
}

func (p *parser) parseValue() (Value, *SyntaxError) {
	switch p.tok.kind {
	case tokString:
		v := String(p.tok.text)
		if serr := p.advance(); serr != nil {
			return nil, serr
		}
		return v, nil
	case tokLBrace:
		return p.parseDict()
	case tokLParen:
		return p.parseArray()
	default:
		return nil, p.errExpected("string", "'{'", "'('")
	}
}

// parseArray consumes a list body. The current token is the opening
// paren. A trailing comma after the final element is accepted but not
// required.
func (p *parser) parseArray() (*Array, *SyntaxError) {
	a := &Array{}
	if serr := p.advance(); serr != nil {
		return nil, serr
	}
	for {
		for p.tok.kind == tokComment {
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		}
		if p.tok.kind == tokRParen {
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
			return a, nil
		}

		v, serr := p.parseValue()
		if serr != nil {
			return nil, serr
		}
		comment := ""
		if p.tok.kind == tokComment {
			comment = p.tok.text
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		}
		a.Elems = append(a.Elems, Element{Value: v, Comment: comment})

		switch p.tok.kind {
		case tokComma:
			if serr := p.advance(); serr != nil {
				return nil, serr
			}
		case tokRParen:
		default:
			return nil, p.errExpected("','", "')'")
		}
	}
}

func (p *parser) errExpected(expected ...string) *SyntaxError {
	return &SyntaxError{
		Message:  "unexpected " + p.tok.kind.String(),
		Expected: expected,
		Found:    p.tok.text,
		Pos:      p.tok.pos,
		End:      p.tok.end,
	}
}
