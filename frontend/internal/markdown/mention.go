package markdown

import (
	"net/url"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const maxUsernameLen = 150

// Mention is an @username reference that links to the user's profile.
type Mention struct {
	ast.BaseInline
	Username []byte
}

func (n *Mention) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Username": string(n.Username)}, nil)
}

var KindMention = ast.NewNodeKind("Mention")

func (n *Mention) Kind() ast.NodeKind {
	return KindMention
}

type mentionParser struct{}

func NewMentionParser() parser.InlineParser {
	return &mentionParser{}
}

func (p *mentionParser) Trigger() []byte {
	return []byte{'@'}
}

func isUsernameChar(b byte) bool {
	return b == '_' || b == '.' || b == '-' || b == '+' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *mentionParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	// foo@bar is an address, not a mention
	if prev := block.PrecendingCharacter(); unicode.IsLetter(prev) || unicode.IsDigit(prev) {
		return nil
	}

	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '@' {
		return nil
	}
	i := 1
	for i < len(line) && i <= maxUsernameLen && isUsernameChar(line[i]) {
		i++
	}
	// trailing punctuation belongs to the sentence
	for i > 1 && (line[i-1] == '.' || line[i-1] == '-' || line[i-1] == '+') {
		i--
	}
	if i == 1 {
		return nil
	}

	node := &Mention{Username: append([]byte(nil), line[1:i]...)}
	block.Advance(i)
	return node
}

type mentionHTMLRenderer struct {
	html.Config
}

func NewMentionHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &mentionHTMLRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *mentionHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMention, r.renderMention)
}

func (r *mentionHTMLRenderer) renderMention(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Mention)
	_, _ = w.WriteString(`<a class="mention" href="/u/`)
	_, _ = w.WriteString(url.PathEscape(string(n.Username)))
	_, _ = w.WriteString(`">@`)
	_, _ = w.Write(util.EscapeHTML(n.Username))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkSkipChildren, nil
}

type mentions struct{}

// Mentions registers the @username renderer.
var Mentions goldmark.Extender = &mentions{}

func (e *mentions) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewMentionHTMLRenderer(), 500),
	))
}
