package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"bsharp/internal/ast"
	"bsharp/internal/source"
)

// ASTNodeOutput: узел дерева для JSON/YAML. Токен-листья имеют Token
// вместо Type и не имеют детей.
type ASTNodeOutput struct {
	Type     string          `json:"type,omitempty" yaml:"type,omitempty"`
	Token    string          `json:"token,omitempty" yaml:"token,omitempty"`
	Text     string          `json:"text,omitempty" yaml:"text,omitempty"`
	Span     source.Span     `json:"span" yaml:"-"`
	Pos      string          `json:"pos,omitempty" yaml:"pos,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty" yaml:"children,omitempty"`
}

// ASTOpts управляет тем, что попадает в дамп дерева.
type ASTOpts struct {
	Trivia    bool // печатать пробелы и комментарии
	Positions bool // line:col-line:col для каждого элемента
}

// BuildASTOutput строит дерево вывода из корня и хвостовых элементов.
func BuildASTOutput(root ast.Node, trailing []ast.Element, fs *source.FileSet, opts ASTOpts) ASTNodeOutput {
	out := ASTNodeOutput{Type: "File"}
	if root != nil {
		out.Children = append(out.Children, buildNode(root, fs, opts))
	}
	out.Children = append(out.Children, buildElements(trailing, fs, opts)...)
	if root != nil {
		out.Span = ast.Span(root)
	}
	return out
}

func buildNode(n ast.Node, fs *source.FileSet, opts ASTOpts) ASTNodeOutput {
	span := ast.Span(n)
	out := ASTNodeOutput{
		Type:     n.Kind().String(),
		Span:     span,
		Children: buildElements(n.Elements(), fs, opts),
	}
	if opts.Positions {
		out.Pos = formatSpan(ast.TrimmedSpan(n), fs)
	}
	return out
}

func buildElements(elems []ast.Element, fs *source.FileSet, opts ASTOpts) []ASTNodeOutput {
	var out []ASTNodeOutput
	for _, el := range elems {
		if el.Node != nil {
			out = append(out, buildNode(el.Node, fs, opts))
			continue
		}
		tok := el.Token
		if tok.IsTrivia() && !opts.Trivia {
			continue
		}
		leaf := ASTNodeOutput{Token: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if opts.Positions {
			leaf.Pos = formatSpan(tok.Span, fs)
		}
		out = append(out, leaf)
	}
	return out
}

// FormatASTTree печатает дерево с рамками:
//
//	CompilationUnit
//	└─ ModuleDeclaration
//	   ├─ ModuleKeyword "module"
func FormatASTTree(w io.Writer, root ast.Node, trailing []ast.Element, fs *source.FileSet, opts ASTOpts) error {
	tree := BuildASTOutput(root, trailing, fs, opts)
	for i := range tree.Children {
		if err := writeTreeNode(w, &tree.Children[i], "", "", opts); err != nil {
			return err
		}
	}
	return nil
}

func writeTreeNode(w io.Writer, n *ASTNodeOutput, first, rest string, opts ASTOpts) error {
	label := n.Type
	if n.Token != "" {
		label = fmt.Sprintf("%s %q", n.Token, n.Text)
	}
	if opts.Positions && n.Pos != "" {
		label += " @" + n.Pos
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", first, label); err != nil {
		return err
	}
	for i := range n.Children {
		last := i == len(n.Children)-1
		branch, indent := "├─ ", "│  "
		if last {
			branch, indent = "└─ ", "   "
		}
		if err := writeTreeNode(w, &n.Children[i], rest+branch, rest+indent, opts); err != nil {
			return err
		}
	}
	return nil
}

// FormatASTJSON выводит дерево в JSON
func FormatASTJSON(w io.Writer, root ast.Node, trailing []ast.Element, fs *source.FileSet, opts ASTOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTOutput(root, trailing, fs, opts))
}

// FormatASTYAML выводит дерево в YAML
func FormatASTYAML(w io.Writer, root ast.Node, trailing []ast.Element, fs *source.FileSet, opts ASTOpts) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(BuildASTOutput(root, trailing, fs, opts)); err != nil {
		return err
	}
	return encoder.Close()
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
