package lambdust

import "strings"

// FormatFunc renders a piece of text under a semantic token, so the same
// tree-shaped printer can either emit plain text or ANSI-themed text by
// swapping the function.
type FormatFunc[T any] func(input string, token T) string

// treePrinter is a small reusable box-drawing accumulator: a user owns
// its own token type T and theme, while the indentation/padding
// bookkeeping lives here. The AST dumper (ast_printer.go) is its one user.
type treePrinter[T any] struct {
	padStr []string
	output strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{format: format}
}

func (tp *treePrinter[T]) indent(s string) { tp.padStr = append(tp.padStr, s) }

func (tp *treePrinter[T]) unindent() { tp.padStr = tp.padStr[:len(tp.padStr)-1] }

func (tp *treePrinter[T]) padding() {
	for _, s := range tp.padStr {
		tp.output.WriteString(s)
	}
}

func (tp *treePrinter[T]) write(s string) { tp.output.WriteString(s) }

func (tp *treePrinter[T]) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter[T]) pwrite(s string) {
	tp.padding()
	tp.write(s)
}

func (tp *treePrinter[T]) pwritel(s string) {
	tp.pwrite(s)
	tp.output.WriteRune('\n')
}

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string { return literalSanitizer.Replace(s) }
