// Package token defines lexical token kinds, the keyword table and the
// classification predicates shared by the lexer and the parser.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Span is non-empty for every kind except EOF.
//   - Trivia (whitespace, tabs, line ends, // comments) are ordinary tokens;
//     the parser decides where they live in the tree.
//   - Value is set only for literal kinds and only when Malformed is false.
//   - Kind families are decided here and nowhere else.
package token
