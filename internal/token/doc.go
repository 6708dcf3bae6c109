// Package token defines lexical token kinds for vela sources.
// Invariants:
//   - Token.Span covers the source bytes of the token; Text is that slice,
//     except identifiers, whose Text is NFC-normalized.
//   - Doc comments (/// ...) are attached to the next significant token and
//     never appear in the token stream.
//   - Primitive type names (u8, u64, bool, str, b256) are identifiers;
//     the checker recognizes them, not the lexer.
package token
