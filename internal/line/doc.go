// Package line classifies single lines of the section-structured data
// formats and canonicalizes numeric identifiers.
//
// Classification is dialect independent: every line is Blank, Comment,
// Header, Terminator or Data. Dialect validators refine Data lines with their
// own row grammars and decide what a Header or a marker Comment does to the
// current section scope.
package line
