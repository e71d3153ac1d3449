// Package check validates command, vector and SeList documents.
//
// Every validator is a single forward scan over the document followed by a
// reporting step over the registries the scan filled. Nothing is shared
// between passes; the same document always produces the same list.
package check
