// Package markup parses toggle-style markup into a node tree.
//
// The grammar is line based: up to three heading levels, bulleted and
// numbered single-level lists, blank lines and paragraphs. Inside list
// items and paragraphs, '*', '^' and '_' toggle bold, italic and underline.
package markup
