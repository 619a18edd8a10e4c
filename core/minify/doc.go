// Package minify shrinks HTML application source before it is compressed
// into a link payload. Smaller source means shorter URLs, which matters when
// the entire application travels inside a query parameter.
//
// The minifier removes HTML comments, line and block comments inside
// <script> elements (string literals are respected, so URLs like
// "http://example.com" and protocol-relative "//cdn.example.com" survive),
// block comments inside <style> elements, and collapses whitespace runs to a
// single space.
//
//	small := minify.HTML(source)
//
// The transformation is lossy for comments and formatting only; markup,
// script, and style semantics are preserved for well-formed input.
package minify
