// Package report renders analyses for the terminal and for sharing.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: Markdown with tables and a mermaid ranking chart
//   - JSONWriter: the analysis as the backend returned it
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
