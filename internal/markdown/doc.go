// Package markdown turns raw article files into head fragments and HTML
// bodies. It lists article sources, strips the META_START/META_END block
// (and optional front matter) into <meta>/<title> tags, and renders the
// remaining Markdown with goldmark.
package markdown
