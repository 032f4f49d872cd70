// Package html reduces web pages to the text a reader would see.
// Scripts, styles, comments and the head are removed, block elements become
// line breaks and entities are decoded. The page title comes from <title>.
package html
