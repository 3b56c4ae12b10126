/*
Package fealex splits OpenType feature files into tokens.

Feature files are the text format of the Adobe Font Development Kit for OpenType
(AFDKO) to describe glyph substitution and positioning. The lexer recognizes
keywords, glyph names, class names, numbers, strings, comments and punctuation.
It tracks the position of every token, so that the parser is able to report
errors and to re-emit opaque statements with their original spacing.

Glyph names which collide with a keyword have to be escaped with a backslash.
The lexer strips the backslash and returns a Glyph token, except for CIDs
(`\123`), where the backslash is part of the glyph name.

# Links

Feature file syntax:
https://adobe-type-tools.github.io/afdko/OpenTypeFeatureFileSpecification.html

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fealex
