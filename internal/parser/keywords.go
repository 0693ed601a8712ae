package parser

// storageClassKeywords are the C storage-class specifiers recognized
// while accumulating an arising specification, per spec.md §4.6.
var storageClassKeywords = map[string]bool{
	"static":   true,
	"extern":   true,
	"typedef":  true,
	"register": true,
	"auto":     true,
}

// typeKeywords are base type specifiers; like a storage-class or
// qualifier keyword, one of these at the start of a statement opens an
// arising specification (isDeclarationKeyword).
var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "struct": true, "union": true, "enum": true,
}

var qualifierKeywords = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "inline": true,
}

var tagKeywords = map[string]bool{
	"struct": true, "union": true, "enum": true,
}

func isDeclarationKeyword(text string) bool {
	return storageClassKeywords[text] || typeKeywords[text] || qualifierKeywords[text]
}
