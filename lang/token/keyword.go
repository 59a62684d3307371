package token

// Keyword identifies identifiers that the parser dispatches on specially,
// per the statement grammar of spec.md §4.1. Soul has no reserved-word
// lexical class: a keyword is simply an Ident token whose Text matches one
// of these names, decided by the parser, not the scanner (spec.md §4.1:
// "Ident whose text is a keyword: dispatch to the keyword's handler").
type Keyword string

const (
	KwIf       Keyword = "if"
	KwElif     Keyword = "elif"
	KwElse     Keyword = "else"
	KwFor      Keyword = "for"
	KwWhile    Keyword = "while"
	KwMatch    Keyword = "match"
	KwReturn   Keyword = "return"
	KwBreak    Keyword = "break"
	KwContinue Keyword = "continue"
	KwFall     Keyword = "fall"
	KwUse      Keyword = "use"
	KwImport   Keyword = "import"
	KwStruct   Keyword = "struct"
	KwClass    Keyword = "class"
	KwTrait    Keyword = "trait"
	KwEnum     Keyword = "enum"
	KwUnion    Keyword = "union"
	KwIn       Keyword = "in"
	KwTrue     Keyword = "true"
	KwFalse    Keyword = "false"
	KwNull     Keyword = "null"
)

var keywords = map[string]Keyword{
	string(KwIf): KwIf, string(KwElif): KwElif, string(KwElse): KwElse,
	string(KwFor): KwFor, string(KwWhile): KwWhile, string(KwMatch): KwMatch,
	string(KwReturn): KwReturn, string(KwBreak): KwBreak, string(KwContinue): KwContinue,
	string(KwFall): KwFall, string(KwUse): KwUse, string(KwImport): KwImport,
	string(KwStruct): KwStruct, string(KwClass): KwClass, string(KwTrait): KwTrait,
	string(KwEnum): KwEnum, string(KwUnion): KwUnion, string(KwIn): KwIn,
	string(KwTrue): KwTrue, string(KwFalse): KwFalse, string(KwNull): KwNull,
}

// LookupKeyword returns the Keyword for name and true, or ("", false) if
// name is an ordinary identifier.
func LookupKeyword(name string) (Keyword, bool) {
	kw, ok := keywords[name]
	return kw, ok
}

// TypeModifier is the set of modifier keywords recognised as a
// modifier-prefix in both statement and type grammar (spec.md §3, §4.1).
type TypeModifier uint8

const (
	ModNone TypeModifier = iota
	ModMut
	ModConst
	ModLiteral
)

var typeModifiers = map[string]TypeModifier{
	"mut": ModMut, "const": ModConst, "literal": ModLiteral,
}

// LookupModifier returns the TypeModifier for name and true, or (ModNone,
// false) if name does not name a modifier.
func LookupModifier(name string) (TypeModifier, bool) {
	m, ok := typeModifiers[name]
	return m, ok
}

func (m TypeModifier) String() string {
	switch m {
	case ModMut:
		return "mut"
	case ModConst:
		return "const"
	case ModLiteral:
		return "literal"
	default:
		return ""
	}
}
