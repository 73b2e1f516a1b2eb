package diag

import "sort"

// CodeInfo provides metadata about a diagnostic code for documentation and
// the rules listing command.
type CodeInfo struct {
	Code        Code
	Phase       string // configuration, lexer, parser, resolution, delegation
	Severity    Severity
	Description string
}

var codeInfos = map[Code]CodeInfo{
	CodeInvalidLocale: {
		Code: CodeInvalidLocale, Phase: "configuration", Severity: SeverityError,
		Description: "The authoring locale tag is malformed and no separator profile can be derived.",
	},
	CodeUnterminatedString: {
		Code: CodeUnterminatedString, Phase: "lexer", Severity: SeverityError,
		Description: "A text literal is missing its closing double quote.",
	},
	CodeUnterminatedComment: {
		Code: CodeUnterminatedComment, Phase: "lexer", Severity: SeverityError,
		Description: "A block comment is missing its closing */ delimiter.",
	},
	CodeInvalidCharacter: {
		Code: CodeInvalidCharacter, Phase: "lexer", Severity: SeverityError,
		Description: "A character that cannot start any token was encountered.",
	},
	CodeUnexpectedToken: {
		Code: CodeUnexpectedToken, Phase: "parser", Severity: SeverityError,
		Description: "A token appeared where the grammar does not allow it.",
	},
	CodeUnbalancedDelimiter: {
		Code: CodeUnbalancedDelimiter, Phase: "parser", Severity: SeverityError,
		Description: "A parenthesis, brace, or bracket is not balanced.",
	},
	CodeMissingOperand: {
		Code: CodeMissingOperand, Phase: "parser", Severity: SeverityError,
		Description: "An operator is missing one of its operands.",
	},
	CodeChainedComparison: {
		Code: CodeChainedComparison, Phase: "parser", Severity: SeverityError,
		Description: "Relational and membership operators take exactly two operands; parenthesize to chain.",
	},
	CodeUnresolvedIdentifier: {
		Code: CodeUnresolvedIdentifier, Phase: "resolution", Severity: SeverityWarning,
		Description: "An identifier does not resolve against the supplied symbol table or any scope.",
	},
	CodeNonDelegablePredicate: {
		Code: CodeNonDelegablePredicate, Phase: "delegation", Severity: SeverityWarning,
		Description: "A predicate uses an operator the data-source field does not support server-side.",
	},
	CodeNonDelegableCall: {
		Code: CodeNonDelegableCall, Phase: "delegation", Severity: SeverityWarning,
		Description: "A function call outside the delegable allow-list forces local evaluation of its clause.",
	},
	CodeNonSortableField: {
		Code: CodeNonSortableField, Phase: "delegation", Severity: SeverityWarning,
		Description: "A sort key refers to a field the data source cannot sort server-side.",
	},
}

// Lookup returns metadata for a diagnostic code.
func Lookup(c Code) (CodeInfo, bool) {
	info, ok := codeInfos[c]
	return info, ok
}

// AllCodes returns metadata for every registered code, sorted by code.
func AllCodes() []CodeInfo {
	infos := make([]CodeInfo, 0, len(codeInfos))
	for _, info := range codeInfos {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}
