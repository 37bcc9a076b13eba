package cursor

import "fmt"

// Kind classifies a cursor. The names follow libclang's cursor kinds so
// that trees from different languages share one vocabulary.
type Kind int

const (
	KindUnexposedDecl Kind = iota
	KindUnexposedExpr
	KindUnexposedStmt

	KindTranslationUnit
	KindNamespace
	KindClassDecl
	KindStructDecl
	KindClassTemplate
	KindClassTemplatePartialSpecialization
	KindFunctionDecl
	KindCXXMethod
	KindConstructor
	KindDestructor
	KindFunctionTemplate
	KindVarDecl
	KindFieldDecl
	KindParmDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindTypedefDecl
	KindTypeAliasDecl

	KindCallExpr
	KindDeclRefExpr
	KindMemberRefExpr
	KindIntegerLiteral
	KindFloatingLiteral
	KindStringLiteral

	KindCompoundStmt
	KindReturnStmt
	KindIfStmt
	KindForStmt
	KindWhileStmt

	KindMacroDefinition
	KindInclusionDirective

	kindCount
)

var kindNames = [kindCount]string{
	KindUnexposedDecl:                      "UNEXPOSED_DECL",
	KindUnexposedExpr:                      "UNEXPOSED_EXPR",
	KindUnexposedStmt:                      "UNEXPOSED_STMT",
	KindTranslationUnit:                    "TRANSLATION_UNIT",
	KindNamespace:                          "NAMESPACE",
	KindClassDecl:                          "CLASS_DECL",
	KindStructDecl:                         "STRUCT_DECL",
	KindClassTemplate:                      "CLASS_TEMPLATE",
	KindClassTemplatePartialSpecialization: "CLASS_TEMPLATE_PARTIAL_SPECIALIZATION",
	KindFunctionDecl:                       "FUNCTION_DECL",
	KindCXXMethod:                          "CXX_METHOD",
	KindConstructor:                        "CONSTRUCTOR",
	KindDestructor:                         "DESTRUCTOR",
	KindFunctionTemplate:                   "FUNCTION_TEMPLATE",
	KindVarDecl:                            "VAR_DECL",
	KindFieldDecl:                          "FIELD_DECL",
	KindParmDecl:                           "PARM_DECL",
	KindEnumDecl:                           "ENUM_DECL",
	KindEnumConstantDecl:                   "ENUM_CONSTANT_DECL",
	KindTypedefDecl:                        "TYPEDEF_DECL",
	KindTypeAliasDecl:                      "TYPE_ALIAS_DECL",
	KindCallExpr:                           "CALL_EXPR",
	KindDeclRefExpr:                        "DECL_REF_EXPR",
	KindMemberRefExpr:                      "MEMBER_REF_EXPR",
	KindIntegerLiteral:                     "INTEGER_LITERAL",
	KindFloatingLiteral:                    "FLOATING_LITERAL",
	KindStringLiteral:                      "STRING_LITERAL",
	KindCompoundStmt:                       "COMPOUND_STMT",
	KindReturnStmt:                         "RETURN_STMT",
	KindIfStmt:                             "IF_STMT",
	KindForStmt:                            "FOR_STMT",
	KindWhileStmt:                          "WHILE_STMT",
	KindMacroDefinition:                    "MACRO_DEFINITION",
	KindInclusionDirective:                 "INCLUSION_DIRECTIVE",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind returns the kind with the given libclang-style name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsDeclaration reports whether k names a declaration.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindUnexposedDecl, KindNamespace, KindClassDecl, KindStructDecl,
		KindClassTemplate, KindClassTemplatePartialSpecialization,
		KindFunctionDecl, KindCXXMethod, KindConstructor, KindDestructor,
		KindFunctionTemplate, KindVarDecl, KindFieldDecl, KindParmDecl,
		KindEnumDecl, KindEnumConstantDecl, KindTypedefDecl, KindTypeAliasDecl:
		return true
	}
	return false
}

// IsExpression reports whether k names an expression.
func (k Kind) IsExpression() bool {
	switch k {
	case KindUnexposedExpr, KindCallExpr, KindDeclRefExpr, KindMemberRefExpr,
		KindIntegerLiteral, KindFloatingLiteral, KindStringLiteral:
		return true
	}
	return false
}
