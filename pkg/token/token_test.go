package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxtools/fxlint/pkg/token"
)

func TestLookupIdent_CaseSensitive(t *testing.T) {
	tests := []struct {
		lexeme string
		want   token.Type
	}{
		{"And", token.AND},
		{"Or", token.OR},
		{"Not", token.NOT},
		{"in", token.IN},
		{"exactin", token.EXACTIN},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"ThisItem", token.THISITEM},
		{"Parent", token.PARENT},

		// Only the exact spellings are reserved.
		{"AND", token.IDENT},
		{"and", token.IDENT},
		{"True", token.IDENT},
		{"In", token.IDENT},
		{"EXACTIN", token.IDENT},
		{"thisitem", token.IDENT},
		{"Counter", token.IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			assert.Equal(t, tt.want, token.LookupIdent(tt.lexeme))
		})
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, token.IsKeywordOperator(token.AND))
	assert.True(t, token.IsKeywordOperator(token.EXACTIN))
	assert.False(t, token.IsKeywordOperator(token.PLUS))
	assert.False(t, token.IsKeywordOperator(token.THISITEM))

	assert.True(t, token.IsContextKeyword(token.SELF))
	assert.False(t, token.IsContextKeyword(token.IDENT))

	assert.True(t, token.IsOperator(token.PLUS))
	assert.True(t, token.IsOperator(token.IN))
	assert.False(t, token.IsOperator(token.LPAREN))
	assert.False(t, token.IsOperator(token.IDENT))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  token.Type
		want token.Kind
	}{
		{token.TRUE, token.KindLogicalLiteral},
		{token.NUMBER, token.KindNumberLiteral},
		{token.STRING, token.KindTextLiteral},
		{token.IDENT, token.KindIdentifier},
		{token.THISRECORD, token.KindIdentifier},
		{token.DISAMBIG, token.KindDisambiguatedIdentifier},
		{token.CARET, token.KindOperator},
		{token.AND, token.KindOperator},
		{token.LISTSEP, token.KindSeparator},
		{token.COLON, token.KindSeparator},
		{token.EOF, token.KindSpecial},
		{token.ILLEGAL, token.KindSpecial},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, token.KindOf(tt.typ), "KindOf(%s)", tt.typ)
	}
}

func TestSpanAdjacent(t *testing.T) {
	a := token.Span{
		Start: token.Position{Line: 1, Column: 1, Offset: 0},
		End:   token.Position{Line: 1, Column: 6, Offset: 5},
	}
	b := token.Span{
		Start: token.Position{Line: 1, Column: 6, Offset: 5},
		End:   token.Position{Line: 1, Column: 14, Offset: 13},
	}
	gapped := token.Span{
		Start: token.Position{Line: 1, Column: 7, Offset: 6},
		End:   token.Position{Line: 1, Column: 15, Offset: 14},
	}

	assert.True(t, a.Adjacent(b))
	assert.False(t, a.Adjacent(gapped))
	assert.False(t, b.Adjacent(a))
}

func TestSpanContains(t *testing.T) {
	s := token.Span{
		Start: token.Position{Line: 1, Column: 3, Offset: 2},
		End:   token.Position{Line: 1, Column: 8, Offset: 7},
	}
	assert.True(t, s.Contains(4))
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(7))
	assert.False(t, s.Contains(0))
}
