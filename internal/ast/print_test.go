package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintLiteral(t *testing.T) {
	lit := &Literal{Kind: IntLit, Value: 42, Pos: Pos{File: "t.vy", Line: 1, Column: 1}}
	out := Print(lit)
	assert.Contains(t, out, `"type": "Literal"`)
	assert.Contains(t, out, `"value": 42`)
}

func TestPrintFuncCallWithKeywordAndSpreadArgs(t *testing.T) {
	call := &FuncCall{
		Func: &Identifier{Name: "f"},
		Args: []Expr{&Literal{Kind: IntLit, Value: 1}},
		KeywordArgs: []*KeywordArg{
			{Name: "limit", Value: &Literal{Kind: IntLit, Value: 10}},
		},
		SpreadArg: &Identifier{Name: "rest"},
	}
	out := Print(call)
	assert.Contains(t, out, `"keywordArgs"`)
	assert.Contains(t, out, `"spread"`)
	assert.Contains(t, out, `"limit"`)
}

func TestPrintIsDeterministicAcrossPositions(t *testing.T) {
	a := &Identifier{Name: "x", Pos: Pos{File: "a.vy", Line: 1, Column: 1}}
	b := &Identifier{Name: "x", Pos: Pos{File: "b.vy", Line: 99, Column: 7}}
	require.Equal(t, Print(a), Print(b))
}

func TestRecordPatternRestFlag(t *testing.T) {
	pat := &RecordPattern{
		Fields: []*FieldPattern{{Name: "x", Pattern: &VarPattern{Name: "x"}}},
		Rest:   true,
	}
	out := Print(pat)
	assert.Contains(t, out, `"rest": true`)
}
