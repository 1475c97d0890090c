package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node, used
// for golden snapshot tests. Position info is omitted so output is stable
// across re-parses of the same source at a different byte offset.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{"type": "Program", "file": simplify(n.File)}
	case *File:
		m := map[string]interface{}{"type": "File", "path": "test://unit"}
		if n.Module != nil {
			m["module"] = simplify(n.Module)
		}
		if len(n.Imports) > 0 {
			m["imports"] = simplifyNodes(importsToNodes(n.Imports))
		}
		if len(n.Decls) > 0 {
			m["decls"] = simplifyNodes(declsToNodes(n.Decls))
		}
		return m
	case *ModuleDecl:
		return map[string]interface{}{"type": "ModuleDecl", "path": n.Path}
	case *ImportDecl:
		m := map[string]interface{}{"type": "ImportDecl", "path": n.Path}
		if len(n.Symbols) > 0 {
			m["symbols"] = n.Symbols
		}
		return m
	case *Identifier:
		return map[string]interface{}{"type": "Identifier", "name": n.Name, "visibility": n.Visibility.String()}
	case *Literal:
		return map[string]interface{}{"type": "Literal", "kind": int(n.Kind), "value": n.Value}
	case *BinaryOp:
		return map[string]interface{}{"type": "BinaryOp", "op": n.Op, "left": simplify(n.Left), "right": simplify(n.Right)}
	case *UnaryOp:
		return map[string]interface{}{"type": "UnaryOp", "op": n.Op, "expr": simplify(n.Expr)}
	case *Lambda:
		return map[string]interface{}{"type": "Lambda", "params": simplifyParams(n.Params), "body": simplify(n.Body)}
	case *FuncCall:
		m := map[string]interface{}{"type": "FuncCall", "func": simplify(n.Func), "args": simplifyExprs(n.Args)}
		if len(n.KeywordArgs) > 0 {
			kw := make([]interface{}, len(n.KeywordArgs))
			for i, k := range n.KeywordArgs {
				kw[i] = map[string]interface{}{"name": k.Name, "value": simplify(k.Value)}
			}
			m["keywordArgs"] = kw
		}
		if n.SpreadArg != nil {
			m["spread"] = simplify(n.SpreadArg)
		}
		return m
	case *Let:
		m := map[string]interface{}{"type": "Let", "name": n.Name, "value": simplify(n.Value), "body": simplify(n.Body)}
		if n.Type != nil {
			m["typeAnnotation"] = simplify(n.Type)
		}
		return m
	case *LetRec:
		m := map[string]interface{}{"type": "LetRec", "name": n.Name, "value": simplify(n.Value), "body": simplify(n.Body)}
		if n.Type != nil {
			m["typeAnnotation"] = simplify(n.Type)
		}
		return m
	case *Block:
		return map[string]interface{}{"type": "Block", "exprs": simplifyExprs(n.Exprs)}
	case *If:
		return map[string]interface{}{"type": "If", "condition": simplify(n.Condition), "then": simplify(n.Then), "else": simplify(n.Else)}
	case *Match:
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cm := map[string]interface{}{"pattern": simplify(c.Pattern), "body": simplify(c.Body)}
			if c.Guard != nil {
				cm["guard"] = simplify(c.Guard)
			}
			cases[i] = cm
		}
		return map[string]interface{}{"type": "Match", "expr": simplify(n.Expr), "cases": cases}
	case *RecordLit:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
		}
		return map[string]interface{}{"type": "RecordLit", "fields": fields}
	case *RecordAccess:
		return map[string]interface{}{"type": "RecordAccess", "record": simplify(n.Record), "field": n.Field}
	case *RecordUpdate:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
		}
		return map[string]interface{}{"type": "RecordUpdate", "base": simplify(n.Base), "fields": fields}
	case *Ref:
		return map[string]interface{}{"type": "Ref", "of": simplify(n.Of)}
	case *RefMut:
		return map[string]interface{}{"type": "RefMut", "of": simplify(n.Of)}
	case *ErrorExpr:
		return map[string]interface{}{"type": "ErrorExpr", "msg": n.Msg}

	case *VarPattern:
		return map[string]interface{}{"type": "VarPattern", "name": n.Name}
	case *DiscardPattern:
		return map[string]interface{}{"type": "DiscardPattern"}
	case *LiteralPattern:
		return map[string]interface{}{"type": "LiteralPattern", "value": simplify(n.Value)}
	case *RefPattern:
		return map[string]interface{}{"type": "RefPattern", "inner": simplify(n.Inner)}
	case *RefMutPattern:
		return map[string]interface{}{"type": "RefMutPattern", "inner": simplify(n.Inner)}
	case *ConsPattern:
		return map[string]interface{}{"type": "ConsPattern", "head": simplify(n.Head), "tail": simplify(n.Tail)}
	case *ArrayPattern:
		m := map[string]interface{}{"type": "ArrayPattern", "elements": simplifyPatterns(n.Elements)}
		if n.Rest != nil {
			m["rest"] = simplify(n.Rest)
		}
		return m
	case *TuplePattern:
		return map[string]interface{}{"type": "TuplePattern", "elements": simplifyPatterns(n.Elements)}
	case *RecordPattern:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "pattern": simplify(f.Pattern)}
		}
		return map[string]interface{}{"type": "RecordPattern", "fields": fields, "rest": n.Rest}
	case *ConstructorPattern:
		return map[string]interface{}{"type": "ConstructorPattern", "name": n.Name, "patterns": simplifyPatterns(n.Patterns)}

	case *NamedType:
		return map[string]interface{}{"type": "NamedType", "name": n.Name}
	case *TypeVarSpec:
		return map[string]interface{}{"type": "TypeVarSpec", "name": n.Name}
	case *SubrTypeSpec:
		return map[string]interface{}{"type": "SubrTypeSpec", "isProc": n.IsProc, "return": simplify(n.Return)}
	case *ArrayTypeSpec:
		return map[string]interface{}{"type": "ArrayTypeSpec", "elem": simplify(n.Elem)}
	case *SetTypeSpec:
		return map[string]interface{}{"type": "SetTypeSpec", "elem": simplify(n.Elem)}
	case *DictTypeSpec:
		return map[string]interface{}{"type": "DictTypeSpec", "key": simplify(n.Key), "value": simplify(n.Value)}
	case *TupleTypeSpec:
		return map[string]interface{}{"type": "TupleTypeSpec"}
	case *IntervalTypeSpec:
		return map[string]interface{}{"type": "IntervalTypeSpec", "kind": int(n.Kind)}
	case *EnumTypeSpec:
		return map[string]interface{}{"type": "EnumTypeSpec"}
	case *AndTypeSpec:
		return map[string]interface{}{"type": "AndTypeSpec", "lhs": simplify(n.Lhs), "rhs": simplify(n.Rhs)}
	case *OrTypeSpec:
		return map[string]interface{}{"type": "OrTypeSpec", "lhs": simplify(n.Lhs), "rhs": simplify(n.Rhs)}
	case *NotTypeSpec:
		return map[string]interface{}{"type": "NotTypeSpec", "of": simplify(n.Of)}
	case *RefTypeSpec:
		return map[string]interface{}{"type": "RefTypeSpec", "of": simplify(n.Of)}
	case *RefMutTypeSpec:
		return map[string]interface{}{"type": "RefMutTypeSpec", "before": simplify(n.Before)}
	case *RefinementTypeSpec:
		return map[string]interface{}{"type": "RefinementTypeSpec", "binder": n.Binder, "base": simplify(n.Base), "predicate": simplify(n.Predicate)}
	case *RecordTypeSpec:
		return map[string]interface{}{"type": "RecordTypeSpec"}
	case *ProjTypeSpec:
		return map[string]interface{}{"type": "ProjTypeSpec", "of": simplify(n.Of), "member": n.Member}

	case *FuncDecl:
		return map[string]interface{}{"type": "FuncDecl", "name": n.Name, "isProc": n.IsProc, "body": simplify(n.Body)}
	case *ClassDecl:
		return map[string]interface{}{"type": "ClassDecl", "name": n.Name}
	case *TraitDecl:
		return map[string]interface{}{"type": "TraitDecl", "name": n.Name}
	case *GluePatchDecl:
		return map[string]interface{}{"type": "GluePatchDecl", "subType": simplify(n.SubType), "supTrait": simplify(n.SupTrait)}

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not yet handled by printer"}
	}
}

func simplifyNodes(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = simplify(n)
	}
	return result
}

func simplifyExprs(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}

func simplifyPatterns(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifyParams(params []*Param) []interface{} {
	result := make([]interface{}, len(params))
	for i, p := range params {
		result[i] = map[string]interface{}{"name": p.Name, "variadic": p.IsVariadic}
	}
	return result
}

func importsToNodes(imports []*ImportDecl) []Node {
	out := make([]Node, len(imports))
	for i, imp := range imports {
		out[i] = imp
	}
	return out
}

func declsToNodes(decls []Decl) []Node {
	out := make([]Node, len(decls))
	for i, d := range decls {
		out[i] = d
	}
	return out
}
