package checker

import (
	"fmt"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/hir"
	"github.com/verity-lang/verity/internal/types"
)

// checkExprAgainst synthesizes e's type then sub-unifies it against
// expected, appending any mismatch to the driver's error stream. It
// returns the typed node carrying the synthesized (not the expected) type,
// matching the teacher's "infer, then reconcile" checkExpression idiom.
func (c *Checker) checkExprAgainst(ctx *types.Context, e ast.Expr, expected types.Type) hir.TypedNode {
	node, synth := c.inferExpr(ctx, e, c.level)
	if expected != nil {
		types.SubUnify(ctx, synth, expected, posToLoc(e.Position()), "", c.errs)
	}
	return node
}

func literalType(n *ast.Literal) types.Type {
	switch n.Kind {
	case ast.IntLit:
		return types.Int
	case ast.NatLit:
		return types.Nat
	case ast.FloatLit:
		return types.Float
	case ast.RatioLit:
		return types.Ratio
	case ast.StringLit:
		return types.Str
	case ast.BoolLit:
		return types.Bool
	case ast.NoneLit:
		return types.NoneType
	case ast.EllipsisLit:
		return types.Ellipsis
	default:
		return types.Obj
	}
}

// inferExpr synthesizes e's type, returning the corresponding typed HIR
// node alongside it.
func (c *Checker) inferExpr(ctx *types.Context, e ast.Expr, level types.Level) (hir.TypedNode, types.Type) {
	loc := posToLoc(e.Position())
	switch n := e.(type) {
	case *ast.Literal:
		t := literalType(n)
		return hir.TypedLit{TypedExpr: c.typedExpr(n.Pos, t), Kind: n.Kind, Value: n.Value}, t

	case *ast.Identifier:
		info, ok := ctx.Lookup(n.Name)
		if !ok {
			c.errs.Add(types.NewNameError(loc, n.Name, suggestName(n.Name, ctx.LookupNames())))
			return hir.TypedVar{TypedExpr: c.typedExpr(n.Pos, types.Never), Name: n.Name}, types.Never
		}
		resolved := info.Type
		if q, ok := resolved.(*types.Quantified); ok {
			mono, errs := types.InstantiateCall(ctx, q, level, loc, nil)
			if errs != nil {
				c.errs.Merge(errs)
			}
			resolved = mono
		}
		varInfo := hir.VarInfo{Origin: n.Pos, Visibility: ast.Public, PythonName: info.PythonName, Kind: info.Kind}
		return hir.TypedVar{TypedExpr: c.typedExpr(n.Pos, resolved), Name: n.Name, Info: varInfo}, resolved

	case *ast.Lambda:
		return c.inferLambda(ctx, n, level)

	case *ast.FuncCall:
		return c.inferFuncCall(ctx, n, level)

	case *ast.Let:
		valNode, valT := c.inferExpr(ctx, n.Value, level)
		if n.Type != nil {
			tvEnv := typeVarEnv{}
			declared := c.resolveTypeSpec(ctx, tvEnv, n.Type)
			types.SubUnify(ctx, valT, declared, loc, n.Name, c.errs)
			valT = declared
		}
		child := ctx.NewChildContext()
		child.Declare(n.Name, types.VarInfo{Type: valT, Kind: types.VarLocal})
		bodyNode, bodyT := c.inferExpr(child, n.Body, level)
		return hir.TypedLet{TypedExpr: c.typedExpr(n.Pos, bodyT), Name: n.Name, Value: valNode, Body: bodyNode}, bodyT

	case *ast.LetRec:
		placeholder := types.NewFreeVar(level, types.Sandwiched(types.Never, types.Obj))
		child := ctx.NewChildContext()
		child.Declare(n.Name, types.VarInfo{Type: placeholder, Kind: types.VarLocal})
		valNode, valT := c.inferExpr(child, n.Value, level)
		types.SubUnify(child, valT, placeholder, loc, n.Name, c.errs)
		bodyNode, bodyT := c.inferExpr(child, n.Body, level)
		binding := hir.TypedRecBinding{Name: n.Name, Value: valNode}
		return hir.TypedLetRec{TypedExpr: c.typedExpr(n.Pos, bodyT), Bindings: []hir.TypedRecBinding{binding}, Body: bodyNode}, bodyT

	case *ast.Block:
		return c.inferBlock(ctx, n, level)

	case *ast.If:
		condNode := c.checkExprAgainst(ctx, n.Condition, types.Bool)
		thenNode, thenT := c.inferExpr(ctx, n.Then, level)
		elseNode, elseT := c.inferExpr(ctx, n.Else, level)
		resultT := types.NormalizeOr(thenT, elseT)
		return hir.TypedIf{TypedExpr: c.typedExpr(n.Pos, resultT), Cond: condNode, Then: thenNode, Else: elseNode}, resultT

	case *ast.BinaryOp:
		return c.inferBinaryOp(ctx, n, level)

	case *ast.UnaryOp:
		return c.inferUnaryOp(ctx, n, level)

	case *ast.Match:
		return c.inferMatch(ctx, n, level)

	case *ast.RecordLit:
		fields := map[string]hir.TypedNode{}
		fieldTypes := map[string]types.RecordField{}
		for _, f := range n.Fields {
			node, t := c.inferExpr(ctx, f.Value, level)
			fields[f.Name] = node
			vis := types.FieldPublic
			if f.Visibility == ast.Private {
				vis = types.FieldPrivate
			}
			fieldTypes[f.Name] = types.RecordField{Vis: vis, Type: t}
		}
		rt := &types.Record{Fields: fieldTypes}
		return hir.TypedRecord{TypedExpr: c.typedExpr(n.Pos, rt), Fields: fields}, rt

	case *ast.RecordAccess:
		recNode, recT := c.inferExpr(ctx, n.Record, level)
		fieldT := c.projectField(ctx, recT, n.Field, loc)
		return hir.TypedRecordAccess{TypedExpr: c.typedExpr(n.Pos, fieldT), Record: recNode, Field: n.Field}, fieldT

	case *ast.RecordUpdate:
		baseNode, baseT := c.inferExpr(ctx, n.Base, level)
		rec, ok := types.Deref(baseT).(*types.Record)
		if !ok {
			c.errs.Add(types.NewMethodError(loc, baseT, "|update|"))
			return baseNode, baseT
		}
		fields := map[string]hir.TypedNode{}
		newFields := map[string]types.RecordField{}
		for k, v := range rec.Fields {
			newFields[k] = v
		}
		for _, f := range n.Fields {
			node := c.checkExprAgainst(ctx, f.Value, newFields[f.Name].Type)
			fields[f.Name] = node
		}
		rt := &types.Record{Fields: newFields}
		return hir.TypedRecord{TypedExpr: c.typedExpr(n.Pos, rt), Fields: fields}, rt

	case *ast.Ref:
		ofNode, ofT := c.inferExpr(ctx, n.Of, level)
		rt := &types.Ref{Of: ofT}
		return hir.TypedRef{TypedExpr: c.typedExpr(n.Pos, rt), Of: ofNode}, rt

	case *ast.RefMut:
		ofNode, ofT := c.inferExpr(ctx, n.Of, level)
		rt := &types.RefMut{Before: ofT}
		return hir.TypedRefMut{TypedExpr: c.typedExpr(n.Pos, rt), Of: ofNode}, rt

	case *ast.ErrorExpr:
		c.errs.Add(types.NewFeatureError(loc, "upstream parse error node"))
		return hir.TypedLit{TypedExpr: c.typedExpr(n.Pos, types.Failure), Kind: ast.NoneLit}, types.Failure

	default:
		c.errs.Add(types.NewCompilerSystemError(loc, fmt.Sprintf("unhandled expression %T", e)))
		return hir.TypedLit{TypedExpr: c.typedExpr(e.Position(), types.Obj)}, types.Obj
	}
}

func (c *Checker) typedExpr(pos ast.Pos, t types.Type) hir.TypedExpr {
	return hir.TypedExpr{NodeID: c.nextNodeID(), Span: pos, Type: t}
}

func (c *Checker) inferLambda(ctx *types.Context, n *ast.Lambda, level types.Level) (hir.TypedNode, types.Type) {
	tvEnv := typeVarEnv{}
	child := ctx.NewChildContext()
	paramTypes := make([]types.Type, len(n.Params))
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		pt := c.resolveTypeSpec(ctx, tvEnv, p.Type)
		paramTypes[i] = pt
		names[i] = p.Name
		child.Declare(p.Name, types.VarInfo{Type: pt, Kind: types.VarParameter})
	}
	c.level++
	bodyNode, bodyT := c.inferExpr(child, n.Body, c.level)
	c.level--
	subr := &types.Subr{Kind: types.SubrFunc, Return: bodyT}
	for i, pt := range paramTypes {
		subr.NonDefaultPs = append(subr.NonDefaultPs, types.Param{Name: names[i], Type: pt})
	}
	return hir.TypedLambda{TypedExpr: c.typedExpr(n.Pos, subr), Params: names, ParamTypes: paramTypes, Body: bodyNode}, subr
}

func (c *Checker) inferBlock(ctx *types.Context, n *ast.Block, level types.Level) (hir.TypedNode, types.Type) {
	if len(n.Exprs) == 0 {
		return hir.TypedLit{TypedExpr: c.typedExpr(n.Pos, types.NoneType), Kind: ast.NoneLit}, types.NoneType
	}
	var last hir.TypedNode
	var lastT types.Type
	for _, e := range n.Exprs {
		last, lastT = c.inferExpr(ctx, e, level)
	}
	return last, lastT
}

// inferFuncCall synthesizes the callee's type, checks arity, and
// sub-unifies each argument against its formal parameter (spec.md S1/S4).
func (c *Checker) inferFuncCall(ctx *types.Context, n *ast.FuncCall, level types.Level) (hir.TypedNode, types.Type) {
	loc := posToLoc(n.Pos)
	funcNode, funcT := c.inferExpr(ctx, n.Func, level)
	calleeName := n.Func.String()

	subr, ok := types.Deref(funcT).(*types.Subr)
	if !ok {
		c.errs.Add(types.NewMethodError(loc, funcT, "()"))
		return hir.TypedApp{TypedExpr: c.typedExpr(n.Pos, types.Never), Func: funcNode}, types.Never
	}

	nPos := len(n.Args)
	required := len(subr.NonDefaultPs)
	maxPositional := required + len(subr.DefaultPs)
	kwNames := map[string]bool{}
	for _, k := range n.KeywordArgs {
		kwNames[k.Name] = true
	}
	if subr.VarParam == nil {
		if nPos < required {
			// A required parameter named by a keyword argument is not
			// missing; whether naming it that way is legal is the keyword
			// loop's own diagnostic.
			missing := make([]string, 0, required-nPos)
			for _, p := range subr.NonDefaultPs[nPos:] {
				if !kwNames[p.Name] {
					missing = append(missing, p.Name)
				}
			}
			if len(missing) > 0 {
				c.errs.Add(types.NewArgsMissingError(loc, calleeName, missing))
			}
		} else if nPos > maxPositional {
			c.errs.Add(types.NewTooManyArgsError(loc, calleeName, maxPositional, nPos, len(n.KeywordArgs)))
		}
	}
	args := make([]hir.TypedNode, len(n.Args))
	filledByPosition := map[string]bool{}
	for i, a := range n.Args {
		var want types.Type = types.Obj
		name := ""
		switch {
		case i < len(subr.NonDefaultPs):
			want = subr.NonDefaultPs[i].Type
			name = subr.NonDefaultPs[i].Name
		case i < maxPositional:
			dp := subr.DefaultPs[i-required]
			want = dp.Type
			name = dp.Name
		case subr.VarParam != nil:
			want = subr.VarParam.Type
			name = subr.VarParam.Name
		}
		if name != "" {
			filledByPosition[name] = true
		}
		argNode, argT := c.inferExpr(ctx, a, level)
		types.SubUnify(ctx, argT, want, posToLoc(a.Position()), name, c.errs)
		args[i] = argNode
	}
	keywordArgs := map[string]hir.TypedNode{}
	for _, k := range n.KeywordArgs {
		kloc := posToLoc(k.Pos)
		want, isDefault, found := findParam(subr, k.Name)
		switch {
		case filledByPosition[k.Name]:
			c.errs.Add(types.NewMultipleArgsError(kloc, calleeName, k.Name))
			want = types.Obj
		case found && !isDefault:
			c.errs.Add(types.NewDefaultParamError(kloc, calleeName, k.Name))
			want = types.Obj
		case !found:
			if suggestion := suggestName(k.Name, defaultParamNames(subr)); suggestion != "" {
				c.errs.Add(types.NewDefaultParamNotFoundError(kloc, calleeName, k.Name, suggestion))
			} else {
				c.errs.Add(types.NewUnexpectedKwArgError(kloc, calleeName, k.Name))
			}
			want = types.Obj
		}
		node, t := c.inferExpr(ctx, k.Value, level)
		types.SubUnify(ctx, t, want, kloc, k.Name, c.errs)
		keywordArgs[k.Name] = node
	}
	return hir.TypedApp{TypedExpr: c.typedExpr(n.Pos, subr.Return), Func: funcNode, Args: args, KeywordArgs: keywordArgs}, subr.Return
}

// findParam looks name up among subr's parameters, reporting whether it
// names a declared default parameter (true) or a required, non-default one
// (false). The second return value is meaningless when found is false.
func findParam(subr *types.Subr, name string) (want types.Type, isDefault, found bool) {
	for _, p := range subr.NonDefaultPs {
		if p.Name == name {
			return p.Type, false, true
		}
	}
	for _, p := range subr.DefaultPs {
		if p.Name == name {
			return p.Type, true, true
		}
	}
	return nil, false, false
}

func defaultParamNames(subr *types.Subr) []string {
	names := make([]string, len(subr.DefaultPs))
	for i, p := range subr.DefaultPs {
		names[i] = p.Name
	}
	return names
}

// joinNumeric picks the wider of the two operand types (the one that is a
// supertype of the other) as the result of an arithmetic operator. When
// neither operand is a supertype of the other it reports a SubtypingError
// and falls back to Obj; trait-based operator overloading on a user
// nominal type is not looked up.
func (c *Checker) joinNumeric(ctx *types.Context, lhs, rhs types.Type, loc types.SourceLoc) types.Type {
	if types.SupertypeOf(ctx, lhs, rhs) {
		return lhs
	}
	if types.SupertypeOf(ctx, rhs, lhs) {
		return rhs
	}
	c.errs.Add(types.NewSubtypingError(loc, rhs, lhs))
	return types.Obj
}

func (c *Checker) inferBinaryOp(ctx *types.Context, n *ast.BinaryOp, level types.Level) (hir.TypedNode, types.Type) {
	loc := posToLoc(n.Pos)
	leftNode, leftT := c.inferExpr(ctx, n.Left, level)
	rightNode, rightT := c.inferExpr(ctx, n.Right, level)
	var resultT types.Type
	switch n.Op {
	case "+", "-", "*", "/":
		resultT = c.joinNumeric(ctx, leftT, rightT, loc)
	case "==", "!=", "<", ">", "<=", ">=":
		if !types.Related(ctx, leftT, rightT) {
			c.errs.Add(types.NewSubtypingError(loc, rightT, leftT))
		}
		resultT = types.Bool
	case "and", "or":
		types.SubUnify(ctx, leftT, types.Bool, loc, "", c.errs)
		types.SubUnify(ctx, rightT, types.Bool, loc, "", c.errs)
		resultT = types.Bool
	default:
		c.errs.Add(types.NewFeatureError(loc, fmt.Sprintf("operator %q", n.Op)))
		resultT = types.Obj
	}
	return hir.TypedBinOp{TypedExpr: c.typedExpr(n.Pos, resultT), Op: n.Op, Left: leftNode, Right: rightNode}, resultT
}

func (c *Checker) inferUnaryOp(ctx *types.Context, n *ast.UnaryOp, level types.Level) (hir.TypedNode, types.Type) {
	operandNode, operandT := c.inferExpr(ctx, n.Expr, level)
	resultT := operandT
	if n.Op == "not" {
		types.SubUnify(ctx, operandT, types.Bool, posToLoc(n.Pos), "", c.errs)
		resultT = types.Bool
	}
	return hir.TypedUnOp{TypedExpr: c.typedExpr(n.Pos, resultT), Op: n.Op, Operand: operandNode}, resultT
}

// projectField resolves a.b's type against a's structural record shape, or
// (for a nominal type) its class's declared field/method table.
func (c *Checker) projectField(ctx *types.Context, recv types.Type, field string, loc types.SourceLoc) types.Type {
	switch r := types.Deref(recv).(type) {
	case *types.Record:
		if f, ok := r.Fields[field]; ok {
			return f.Type
		}
		c.errs.Add(types.NewMethodError(loc, recv, field))
		return types.Obj
	default:
		if nc := c.lookupNominal(ctx, recv); nc != nil {
			if m, ok := nc.Methods[field]; ok {
				return m
			}
		}
		c.errs.Add(types.NewMethodError(loc, recv, field))
		return types.Obj
	}
}

// suggestName finds the closest in-scope name by Levenshtein distance
// (spec.md §7: "optional suggestion computed by Levenshtein-like
// proximity"), returning "" when nothing is close enough to be useful.
func suggestName(name string, candidates []string) string {
	best := ""
	bestDist := len(name)/2 + 1
	for _, cand := range candidates {
		d := levenshtein(name, cand)
		if d < bestDist {
			bestDist = d
			best = cand
		}
	}
	return best
}

// inferMatch type-checks a scrutinee once and each case body against a
// child scope carrying that case's bound pattern names, widening the
// overall result across every arm the way *ast.If widens its two branches.
// Exhaustiveness is not analyzed; Exhaustive is conservatively false until
// a dedicated coverage pass exists (left as a FeatureError-free gap since
// spec.md does not require this checker to reject non-exhaustive matches).
func (c *Checker) inferMatch(ctx *types.Context, n *ast.Match, level types.Level) (hir.TypedNode, types.Type) {
	scrutNode, scrutT := c.inferExpr(ctx, n.Expr, level)
	var resultT types.Type
	arms := make([]hir.TypedMatchArm, len(n.Cases))
	for i, cs := range n.Cases {
		child := ctx.NewChildContext()
		pat := c.bindPattern(child, cs.Pattern, scrutT)
		var guardNode hir.TypedNode
		if cs.Guard != nil {
			guardNode = c.checkExprAgainst(child, cs.Guard, types.Bool)
		}
		bodyNode, bodyT := c.inferExpr(child, cs.Body, level)
		if resultT == nil {
			resultT = bodyT
		} else {
			resultT = types.NormalizeOr(resultT, bodyT)
		}
		arms[i] = hir.TypedMatchArm{Pattern: pat, Guard: guardNode, Body: bodyNode}
	}
	if resultT == nil {
		resultT = types.NoneType
	}
	return hir.TypedMatch{TypedExpr: c.typedExpr(n.Pos, resultT), Scrutinee: scrutNode, Arms: arms}, resultT
}

// bindPattern declares every name a pattern binds into ctx and returns the
// closest hir.TypedPattern shape available. internal/hir only models
// Var/Discard/Literal/Constructor/Tuple patterns; Ref, RefMut, array, cons
// and record patterns still bind correctly (the part that matters for
// checking the arm's body) but are reported through the nearest
// TypedConstructorPattern shape rather than a dedicated hir node.
func (c *Checker) bindPattern(ctx *types.Context, p ast.Pattern, scrut types.Type) hir.TypedPattern {
	switch pt := p.(type) {
	case *ast.VarPattern:
		ctx.Declare(pt.Name, types.VarInfo{Type: scrut, Kind: types.VarLocal})
		return hir.TypedVarPattern{Name: pt.Name, Type: scrut}
	case *ast.Identifier:
		ctx.Declare(pt.Name, types.VarInfo{Type: scrut, Kind: types.VarLocal})
		return hir.TypedVarPattern{Name: pt.Name, Type: scrut}
	case *ast.DiscardPattern:
		return hir.TypedDiscardPattern{Type: scrut}
	case *ast.LiteralPattern:
		return hir.TypedLitPattern{Value: pt.Value.Value, Type: literalType(pt.Value)}
	case *ast.Literal:
		return hir.TypedLitPattern{Value: pt.Value, Type: literalType(pt)}
	case *ast.RefPattern:
		var inner types.Type = types.Obj
		if r, ok := types.Deref(scrut).(*types.Ref); ok {
			inner = r.Of
		}
		sub := c.bindPattern(ctx, pt.Inner, inner)
		return hir.TypedConstructorPattern{Name: "ref", Args: []hir.TypedPattern{sub}, Type: scrut}
	case *ast.RefMutPattern:
		var inner types.Type = types.Obj
		if r, ok := types.Deref(scrut).(*types.RefMut); ok {
			inner = r.Before
		}
		sub := c.bindPattern(ctx, pt.Inner, inner)
		return hir.TypedConstructorPattern{Name: "ref!", Args: []hir.TypedPattern{sub}, Type: scrut}
	case *ast.ConsPattern:
		elem := arrayElemType(scrut)
		head := c.bindPattern(ctx, pt.Head, elem)
		tail := c.bindPattern(ctx, pt.Tail, scrut)
		return hir.TypedConstructorPattern{Name: "cons", Args: []hir.TypedPattern{head, tail}, Type: scrut}
	case *ast.ArrayPattern:
		elem := arrayElemType(scrut)
		subs := make([]hir.TypedPattern, len(pt.Elements))
		for i, e := range pt.Elements {
			subs[i] = c.bindPattern(ctx, e, elem)
		}
		if pt.Rest != nil {
			subs = append(subs, c.bindPattern(ctx, pt.Rest, scrut))
		}
		return hir.TypedConstructorPattern{Name: "array", Args: subs, Type: scrut}
	case *ast.TuplePattern:
		elemTypes := tupleElemTypes(scrut, len(pt.Elements))
		elems := make([]hir.TypedPattern, len(pt.Elements))
		for i, e := range pt.Elements {
			elems[i] = c.bindPattern(ctx, e, elemTypes[i])
		}
		return hir.TypedTuplePattern{Elements: elems, Type: scrut}
	case *ast.RecordPattern:
		rec, _ := types.Deref(scrut).(*types.Record)
		args := make([]hir.TypedPattern, len(pt.Fields))
		for i, f := range pt.Fields {
			var ft types.Type = types.Obj
			if rec != nil {
				if rf, ok := rec.Fields[f.Name]; ok {
					ft = rf.Type
				}
			}
			args[i] = c.bindPattern(ctx, f.Pattern, ft)
		}
		return hir.TypedConstructorPattern{Name: "{}", Args: args, Type: scrut}
	case *ast.ConstructorPattern:
		nc := c.lookupNominal(ctx, scrut)
		args := make([]hir.TypedPattern, len(pt.Patterns))
		for i, sub := range pt.Patterns {
			var argT types.Type = types.Obj
			if nc != nil {
				if subr, ok := nc.Methods[pt.Name].(*types.Subr); ok && i < len(subr.NonDefaultPs) {
					argT = subr.NonDefaultPs[i].Type
				}
			}
			args[i] = c.bindPattern(ctx, sub, argT)
		}
		return hir.TypedConstructorPattern{Name: pt.Name, Args: args, Type: scrut}
	default:
		c.errs.Add(types.NewFeatureError(posToLoc(p.Position()), fmt.Sprintf("pattern shape %T", p)))
		return hir.TypedDiscardPattern{Type: scrut}
	}
}

func arrayElemType(t types.Type) types.Type {
	if poly, ok := types.Deref(t).(*types.Poly); ok && poly.Name == "Array" && len(poly.Params) > 0 {
		if tp, ok := poly.Params[0].(types.TPType); ok {
			return tp.T
		}
	}
	return types.Obj
}

func tupleElemTypes(t types.Type, n int) []types.Type {
	out := make([]types.Type, n)
	for i := range out {
		out[i] = types.Obj
	}
	if poly, ok := types.Deref(t).(*types.Poly); ok && poly.Name == "Tuple" {
		for i := 0; i < n && i < len(poly.Params); i++ {
			if tp, ok := poly.Params[i].(types.TPType); ok {
				out[i] = tp.T
			}
		}
	}
	return out
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
