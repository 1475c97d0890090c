package errors

import (
	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/schema"
	"github.com/verity-lang/verity/internal/types"
)

// FromCheckError converts one internal/types.CheckError into the same
// *Report envelope the parser/loader phases use (internal/ast.Span,
// TYC### code, Data payload), so a caller driving internal/checker gets
// reports that round-trip through AsReport identically to every other
// phase's errors. sid is the session id the caller wants recorded
// alongside the report (e.g. a modcache.Record's SessionID.String());
// pass "" when no session is in scope yet.
func FromCheckError(phase, sid string, e types.CheckError) *Report {
	loc := e.Location()
	span := &ast.Span{
		Start: ast.Pos{File: loc.File, Line: loc.Line, Column: loc.Col},
		End:   ast.Pos{File: loc.File, Line: loc.Line, Column: loc.Col},
	}
	data := map[string]any{}
	if sid != "" {
		data["sid"] = sid
	}
	switch err := e.(type) {
	case *types.NameError:
		data["name"] = err.Name
		if err.Suggestion != "" {
			data["suggestion"] = err.Suggestion
		}
	case *types.TypeMismatchError:
		data["expected"] = err.Expected.String()
		data["got"] = err.Got.String()
	case *types.SubtypingError:
		data["sub"] = err.Sub.String()
		data["sup"] = err.Sup.String()
	case *types.UnificationError:
		data["lhs"] = err.Lhs.String()
		data["rhs"] = err.Rhs.String()
		data["reason"] = err.Reason
	case *types.ReUnificationError:
		data["field"] = err.Field
		data["old"] = err.Old.String()
		data["new"] = err.New.String()
	case *types.PredicateUnificationError:
		data["sub"] = err.Sub.String()
		data["sup"] = err.Sup.String()
	case *types.MethodError:
		data["receiver"] = err.Receiver.String()
		data["method"] = err.Method
	case *types.ArgumentError:
		data["callee"] = err.Callee
		data["expected"] = err.Expected
		data["got"] = err.Got
	case *types.ArgumentTypeError:
		data["callee"] = err.Callee
		data["param"] = err.Param
		data["expected"] = err.Expected.String()
		data["got"] = err.Got.String()
	case *types.TooManyArgsError:
		data["callee"] = err.Callee
		data["params_len"] = err.ParamsLen
		data["pos_args_len"] = err.PosArgsLen
		data["kw_args_len"] = err.KwArgsLen
	case *types.ArgsMissingError:
		data["callee"] = err.Callee
		data["missing"] = err.Missing
	case *types.MultipleArgsError:
		data["callee"] = err.Callee
		data["param"] = err.Param
	case *types.UnexpectedKwArgError:
		data["callee"] = err.Callee
		data["param"] = err.Param
	case *types.DefaultParamError:
		data["callee"] = err.Callee
		data["param"] = err.Param
	case *types.DefaultParamNotFoundError:
		data["callee"] = err.Callee
		data["param"] = err.Param
		data["suggestion"] = err.Suggestion
	case *types.NoTraitImplError:
		data["type"] = err.Type.String()
		data["trait"] = err.Trait
	case *types.TraitMemberNotDefinedError:
		data["type"] = err.Type.String()
		data["trait"] = err.Trait
		data["member"] = err.Member
	case *types.TraitMemberTypeError:
		data["type"] = err.Type.String()
		data["trait"] = err.Trait
		data["member"] = err.Member
		data["expected"] = err.Expected.String()
		data["got"] = err.Got.String()
	case *types.NotInTraitError:
		data["type"] = err.Type.String()
		data["trait"] = err.Trait
		data["member"] = err.Member
	case *types.SpecializationError:
		data["type"] = err.Type.String()
		data["trait"] = err.Trait
		data["member"] = err.Member
		data["expected"] = err.Expected.String()
		data["got"] = err.Got.String()
	case *types.FeatureError:
		data["feature"] = err.Feature
	case *types.CompilerSystemError:
		data["msg"] = err.Msg
	}
	return &Report{
		Schema:  schema.ErrorV1,
		Code:    e.Code(),
		Phase:   phase,
		Message: e.Error(),
		Span:    span,
		Data:    data,
	}
}

// FromErrorList converts every error in an ErrorList into a Report,
// preserving order (spec.md §7: errors accumulate in a stream).
func FromErrorList(phase, sid string, list *types.ErrorList) []*Report {
	if list == nil {
		return nil
	}
	errs := list.Errors()
	reports := make([]*Report, len(errs))
	for i, e := range errs {
		reports[i] = FromCheckError(phase, sid, e)
	}
	return reports
}
