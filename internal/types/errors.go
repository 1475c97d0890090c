package types

import "fmt"

// SourceLoc is the minimal location a type error is anchored to. The
// driver package supplies the real file/line/col; callers inside this
// package that check invariants with no syntactic origin use the zero
// value.
type SourceLoc struct {
	File string
	Line int
	Col  int
}

func (l SourceLoc) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// CheckError is the common shape of every structured diagnostic this
// package raises. Concrete kinds carry whatever fields their category
// needs; a driver converts them into a rendered report rather than this
// package doing any presentation.
type CheckError interface {
	error
	Code() string
	Location() SourceLoc
}

type baseErr struct {
	Loc SourceLoc
}

func (b baseErr) Location() SourceLoc { return b.Loc }

// NameError: an identifier could not be resolved in the current context.
type NameError struct {
	baseErr
	Name       string
	Suggestion string
}

func (e *NameError) Code() string { return "TYC001" }
func (e *NameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: name %q is not defined (did you mean %q?)", e.Loc, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: name %q is not defined", e.Loc, e.Name)
}

// TypeMismatchError: two types were expected to be identical and are not.
type TypeMismatchError struct {
	baseErr
	Expected Type
	Got      Type
}

func (e *TypeMismatchError) Code() string { return "TYC002" }
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Loc, e.Expected, e.Got)
}

// SubtypingError: sub is required to be a subtype of sup and is not.
type SubtypingError struct {
	baseErr
	Sub Type
	Sup Type
}

func (e *SubtypingError) Code() string { return "TYC003" }
func (e *SubtypingError) Error() string {
	return fmt.Sprintf("%s: %s is not a subtype of %s", e.Loc, e.Sub, e.Sup)
}

// UnificationError: sub-unification could not reconcile lhs and rhs at all.
type UnificationError struct {
	baseErr
	Lhs    Type
	Rhs    Type
	Reason string
}

func (e *UnificationError) Code() string { return "TYC004" }
func (e *UnificationError) Error() string {
	return fmt.Sprintf("%s: cannot unify %s with %s: %s", e.Loc, e.Lhs, e.Rhs, e.Reason)
}

// ReUnificationError: a variable already resolved to one shape was asked
// to additionally resolve to an incompatible one (e.g. RefMut.After).
type ReUnificationError struct {
	baseErr
	Field string
	Old   Type
	New   Type
}

func (e *ReUnificationError) Code() string { return "TYC005" }
func (e *ReUnificationError) Error() string {
	return fmt.Sprintf("%s: %s was already resolved to %s, cannot also resolve to %s", e.Loc, e.Field, e.Old, e.New)
}

// PredicateUnificationError: a refinement predicate does not imply the
// predicate it is required to satisfy.
type PredicateUnificationError struct {
	baseErr
	Sub Predicate
	Sup Predicate
}

func (e *PredicateUnificationError) Code() string { return "TYC006" }
func (e *PredicateUnificationError) Error() string {
	return fmt.Sprintf("%s: predicate %s does not imply %s", e.Loc, e.Sub, e.Sup)
}

// MethodError: a receiver type has no such method, or (reused for the
// structural case) no such field.
type MethodError struct {
	baseErr
	Receiver Type
	Method   string
}

func (e *MethodError) Code() string { return "TYC007" }
func (e *MethodError) Error() string {
	return fmt.Sprintf("%s: %s has no method %q", e.Loc, e.Receiver, e.Method)
}

// ArgumentError: a subroutine type's declared non-default parameter count
// does not match what is required of it (spec.md §7's generic call/param
// count mismatch, distinct from the narrower call-site kinds below, which
// fire when an actual call expression — not two subroutine *types* being
// reconciled — has the wrong shape).
type ArgumentError struct {
	baseErr
	Callee   string
	Expected int
	Got      int
}

func (e *ArgumentError) Code() string { return "TYC008" }
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s expects %d argument(s), got %d", e.Loc, e.Callee, e.Expected, e.Got)
}

// ArgumentTypeError: a call supplied an argument of the wrong type.
type ArgumentTypeError struct {
	baseErr
	Callee   string
	Param    string
	Expected Type
	Got      Type
}

func (e *ArgumentTypeError) Code() string { return "TYC009" }
func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("%s: %s: argument %s expects %s, got %s", e.Loc, e.Callee, e.Param, e.Expected, e.Got)
}

// TooManyArgsError: a call site passed more positional arguments than the
// callee's non-default plus default parameters can absorb.
type TooManyArgsError struct {
	baseErr
	Callee     string
	ParamsLen  int
	PosArgsLen int
	KwArgsLen  int
}

func (e *TooManyArgsError) Code() string { return "TYC010" }
func (e *TooManyArgsError) Error() string {
	return fmt.Sprintf("%s: too many arguments for %s: expected %d, passed %d positional and %d keyword",
		e.Loc, e.Callee, e.ParamsLen, e.PosArgsLen, e.KwArgsLen)
}

// NoTraitImplError: a type does not implement a required trait.
type NoTraitImplError struct {
	baseErr
	Type  Type
	Trait string
}

func (e *NoTraitImplError) Code() string { return "TYC011" }
func (e *NoTraitImplError) Error() string {
	return fmt.Sprintf("%s: %s does not implement %s", e.Loc, e.Type, e.Trait)
}

// ArgsMissingError: a call site did not supply every required (non-default)
// positional parameter.
type ArgsMissingError struct {
	baseErr
	Callee  string
	Missing []string
}

func (e *ArgsMissingError) Code() string { return "TYC012" }
func (e *ArgsMissingError) Error() string {
	return fmt.Sprintf("%s: missing %d positional argument(s) for %s: %v", e.Loc, len(e.Missing), e.Callee, e.Missing)
}

// TraitMemberTypeError: a trait member exists but has the wrong type.
type TraitMemberTypeError struct {
	baseErr
	Type     Type
	Trait    string
	Member   string
	Expected Type
	Got      Type
}

func (e *TraitMemberTypeError) Code() string { return "TYC013" }
func (e *TraitMemberTypeError) Error() string {
	return fmt.Sprintf("%s: %s.%s has type %s, %s's %s declares %s", e.Loc, e.Type, e.Member, e.Got, e.Type, e.Trait, e.Expected)
}

// MultipleArgsError: a call site passed the same parameter both
// positionally and by keyword.
type MultipleArgsError struct {
	baseErr
	Callee string
	Param  string
}

func (e *MultipleArgsError) Code() string { return "TYC014" }
func (e *MultipleArgsError) Error() string {
	return fmt.Sprintf("%s: %s's argument %s is passed multiple times", e.Loc, e.Callee, e.Param)
}

// FeatureError: the construct is syntactically valid but not supported by
// this checker (e.g. an exotic TypeApp shape, per an Open Question
// decision this checker deliberately declines rather than guesses at).
type FeatureError struct {
	baseErr
	Feature string
}

func (e *FeatureError) Code() string { return "TYC015" }
func (e *FeatureError) Error() string {
	return fmt.Sprintf("%s: %s is not supported", e.Loc, e.Feature)
}

// UnexpectedKwArgError: a `name := value` call argument names something
// that is not a parameter of the callee at all, and nothing in the
// callee's default parameters is close enough to suggest.
type UnexpectedKwArgError struct {
	baseErr
	Callee string
	Param  string
}

func (e *UnexpectedKwArgError) Code() string { return "TYC016" }
func (e *UnexpectedKwArgError) Error() string {
	return fmt.Sprintf("%s: %s got unexpected keyword argument %s", e.Loc, e.Callee, e.Param)
}

// DefaultParamError: a `name := value` call argument names a real
// parameter of the callee, but that parameter is not itself declared with
// a default value, so it cannot be overridden this way.
type DefaultParamError struct {
	baseErr
	Callee string
	Param  string
}

func (e *DefaultParamError) Code() string { return "TYC017" }
func (e *DefaultParamError) Error() string {
	return fmt.Sprintf("%s: %s does not accept default parameters", e.Loc, e.Param)
}

// DefaultParamNotFoundError: a `name := value` call argument names no
// parameter of the callee, but a similarly-spelled default parameter
// exists and is suggested.
type DefaultParamNotFoundError struct {
	baseErr
	Callee     string
	Param      string
	Suggestion string
}

func (e *DefaultParamNotFoundError) Code() string { return "TYC018" }
func (e *DefaultParamNotFoundError) Error() string {
	return fmt.Sprintf("%s: there is no default parameter named %s (did you mean %q?)", e.Loc, e.Param, e.Suggestion)
}

// TraitMemberNotDefinedError: a class claims (directly, via its
// super-trait list) to implement a trait but does not define one of the
// trait's required members.
type TraitMemberNotDefinedError struct {
	baseErr
	Type   Type
	Trait  string
	Member string
}

func (e *TraitMemberNotDefinedError) Code() string { return "TYC019" }
func (e *TraitMemberNotDefinedError) Error() string {
	return fmt.Sprintf("%s: %s of %s is not implemented in %s", e.Loc, e.Member, e.Trait, e.Type)
}

// NotInTraitError: a glue patch declares a method meant to implement a
// trait member that the named trait does not actually declare.
type NotInTraitError struct {
	baseErr
	Type   Type
	Trait  string
	Member string
}

func (e *NotInTraitError) Code() string { return "TYC020" }
func (e *NotInTraitError) Error() string {
	return fmt.Sprintf("%s: %s of %s is not declared in %s", e.Loc, e.Member, e.Type, e.Trait)
}

// SpecializationError: a glue patch attaching a trait implementation to a
// type that already (structurally) satisfies that trait narrows a member's
// type to something that is not a subtype of the general declaration.
type SpecializationError struct {
	baseErr
	Type     Type
	Trait    string
	Member   string
	Expected Type
	Got      Type
}

func (e *SpecializationError) Code() string { return "TYC021" }
func (e *SpecializationError) Error() string {
	return fmt.Sprintf("%s: %s already implements %s; specializing %s requires a subtype of %s, found %s",
		e.Loc, e.Type, e.Trait, e.Member, e.Expected, e.Got)
}

// CompilerSystemError: an internal invariant was violated. In debug builds
// callers typically panic instead of constructing this; in release builds
// it is degraded into a reportable error (see debug_off.go).
type CompilerSystemError struct {
	baseErr
	Msg string
}

func (e *CompilerSystemError) Code() string { return "TYC099" }
func (e *CompilerSystemError) Error() string {
	return fmt.Sprintf("%s: internal error: %s", e.Loc, e.Msg)
}

// ErrorList accumulates diagnostics across a check pass instead of failing
// on the first one, so later errors in the same pass still surface
// (spec.md §7: errors stream rather than abort).
type ErrorList struct {
	errs []CheckError
}

func NewErrorList() *ErrorList {
	return &ErrorList{}
}

func (l *ErrorList) Add(e CheckError) {
	l.errs = append(l.errs, e)
}

func (l *ErrorList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.errs)
}

func (l *ErrorList) Errors() []CheckError {
	if l == nil {
		return nil
	}
	return l.errs
}

func (l *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	l.errs = append(l.errs, other.errs...)
}

// Located constructors for the driver package (internal/checker), which
// cannot set the unexported baseErr field directly. Construction inside
// this package (subtype.go, unify.go, instantiate.go) keeps using the
// struct literal form.

func NewNameError(loc SourceLoc, name, suggestion string) *NameError {
	return &NameError{baseErr{loc}, name, suggestion}
}

func NewTypeMismatchError(loc SourceLoc, expected, got Type) *TypeMismatchError {
	return &TypeMismatchError{baseErr{loc}, expected, got}
}

func NewSubtypingError(loc SourceLoc, sub, sup Type) *SubtypingError {
	return &SubtypingError{baseErr{loc}, sub, sup}
}

func NewMethodError(loc SourceLoc, receiver Type, method string) *MethodError {
	return &MethodError{baseErr{loc}, receiver, method}
}

func NewArgumentError(loc SourceLoc, callee string, expected, got int) *ArgumentError {
	return &ArgumentError{baseErr{loc}, callee, expected, got}
}

func NewArgumentTypeError(loc SourceLoc, callee, param string, expected, got Type) *ArgumentTypeError {
	return &ArgumentTypeError{baseErr{loc}, callee, param, expected, got}
}

func NewTooManyArgsError(loc SourceLoc, callee string, paramsLen, posArgsLen, kwArgsLen int) *TooManyArgsError {
	return &TooManyArgsError{baseErr{loc}, callee, paramsLen, posArgsLen, kwArgsLen}
}

func NewArgsMissingError(loc SourceLoc, callee string, missing []string) *ArgsMissingError {
	return &ArgsMissingError{baseErr{loc}, callee, missing}
}

func NewMultipleArgsError(loc SourceLoc, callee, param string) *MultipleArgsError {
	return &MultipleArgsError{baseErr{loc}, callee, param}
}

func NewUnexpectedKwArgError(loc SourceLoc, callee, param string) *UnexpectedKwArgError {
	return &UnexpectedKwArgError{baseErr{loc}, callee, param}
}

func NewDefaultParamError(loc SourceLoc, callee, param string) *DefaultParamError {
	return &DefaultParamError{baseErr{loc}, callee, param}
}

func NewDefaultParamNotFoundError(loc SourceLoc, callee, param, suggestion string) *DefaultParamNotFoundError {
	return &DefaultParamNotFoundError{baseErr{loc}, callee, param, suggestion}
}

func NewNoTraitImplError(loc SourceLoc, t Type, trait string) *NoTraitImplError {
	return &NoTraitImplError{baseErr{loc}, t, trait}
}

func NewTraitMemberNotDefinedError(loc SourceLoc, t Type, trait, member string) *TraitMemberNotDefinedError {
	return &TraitMemberNotDefinedError{baseErr{loc}, t, trait, member}
}

func NewNotInTraitError(loc SourceLoc, t Type, trait, member string) *NotInTraitError {
	return &NotInTraitError{baseErr{loc}, t, trait, member}
}

func NewTraitMemberTypeError(loc SourceLoc, t Type, trait, member string, expected, got Type) *TraitMemberTypeError {
	return &TraitMemberTypeError{baseErr{loc}, t, trait, member, expected, got}
}

func NewSpecializationError(loc SourceLoc, t Type, trait, member string, expected, got Type) *SpecializationError {
	return &SpecializationError{baseErr{loc}, t, trait, member, expected, got}
}

func NewFeatureError(loc SourceLoc, feature string) *FeatureError {
	return &FeatureError{baseErr{loc}, feature}
}

func NewCompilerSystemError(loc SourceLoc, msg string) *CompilerSystemError {
	return &CompilerSystemError{baseErr{loc}, msg}
}

// AssertNoUninited guards spec.md §3.1's invariant that Uninited must never
// appear in a finished HIR type: a debug build panics immediately (pointing
// at the bug), a release build degrades to a CompilerSystemError so the
// driver can keep going and report it alongside other diagnostics.
func AssertNoUninited(t Type, loc SourceLoc, errs *ErrorList) {
	if t != Uninited {
		return
	}
	assertInvariant(false, "Uninited type escaped the instantiation cache")
	errs.Add(&CompilerSystemError{baseErr{loc}, "Uninited type escaped the instantiation cache"})
}

func (l *ErrorList) Error() string {
	if l.Len() == 0 {
		return ""
	}
	s := l.errs[0].Error()
	for _, e := range l.errs[1:] {
		s += "\n" + e.Error()
	}
	return s
}
