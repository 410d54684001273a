package diag

import "fmt"

// Constructors for every error kind. Keep messages stable; tests match them.

func newError(kind Kind, site Site, name, message string) *Error {
	return &Error{
		Kind:     kind,
		Document: site.Document,
		Path:     append([]string(nil), site.Path...),
		Name:     name,
		Message:  message,
		Location: site.Location,
	}
}

func UnresolvedScalar(site Site, scalar string) *Error {
	return newError(KindUnresolvedScalar, site, scalar,
		fmt.Sprintf("custom scalar %q has no scalar mapping", scalar))
}

func UnknownType(site Site, typeName string) *Error {
	return newError(KindUnknownType, site, typeName,
		fmt.Sprintf("type %q is not defined in the schema", typeName))
}

func UnknownField(site Site, typeName, fieldName string) *Error {
	return newError(KindUnknownField, site, fieldName,
		fmt.Sprintf("field %q is not defined on type %q", fieldName, typeName))
}

func UnresolvableOperationRoot(site Site, operation string) *Error {
	return newError(KindUnresolvableOperationRoot, site, operation,
		fmt.Sprintf("schema defines no root type for %s operations", operation))
}

func DanglingFragmentSpread(site Site, fragment string) *Error {
	return newError(KindDanglingFragmentSpread, site, fragment,
		fmt.Sprintf("fragment %q is not defined", fragment))
}

func FragmentCycle(site Site, cycle []string) *Error {
	name := ""
	if len(cycle) > 0 {
		name = cycle[0]
	}
	return newError(KindFragmentCycle, site, name,
		fmt.Sprintf("fragment spreads form a cycle: %v", cycle))
}

func DuplicateDocument(site Site, kind, name string) *Error {
	return newError(KindDuplicateDocument, site, name,
		fmt.Sprintf("%s %q is defined more than once", kind, name))
}

func Syntax(loc Location, message string) *Error {
	return &Error{Kind: KindSyntax, Message: message, Location: loc}
}

func AmbiguousPossibleTypePartition(site Site, typeName string, groups int) *Error {
	return newError(KindAmbiguousPossibleTypePartition, site, typeName,
		fmt.Sprintf("possible type %q assigned to %d implementations", typeName, groups))
}

func AmbiguousSelectionKey(site Site, key string) *Error {
	return newError(KindAmbiguousSelectionKey, site, key,
		fmt.Sprintf("selection key %s resolves to two different shapes", key))
}

func UnresolvedReference(site Site, key string) *Error {
	return newError(KindUnresolvedReference, site, key,
		fmt.Sprintf("no model type for selection key %s", key))
}

func DeadFragment(site Site, typeCondition string, scope []string) Warning {
	return Warning{
		Kind:     WarningDeadFragment,
		Document: site.Document,
		Path:     append([]string(nil), site.Path...),
		Message:  fmt.Sprintf("fragment on %q can never apply to %v", typeCondition, scope),
		Location: site.Location,
	}
}
