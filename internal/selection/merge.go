package selection

// Merge merges the field list b into a. Fields of b whose response name is
// already present in a are merged recursively; the rest are appended. The
// first occurrence fixes a field's position. When b contributes nothing new
// the result holds exactly the ids of a.
func (a *Arena) Merge(x, y []FieldID) []FieldID {
	if len(y) == 0 {
		return x
	}
	if len(x) == 0 {
		return y
	}
	out := append(make([]FieldID, 0, len(x)+len(y)), x...)
	index := make(map[string]int, len(out))
	for i, id := range out {
		index[a.fields[id].ResponseName] = i
	}
	for _, id := range y {
		name := a.fields[id].ResponseName
		if i, ok := index[name]; ok {
			out[i] = a.mergeField(out[i], id)
			continue
		}
		index[name] = len(out)
		out = append(out, id)
	}
	return out
}

// MergeFragments merges fragment lists keyed by fragment name with the same
// rule as Merge.
func (a *Arena) MergeFragments(x, y []FragmentID) []FragmentID {
	if len(y) == 0 {
		return x
	}
	if len(x) == 0 {
		return y
	}
	out := append(make([]FragmentID, 0, len(x)+len(y)), x...)
	index := make(map[string]int, len(out))
	for i, id := range out {
		index[a.fragments[id].Name] = i
	}
	for _, id := range y {
		name := a.fragments[id].Name
		if i, ok := index[name]; ok {
			out[i] = a.mergeFragment(out[i], id)
			continue
		}
		index[name] = len(out)
		out = append(out, id)
	}
	return out
}

func (a *Arena) mergeField(x, y FieldID) FieldID {
	if x == y {
		return x
	}
	fx, fy := a.fields[x], a.fields[y]
	fields := a.Merge(fx.Fields, fy.Fields)
	fragments := a.MergeFragments(fx.Fragments, fy.Fragments)
	keys := fx.Keys.Union(fy.Keys)
	conds := mergeConditions(fx.Conditions, fy.Conditions)
	spreads := unionStrings(fx.Spreads, fy.Spreads)
	if sameIDs(fields, fx.Fields) && sameIDs(fragments, fx.Fragments) &&
		len(keys) == len(fx.Keys) && len(conds) == len(fx.Conditions) && len(spreads) == len(fx.Spreads) {
		return x
	}
	merged := *fx
	merged.Fields = fields
	merged.Fragments = fragments
	merged.Keys = keys
	merged.Conditions = conds
	merged.Spreads = spreads
	return a.NewField(&merged)
}

func (a *Arena) mergeFragment(x, y FragmentID) FragmentID {
	if x == y {
		return x
	}
	fx, fy := a.fragments[x], a.fragments[y]
	fields := a.Merge(fx.Fields, fy.Fields)
	fragments := a.MergeFragments(fx.Fragments, fy.Fragments)
	keys := fx.Keys.Union(fy.Keys)
	conds := mergeConditions(fx.Conditions, fy.Conditions)
	spreads := unionStrings(fx.Spreads, fy.Spreads)
	possible := unionStrings(fx.PossibleTypes, fy.PossibleTypes)
	if sameIDs(fields, fx.Fields) && sameIDs(fragments, fx.Fragments) &&
		len(keys) == len(fx.Keys) && len(conds) == len(fx.Conditions) &&
		len(spreads) == len(fx.Spreads) && len(possible) == len(fx.PossibleTypes) {
		return x
	}
	merged := *fx
	merged.Fields = fields
	merged.Fragments = fragments
	merged.Keys = keys
	merged.Conditions = conds
	merged.Spreads = spreads
	merged.PossibleTypes = possible
	return a.NewFragment(&merged)
}

// Equivalent reports whether two field lists have the same content: the
// same response names with equivalent sub-shapes, key sets and conditions.
// Order is ignored at every level.
func (a *Arena) Equivalent(x, y []FieldID) bool {
	if len(x) != len(y) {
		return false
	}
	byName := make(map[string]FieldID, len(y))
	for _, id := range y {
		byName[a.fields[id].ResponseName] = id
	}
	for _, id := range x {
		other, ok := byName[a.fields[id].ResponseName]
		if !ok || !a.equivalentField(id, other) {
			return false
		}
	}
	return true
}

func (a *Arena) equivalentField(x, y FieldID) bool {
	if x == y {
		return true
	}
	fx, fy := a.fields[x], a.fields[y]
	return fx.Name == fy.Name &&
		fx.Keys.SameSet(fy.Keys) &&
		sameConditions(fx.Conditions, fy.Conditions) &&
		sameStringSet(fx.Spreads, fy.Spreads) &&
		a.Equivalent(fx.Fields, fy.Fields) &&
		a.equivalentFragments(fx.Fragments, fy.Fragments)
}

func (a *Arena) equivalentFragments(x, y []FragmentID) bool {
	if len(x) != len(y) {
		return false
	}
	byName := make(map[string]FragmentID, len(y))
	for _, id := range y {
		byName[a.fragments[id].Name] = id
	}
	for _, id := range x {
		other, ok := byName[a.fragments[id].Name]
		if !ok {
			return false
		}
		fx, fy := a.fragments[id], a.fragments[other]
		if fx.Kind != fy.Kind ||
			!fx.Keys.SameSet(fy.Keys) ||
			!sameStringSet(fx.PossibleTypes, fy.PossibleTypes) ||
			!sameConditions(fx.Conditions, fy.Conditions) ||
			!a.Equivalent(fx.Fields, fy.Fields) ||
			!a.equivalentFragments(fx.Fragments, fy.Fragments) {
			return false
		}
	}
	return true
}

func sameIDs[T ~int32](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unionStrings(a, b []string) []string {
	var extra []string
	for _, s := range b {
		if containsString(a, s) || containsString(extra, s) {
			continue
		}
		extra = append(extra, s)
	}
	if len(extra) == 0 {
		return a
	}
	return append(append(make([]string, 0, len(a)+len(extra)), a...), extra...)
}

func containsString(list []string, s string) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !containsString(b, s) {
			return false
		}
	}
	return true
}
