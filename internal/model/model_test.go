package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	model "github.com/hanpama/gqlmodel/internal/model"
	testutil "github.com/hanpama/gqlmodel/internal/testutil"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// buildAll compiles every document of source without linking.
func buildAll(t *testing.T, scalars typeres.ScalarMap, source string) []*model.Document {
	t.Helper()
	unit := testutil.Unit(t, testutil.Source("doc.graphql", source))
	resolver := testutil.Resolver(t, scalars)
	var docs []*model.Document
	for _, op := range unit.Operations {
		docs = append(docs, model.BuildOperation(op, unit, resolver))
	}
	for _, f := range unit.Fragments {
		docs = append(docs, model.BuildFragment(f, unit, resolver))
	}
	return docs
}

func compile(t *testing.T, source string) *model.Tree {
	t.Helper()
	docs := buildAll(t, testutil.Scalars(), source)
	for _, d := range docs {
		require.NoError(t, d.Err(), "document %s", d.Name)
	}
	tree, err := model.Link(docs)
	require.NoError(t, err)
	return tree
}

func nested(t *testing.T, parent *model.Type, name string) *model.Type {
	t.Helper()
	for _, n := range parent.NestedTypes {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("%s has no nested type %s", parent.QualifiedName, name)
	return nil
}

func field(t *testing.T, parent *model.Type, responseName string) *model.Field {
	t.Helper()
	for _, f := range parent.Fields {
		if f.ResponseName == responseName {
			return f
		}
	}
	t.Fatalf("%s has no field %s", parent.QualifiedName, responseName)
	return nil
}

func refNames(refs []model.Ref) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestObjectOperation(t *testing.T) {
	tree := compile(t, `
query HumanQuery($id: ID!, $withFriends: Boolean = false) {
  human(id: $id) {
    name
    height
    profile
    friends @include(if: $withFriends) { name }
  }
}`)
	require.Len(t, tree.Operations, 1)
	op := tree.Operations[0]
	assert.Equal(t, "query", op.OperationType)
	assert.Len(t, op.OperationID, 64)
	assert.Contains(t, op.SourceText, "query HumanQuery")
	assert.Equal(t, []model.Variable{
		{Name: "id", Type: model.StringType{}},
		{Name: "withFriends", Type: model.BooleanType{Nullable: true}, DefaultValue: "false"},
	}, op.Variables)

	data := op.Data
	assert.Equal(t, "HumanQuery", data.QualifiedName)
	assert.IsType(t, model.ObjectKind{}, data.Kind)

	human := nested(t, data, "Human")
	assert.Equal(t, "HumanQuery.Human", human.QualifiedName)
	assert.Equal(t, model.ObjectType{Ref: model.Ref{Key: human.Key, Name: "HumanQuery.Human"}, Nullable: true}, field(t, data, "human").Type)
	assert.Equal(t, model.StringType{}, field(t, human, "name").Type)
	assert.Equal(t, model.FloatType{Nullable: true}, field(t, human, "height").Type)
	assert.Equal(t, model.CustomType{Name: "URL", Mapped: "java.net.URI", Adapter: "UriAdapter", Nullable: true}, field(t, human, "profile").Type)

	friends := field(t, human, "friends")
	array, ok := friends.Type.(model.ArrayType)
	require.True(t, ok)
	assert.True(t, array.Nullable)
	friendsType := nested(t, human, "Friends")
	assert.Equal(t, "HumanQuery.Human.Friends", friendsType.QualifiedName)
	assert.Equal(t, model.ObjectType{Ref: model.Ref{Key: friendsType.Key, Name: friendsType.QualifiedName}, Nullable: true}, array.Of)

	require.Len(t, tree.CustomScalars, 1)
	assert.Equal(t, "URL", tree.CustomScalars[0].Name)
}

func TestConditionalFieldIsNullable(t *testing.T) {
	tree := compile(t, `
query Q($withName: Boolean!) {
  human(id: "1000") {
    name @include(if: $withName)
    id
  }
}`)
	human := nested(t, tree.Operations[0].Data, "Human")
	assert.Equal(t, model.StringType{Nullable: true}, field(t, human, "name").Type)
	assert.Equal(t, model.StringType{}, field(t, human, "id").Type)
}

func TestPolymorphicField(t *testing.T) {
	tree := compile(t, `query Q { random { ... on Human { height } ... on Droid { primaryFunction } } }`)
	random := nested(t, tree.Operations[0].Data, "Random")
	assert.Equal(t, "Q.Random", random.QualifiedName)

	kind, ok := random.Kind.(model.PolymorphicKind)
	require.True(t, ok, "got %s", model.KindName(random.Kind))
	assert.Equal(t, "Q.Random.OtherRandom", kind.Default.Name)
	assert.Equal(t, []model.PossibleImplementation{
		{TypeName: "Human", Ref: model.Ref{Key: nested(t, random, "Human").Key, Name: "Q.Random.Human"}},
		{TypeName: "Droid", Ref: model.Ref{Key: nested(t, random, "Droid").Key, Name: "Q.Random.Droid"}},
		{TypeName: "Wookie", Ref: model.Ref{Key: nested(t, random, "OtherRandom").Key, Name: "Q.Random.OtherRandom"}},
	}, kind.Possible)

	var accessors []string
	for _, a := range random.FragmentAccessors {
		accessors = append(accessors, a.Name+"="+a.Ref.Name)
	}
	assert.Equal(t, []string{"asHuman=Q.Random.Human", "asDroid=Q.Random.Droid"}, accessors)

	human := nested(t, random, "Human")
	assert.IsType(t, model.ObjectKind{}, human.Kind)
	assert.Equal(t, []string{"Q.Random"}, refNames(human.Implements))
	assert.Equal(t, []string{"Human"}, human.PossibleTypes)
	assert.Equal(t, "__typename", human.Fields[0].ResponseName)

	other := nested(t, random, "OtherRandom")
	assert.Len(t, other.Fields, 1)
	assert.Equal(t, []string{"Wookie"}, other.PossibleTypes)
}

func TestImplementationsImplementSharedFields(t *testing.T) {
	tree := compile(t, `query Q { hero { name friends { name } ... on Droid { primaryFunction } } }`)
	hero := nested(t, tree.Operations[0].Data, "Hero")
	require.IsType(t, model.PolymorphicKind{}, hero.Kind)

	shared := nested(t, hero, "Friends")
	assert.IsType(t, model.InterfaceKind{}, shared.Kind, "shared fields of a polymorphic type are abstract")

	droid := nested(t, hero, "Droid")
	droidFriends := nested(t, droid, "Friends")
	assert.Equal(t, "Q.Hero.Droid.Friends", droidFriends.QualifiedName)
	assert.IsType(t, model.ObjectKind{}, droidFriends.Kind)
	assert.Equal(t, []string{"Q.Hero.Friends"}, refNames(droidFriends.Implements))
}

func TestAliasNamedLikeImplementation(t *testing.T) {
	tree := compile(t, `query Q { hero { Droid: friends { name } ... on Droid { primaryFunction } } }`)
	hero := nested(t, tree.Operations[0].Data, "Hero")

	var keys, names []string
	for _, n := range hero.NestedTypes {
		if n.Name == "Droid" {
			keys = append(keys, n.Key.String())
			names = append(names, n.QualifiedName)
		}
	}
	assert.ElementsMatch(t, []string{"operation:Q/hero/Droid", "operation:Q/hero/...Droid"}, keys)
	assert.ElementsMatch(t, []string{"Q.Hero.Droid", "Q.Hero.Droid2"}, names)
}

func TestSharedFieldViaSpread(t *testing.T) {
	tree := compile(t, `
query Q {
  hero {
    name
    ...HeroName
  }
}

fragment HeroName on Character {
  name
}`)
	hero := nested(t, tree.Operations[0].Data, "Hero")
	assert.Equal(t, []string{"__typename", "name"}, []string{hero.Fields[0].ResponseName, hero.Fields[1].ResponseName})
	assert.Len(t, hero.Fields, 2)
	assert.Equal(t, []string{"HeroName"}, refNames(hero.Implements))
	require.Len(t, hero.FragmentAccessors, 1)
	assert.Equal(t, "heroName", hero.FragmentAccessors[0].Name)
	assert.Equal(t, "HeroName", hero.FragmentAccessors[0].Ref.Name)

	require.Len(t, tree.Fragments, 1)
	frag := tree.Fragments[0]
	assert.IsType(t, model.InterfaceKind{}, frag.Interface.Kind)
	assert.Equal(t, "HeroName", frag.Interface.QualifiedName)
	assert.Equal(t, "HeroName.Implementation", frag.Implementation.QualifiedName)
	assert.Equal(t, []string{"HeroName"}, refNames(frag.Implementation.Implements))
}

func TestFragmentShapes(t *testing.T) {
	tree := compile(t, `
fragment HeroDetails on Character {
  name
  ... on Droid { primaryFunction }
}`)
	require.Len(t, tree.Fragments, 1)
	frag := tree.Fragments[0]
	assert.Equal(t, "Character", frag.TypeCondition)

	iface := frag.Interface
	assert.IsType(t, model.InterfaceKind{}, iface.Kind)
	droid := nested(t, iface, "Droid")
	assert.IsType(t, model.InterfaceKind{}, droid.Kind)
	assert.Equal(t, "HeroDetails.Droid", droid.QualifiedName)
	require.Len(t, iface.FragmentAccessors, 1)
	assert.Equal(t, "asDroid", iface.FragmentAccessors[0].Name)

	impl := frag.Implementation
	kind, ok := impl.Kind.(model.PolymorphicKind)
	require.True(t, ok)
	assert.Equal(t, "HeroDetails.Implementation.OtherHeroDetails", kind.Default.Name)
	implDroid := nested(t, impl, "Droid")
	assert.Equal(t, "HeroDetails.Implementation.Droid", implDroid.QualifiedName)
	assert.ElementsMatch(t, []string{"HeroDetails.Implementation", "HeroDetails.Droid"}, refNames(implDroid.Implements))
	assert.Equal(t, []string{"HeroDetails"}, refNames(impl.Implements))
}

func TestSideTables(t *testing.T) {
	scalars := testutil.Scalars()
	scalars["Date"] = typeres.ScalarBinding{Type: "java.time.LocalDate"}
	docs := buildAll(t, scalars, `
mutation CreateReview($episode: Episode, $review: ReviewInput!) {
  createReview(episode: $episode, review: $review) { stars createdAt }
}`)
	tree, err := model.Link(docs)
	require.NoError(t, err)

	op := tree.Operations[0]
	assert.Equal(t, "mutation", op.OperationType)
	assert.Equal(t, model.EnumType{Name: "Episode", Nullable: true}, op.Variables[0].Type)
	assert.Equal(t, model.InputObjectType{Name: "ReviewInput"}, op.Variables[1].Type)

	var inputs []string
	for _, in := range tree.InputObjects {
		inputs = append(inputs, in.Name)
	}
	assert.Equal(t, []string{"ColorInput", "ReviewInput"}, inputs)
	review := tree.InputObjects[1]
	require.Len(t, review.Fields, 4)
	assert.Equal(t, "[NEWHOPE]", review.Fields[3].DefaultValue)
	assert.Equal(t, model.ArrayType{Of: model.EnumType{Name: "Episode"}, Nullable: true}, review.Fields[3].Type)

	require.Len(t, tree.Enums, 1)
	assert.Equal(t, "Episode", tree.Enums[0].Name)
	assert.Len(t, tree.Enums[0].Values, 3)
	require.Len(t, tree.CustomScalars, 1)
	assert.Equal(t, model.CustomScalar{Name: "Date", Mapped: "java.time.LocalDate"}, *tree.CustomScalars[0])
}

func TestUnmappedScalar(t *testing.T) {
	docs := buildAll(t, testutil.Scalars(), `
query Birthday { human(id: "1000") { birthday } }
query Name { human(id: "1000") { name } }
`)
	require.Len(t, docs, 2)

	errs := diag.Errors(docs[0].Err())
	require.Len(t, errs, 1)
	assert.Equal(t, diag.KindUnresolvedScalar, errs[0].Kind)
	assert.Equal(t, "Date", errs[0].Name)
	assert.Equal(t, "Birthday", errs[0].Document)
	assert.Equal(t, []string{"Birthday", "human", "birthday"}, errs[0].Path)
	assert.Nil(t, docs[0].Operation)

	require.NoError(t, docs[1].Err())
	tree, err := model.Link(docs)
	require.NoError(t, err, "failed documents are skipped, not relinked")
	require.Len(t, tree.Operations, 1)
	assert.Equal(t, "Name", tree.Operations[0].Name)
}

func TestUnresolvableOperationRoot(t *testing.T) {
	docs := buildAll(t, testutil.Scalars(), `subscription OnReview { reviewAdded { stars } }`)
	errs := diag.Errors(docs[0].Err())
	require.Len(t, errs, 1)
	assert.Equal(t, diag.KindUnresolvableOperationRoot, errs[0].Kind)
	assert.Equal(t, "OnReview", errs[0].Document)
}

func TestDeadFragmentWarning(t *testing.T) {
	tree := compile(t, `query Q { humanOrDroid { ... on Wookie { lifeExpectancy } } }`)
	require.Len(t, tree.Warnings, 1)
	assert.Equal(t, diag.WarningDeadFragment, tree.Warnings[0].Kind)
	field := nested(t, tree.Operations[0].Data, "HumanOrDroid")
	assert.IsType(t, model.ObjectKind{}, field.Kind)
}

func TestLinkDoesNotModifyDocuments(t *testing.T) {
	docs := buildAll(t, testutil.Scalars(), `query Q { hero { name friends { name } } }`)
	_, err := model.Link(docs)
	require.NoError(t, err)
	assert.Empty(t, docs[0].Operation.Data.QualifiedName)

	again, err := model.Link(docs)
	require.NoError(t, err)
	assert.Equal(t, "Q.Hero.Friends", nested(t, nested(t, again.Operations[0].Data, "Hero"), "Friends").QualifiedName)
}

func TestQualifiedNamesAreUnique(t *testing.T) {
	tree := compile(t, `query Q { hero { name } Hero: human(id: "1") { name } }`)
	data := tree.Operations[0].Data
	var names []string
	for _, n := range data.NestedTypes {
		names = append(names, n.QualifiedName)
	}
	assert.Equal(t, []string{"Q.Hero", "Q.Hero2"}, names)
}

func TestTreeSnapshot(t *testing.T) {
	tree := compile(t, testutil.MustReadFile(t, "testdata/starwars.graphql"))
	testutil.MatchJSONSnapshot(t, "testdata/starwars_tree.json", tree)
}
