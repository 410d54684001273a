package introspection

// Response is the body of a `__schema` introspection query. Both the bare
// form and the `{"data": ...}` HTTP envelope are accepted on decode.
type Response struct {
	Data   *Data `json:"data,omitempty"`
	Schema *Root `json:"__schema,omitempty"`
}

type Data struct {
	Schema *Root `json:"__schema"`
}

type Root struct {
	Description      *string      `json:"description,omitempty"`
	QueryType        *NamedRef    `json:"queryType"`
	MutationType     *NamedRef    `json:"mutationType"`
	SubscriptionType *NamedRef    `json:"subscriptionType"`
	Types            []*FullType  `json:"types"`
	Directives       []*Directive `json:"directives"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type FullType struct {
	Kind           string        `json:"kind"`
	Name           string        `json:"name"`
	Description    *string       `json:"description"`
	Fields         []*Field      `json:"fields"`
	InputFields    []*InputValue `json:"inputFields"`
	Interfaces     []*TypeRef    `json:"interfaces"`
	EnumValues     []*EnumValue  `json:"enumValues"`
	PossibleTypes  []*TypeRef    `json:"possibleTypes"`
	SpecifiedByURL *string       `json:"specifiedByURL,omitempty"`
	IsOneOf        *bool         `json:"isOneOf,omitempty"`
}

type Field struct {
	Name              string        `json:"name"`
	Description       *string       `json:"description"`
	Args              []*InputValue `json:"args"`
	Type              *TypeRef      `json:"type"`
	IsDeprecated      bool          `json:"isDeprecated"`
	DeprecationReason *string       `json:"deprecationReason"`
}

type InputValue struct {
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	Type              *TypeRef `json:"type"`
	DefaultValue      *string  `json:"defaultValue"`
	IsDeprecated      bool     `json:"isDeprecated,omitempty"`
	DeprecationReason *string  `json:"deprecationReason,omitempty"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type Directive struct {
	Name         string        `json:"name"`
	Description  *string       `json:"description"`
	Locations    []string      `json:"locations"`
	Args         []*InputValue `json:"args"`
	IsRepeatable bool          `json:"isRepeatable"`
}

type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}
