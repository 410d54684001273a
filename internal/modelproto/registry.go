package modelproto

import "google.golang.org/protobuf/reflect/protoreflect"

// Registry holds the built descriptors and indexes them by model names.
type Registry struct {
	files      []protoreflect.FileDescriptor
	messages   map[string]protoreflect.MessageDescriptor
	fields     map[[2]string]protoreflect.FieldDescriptor
	enums      map[string]protoreflect.EnumDescriptor
	inputs     map[string]protoreflect.MessageDescriptor
	operations map[string]protoreflect.FileDescriptor
	fragments  map[string]protoreflect.FileDescriptor
	variables  map[string]protoreflect.MessageDescriptor
}

// Files returns every file descriptor, the common file first.
func (r *Registry) Files() []protoreflect.FileDescriptor { return r.files }

// Message returns the message of the model type with the given qualified
// name.
func (r *Registry) Message(qualifiedName string) protoreflect.MessageDescriptor {
	return r.messages[qualifiedName]
}

// Field returns the proto field for a response name of a model type.
func (r *Registry) Field(qualifiedName, responseName string) protoreflect.FieldDescriptor {
	return r.fields[[2]string{qualifiedName, responseName}]
}

func (r *Registry) Enum(name string) protoreflect.EnumDescriptor { return r.enums[name] }

func (r *Registry) InputObject(name string) protoreflect.MessageDescriptor { return r.inputs[name] }

// Operation returns the file generated for an operation.
func (r *Registry) Operation(name string) protoreflect.FileDescriptor { return r.operations[name] }

// Fragment returns the file generated for a named fragment.
func (r *Registry) Fragment(name string) protoreflect.FileDescriptor { return r.fragments[name] }

// Variables returns the variables message of an operation.
func (r *Registry) Variables(operation string) protoreflect.MessageDescriptor {
	return r.variables[operation]
}
