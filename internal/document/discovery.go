package document

import "context"

// SourceMetadata describes one discovered .graphql file.
type SourceMetadata struct {
	Name     string
	FilePath string
}

// Discovery enumerates and reads executable GraphQL documents.
type Discovery interface {
	ListMetadata(ctx context.Context) ([]*SourceMetadata, error)
	ReadSource(ctx context.Context, name string) (string, error)
}
