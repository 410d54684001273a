package document

import (
	"context"
	"fmt"
)

type InMemorySource struct {
	Name    string
	Content string
}

// InMemoryDiscovery serves documents held in memory, in the order given.
type InMemoryDiscovery struct {
	metas    []*SourceMetadata
	contents map[string]string
}

func NewInMemoryDiscovery(sources ...InMemorySource) *InMemoryDiscovery {
	d := &InMemoryDiscovery{contents: make(map[string]string)}
	for _, src := range sources {
		d.metas = append(d.metas, &SourceMetadata{Name: src.Name, FilePath: src.Name})
		d.contents[src.Name] = src.Content
	}
	return d
}

func (d *InMemoryDiscovery) ListMetadata(ctx context.Context) ([]*SourceMetadata, error) {
	return append([]*SourceMetadata(nil), d.metas...), nil
}

func (d *InMemoryDiscovery) ReadSource(ctx context.Context, name string) (string, error) {
	content, ok := d.contents[name]
	if !ok {
		return "", fmt.Errorf("document %q not found", name)
	}
	return content, nil
}
