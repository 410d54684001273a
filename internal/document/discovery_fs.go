package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileSystemDiscovery finds *.graphql files below one or more root
// directories.
type FileSystemDiscovery struct {
	paths map[string]string
	metas []*SourceMetadata
}

// NewFileSystemDiscovery walks every root. Sources are named by their path
// relative to the root they were found under.
func NewFileSystemDiscovery(ctx context.Context, roots ...string) (*FileSystemDiscovery, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no document roots given")
	}
	discovery := &FileSystemDiscovery{paths: make(map[string]string)}

	for _, rootDir := range roots {
		err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(d.Name()) != ".graphql" {
				return nil
			}
			relPath, err := filepath.Rel(rootDir, path)
			if err != nil {
				return fmt.Errorf("failed to get relative path for %q: %w", path, err)
			}
			name := filepath.ToSlash(relPath)
			if _, dup := discovery.paths[name]; dup {
				name = filepath.ToSlash(path)
			}
			discovery.paths[name] = path
			discovery.metas = append(discovery.metas, &SourceMetadata{Name: name, FilePath: path})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk document root %q: %w", rootDir, err)
		}
	}
	sort.Slice(discovery.metas, func(i, j int) bool { return discovery.metas[i].Name < discovery.metas[j].Name })
	return discovery, nil
}

func (d *FileSystemDiscovery) ListMetadata(ctx context.Context) ([]*SourceMetadata, error) {
	return append([]*SourceMetadata(nil), d.metas...), nil
}

func (d *FileSystemDiscovery) ReadSource(ctx context.Context, name string) (string, error) {
	fp, ok := d.paths[name]
	if !ok {
		return "", fmt.Errorf("document %q not found", name)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read document %q: %w", name, err)
	}
	return string(content), nil
}
