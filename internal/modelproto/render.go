package modelproto

import (
	"os"
	"path"
	"strings"

	"github.com/jhump/protoreflect/v2/protoprint"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Render writes every file of the registry below outDir, at the path of
// its descriptor.
func Render(r *Registry, outDir string) error {
	for _, fd := range r.Files() {
		if err := renderFile(fd, outDir); err != nil {
			return err
		}
	}
	return nil
}

func renderFile(fd protoreflect.FileDescriptor, outDir string) error {
	pp := protoprint.Printer{}
	fp := path.Join(outDir, fd.Path())
	if err := os.MkdirAll(path.Dir(fp), 0755); err != nil {
		return err
	}
	openedFile, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer openedFile.Close()

	return pp.PrintProtoFile(fd, openedFile)
}

// Print renders one file descriptor to a string.
func Print(fd protoreflect.FileDescriptor) (string, error) {
	pp := protoprint.Printer{}
	var sb strings.Builder
	if err := pp.PrintProtoFile(fd, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
